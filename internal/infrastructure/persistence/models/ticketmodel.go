package models

import (
	"time"

	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
)

type TicketModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	ClientEmail string    `gorm:"size:255;not null;index"`
	Brand       string    `gorm:"size:100"`
	ItemType    string    `gorm:"size:100"`
	Status      string    `gorm:"size:20;not null;index"`
	Result      *string   `gorm:"size:20"`
	Comment     string    `gorm:"type:text"`
	ExpertName  string    `gorm:"size:100"`
	Version     int       `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`

	Images        []TicketImageModel  `gorm:"foreignKey:TicketID"`
	PhotoRequests []PhotoRequestModel `gorm:"foreignKey:TicketID"`
	Certificate   *CertificateModel   `gorm:"foreignKey:TicketID"`
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

type TicketImageModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	TicketID    string    `gorm:"size:36;not null;index"`
	URL         string    `gorm:"size:1024;not null"`
	StorageKey  string    `gorm:"size:512;not null"`
	Type        string    `gorm:"size:20;not null"`
	ContentType string    `gorm:"size:100"`
	Size        int64     `gorm:"not null;default:0"`
	UploadedAt  time.Time `gorm:"not null"`
}

func (TicketImageModel) TableName() string {
	return constants.TableTicketImages
}

type PhotoRequestModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	TicketID    string    `gorm:"size:36;not null;index"`
	Description string    `gorm:"type:text;not null"`
	Status      string    `gorm:"size:20;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	FulfilledAt *time.Time
}

func (PhotoRequestModel) TableName() string {
	return constants.TablePhotoRequests
}

type CertificateModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	TicketID  string    `gorm:"size:36;not null;uniqueIndex"`
	QRCode    string    `gorm:"column:qr_code;size:64;not null;uniqueIndex"`
	PDFURL    string    `gorm:"column:pdf_url;size:1024"`
	CreatedAt time.Time `gorm:"not null"`
}

func (CertificateModel) TableName() string {
	return constants.TableCertificates
}
