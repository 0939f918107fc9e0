package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
)

type NotificationModel struct {
	ID        string         `gorm:"primaryKey;size:36"`
	Kind      string         `gorm:"size:32;not null"`
	TicketID  *string        `gorm:"size:36;index"`
	Recipient string         `gorm:"size:255;not null"`
	Payload   datatypes.JSON `gorm:"not null"`
	Status    string         `gorm:"size:20;not null;index:idx_notifications_status_created"`
	Attempts  int            `gorm:"not null;default:0"`
	LastError string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"not null;index:idx_notifications_status_created"`
	UpdatedAt time.Time      `gorm:"not null"`
	SentAt    *time.Time
}

func (NotificationModel) TableName() string {
	return constants.TableNotifications
}
