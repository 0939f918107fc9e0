package dto

import (
	"time"

	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
)

type TicketDTO struct {
	ID            string            `json:"id"`
	ClientEmail   string            `json:"client_email"`
	Brand         string            `json:"brand,omitempty"`
	ItemType      string            `json:"item_type,omitempty"`
	Status        string            `json:"status"`
	Result        *string           `json:"result"`
	Comment       string            `json:"comment,omitempty"`
	ExpertName    string            `json:"expert_name,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Images        []ImageDTO        `json:"images"`
	PhotoRequests []PhotoRequestDTO `json:"photo_requests"`
	Certificate   *CertificateDTO   `json:"certificate"`
}

type ImageDTO struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Type        string    `json:"type"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type PhotoRequestDTO struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	FulfilledAt *time.Time `json:"fulfilled_at,omitempty"`
}

type CertificateDTO struct {
	ID        string    `json:"id"`
	QRCode    string    `json:"qr_code"`
	PDFURL    string    `json:"pdf_url,omitempty"`
	VerifyURL string    `json:"verify_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusCountsDTO aggregates tickets per status.
type StatusCountsDTO struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	InReview    int64 `json:"in_review"`
	NeedsPhotos int64 `json:"needs_photos"`
	Completed   int64 `json:"completed"`
}

// URLBuilder produces the public links embedded in DTOs and notifications.
type URLBuilder struct {
	BaseURL string
	// APIBaseURL prefixes links served by this API. Defaults to BaseURL.
	APIBaseURL string
}

func (b URLBuilder) VerifyURL(token string) string {
	return b.BaseURL + "/verify/" + token
}

func (b URLBuilder) UploadURL(ticketID string) string {
	return b.BaseURL + "/upload/additional/" + ticketID
}

func (b URLBuilder) DocumentURL(token string) string {
	base := b.APIBaseURL
	if base == "" {
		base = b.BaseURL
	}
	return base + "/certificates/" + token + "/document"
}

func (b URLBuilder) StatusURL(ticketID string) string {
	return b.BaseURL + "/status/" + ticketID
}

func ToTicketDTO(t *ticket.Ticket, urls URLBuilder) *TicketDTO {
	if t == nil {
		return nil
	}

	out := &TicketDTO{
		ID:            t.ID(),
		ClientEmail:   t.ClientEmail(),
		Brand:         t.Brand(),
		ItemType:      t.ItemType(),
		Status:        t.Status().String(),
		Comment:       t.Comment(),
		ExpertName:    t.ExpertName(),
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
		Images:        ToImageDTOs(t.Images()),
		PhotoRequests: make([]PhotoRequestDTO, 0),
	}
	if r := t.Result(); r != nil {
		s := r.String()
		out.Result = &s
	}
	for _, pr := range t.PhotoRequests() {
		out.PhotoRequests = append(out.PhotoRequests, PhotoRequestDTO{
			ID:          pr.ID(),
			Description: pr.Description(),
			Status:      pr.Status().String(),
			CreatedAt:   pr.CreatedAt(),
			FulfilledAt: pr.FulfilledAt(),
		})
	}
	out.Certificate = ToCertificateDTO(t.Certificate(), urls)
	return out
}

func ToTicketDTOs(tickets []*ticket.Ticket, urls URLBuilder) []*TicketDTO {
	out := make([]*TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ToTicketDTO(t, urls))
	}
	return out
}

func ToImageDTOs(images []*ticket.Image) []ImageDTO {
	out := make([]ImageDTO, 0, len(images))
	for _, img := range images {
		out = append(out, ImageDTO{
			ID:          img.ID(),
			URL:         img.URL(),
			Type:        img.Type().String(),
			ContentType: img.ContentType(),
			Size:        img.Size(),
			UploadedAt:  img.UploadedAt(),
		})
	}
	return out
}

func ToCertificateDTO(c *ticket.Certificate, urls URLBuilder) *CertificateDTO {
	if c == nil {
		return nil
	}
	return &CertificateDTO{
		ID:        c.ID(),
		QRCode:    c.QRCode(),
		PDFURL:    c.PDFURL(),
		VerifyURL: urls.VerifyURL(c.QRCode()),
		CreatedAt: c.CreatedAt(),
	}
}

func ToStatusCountsDTO(c ticket.StatusCounts) StatusCountsDTO {
	return StatusCountsDTO{
		Total:       c.Total(),
		Pending:     c.Pending,
		InReview:    c.InReview,
		NeedsPhotos: c.NeedsMorePhotos,
		Completed:   c.Completed,
	}
}
