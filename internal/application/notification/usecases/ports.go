package usecases

import (
	"context"

	vo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
)

// Attachment is a file sent along with an email.
type Attachment struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Email is one templated message. Data holds the template variables.
type Email struct {
	Kind       vo.NotificationKind
	To         string
	Data       map[string]string
	Attachment *Attachment
}

// Mailer renders the template selected by Email.Kind and delivers it.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// DeliveryObserver records notification outcomes, typically as metrics.
type DeliveryObserver interface {
	ObserveDelivery(kind vo.NotificationKind, ok bool)
}
