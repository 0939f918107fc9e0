package notification

import "context"

// Repository is the notification outbox.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	Update(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, notificationID string) (*Notification, error)
	// ListRetryable returns failed notifications, oldest first.
	ListRetryable(ctx context.Context, limit int) ([]*Notification, error)
}
