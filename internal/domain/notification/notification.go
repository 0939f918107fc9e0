package notification

import (
	"errors"
	"fmt"
	"time"

	vo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/id"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is one outbound email tracked for retry.
type Notification struct {
	id        string
	kind      vo.NotificationKind
	ticketID  string
	recipient string
	payload   map[string]string
	status    vo.DeliveryStatus
	attempts  int
	lastError string
	createdAt time.Time
	updatedAt time.Time
	sentAt    *time.Time
}

func NewNotification(kind vo.NotificationKind, ticketID, recipient string, payload map[string]string) (*Notification, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid notification kind: %s", kind)
	}
	if kind.RequiresTicket() && ticketID == "" {
		return nil, fmt.Errorf("ticket ID is required for %s notifications", kind)
	}
	if recipient == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	if payload == nil {
		payload = map[string]string{}
	}

	now := time.Now().UTC()
	return &Notification{
		id:        id.NewUUID(),
		kind:      kind,
		ticketID:  ticketID,
		recipient: recipient,
		payload:   payload,
		status:    vo.DeliveryPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructNotification(
	notificationID string,
	kind vo.NotificationKind,
	ticketID string,
	recipient string,
	payload map[string]string,
	status vo.DeliveryStatus,
	attempts int,
	lastError string,
	createdAt, updatedAt time.Time,
	sentAt *time.Time,
) (*Notification, error) {
	if notificationID == "" {
		return nil, fmt.Errorf("notification ID is required")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid notification kind: %s", kind)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid delivery status: %s", status)
	}
	if payload == nil {
		payload = map[string]string{}
	}
	return &Notification{
		id:        notificationID,
		kind:      kind,
		ticketID:  ticketID,
		recipient: recipient,
		payload:   payload,
		status:    status,
		attempts:  attempts,
		lastError: lastError,
		createdAt: createdAt,
		updatedAt: updatedAt,
		sentAt:    sentAt,
	}, nil
}

func (n *Notification) ID() string                { return n.id }
func (n *Notification) Kind() vo.NotificationKind { return n.kind }
func (n *Notification) TicketID() string          { return n.ticketID }
func (n *Notification) Recipient() string         { return n.recipient }
func (n *Notification) Status() vo.DeliveryStatus { return n.status }
func (n *Notification) Attempts() int             { return n.attempts }
func (n *Notification) LastError() string         { return n.lastError }
func (n *Notification) CreatedAt() time.Time      { return n.createdAt }
func (n *Notification) UpdatedAt() time.Time      { return n.updatedAt }
func (n *Notification) SentAt() *time.Time        { return n.sentAt }

func (n *Notification) Payload() map[string]string {
	out := make(map[string]string, len(n.payload))
	for k, v := range n.payload {
		out[k] = v
	}
	return out
}

// MarkSent records a successful delivery.
func (n *Notification) MarkSent() {
	now := time.Now().UTC()
	n.attempts++
	n.status = vo.DeliverySent
	n.lastError = ""
	n.sentAt = &now
	n.updatedAt = now
}

// MarkFailed records a failed attempt; after maxAttempts the notification is abandoned.
func (n *Notification) MarkFailed(cause error, maxAttempts int) {
	n.attempts++
	n.status = vo.DeliveryFailed
	if maxAttempts > 0 && n.attempts >= maxAttempts {
		n.status = vo.DeliveryAbandoned
	}
	if cause != nil {
		n.lastError = truncate(cause.Error(), 1000)
	}
	n.updatedAt = time.Now().UTC()
}

func (n *Notification) IsRetryable() bool {
	return n.status == vo.DeliveryFailed || n.status == vo.DeliveryPending
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
