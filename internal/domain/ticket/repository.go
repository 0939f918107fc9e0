package ticket

import (
	"context"
	"time"

	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
)

// Repository persists the Ticket aggregate. Reads return fully hydrated tickets.
// Writes join the transaction carried by ctx, if any.
type Repository interface {
	// Create stores a new ticket together with its initial images.
	// Create inserts the ticket with its images and photo requests atomically.
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, ticketID string) (*Ticket, error)
	List(ctx context.Context, filter Filter) ([]*Ticket, int64, error)
	CountByStatus(ctx context.Context, filter Filter) (StatusCounts, error)
	// UpdateStatus writes status, verdict fields and version only if the stored
	// status still equals expected; otherwise it returns ErrStatusConflict.
	UpdateStatus(ctx context.Context, t *Ticket, expected vo.TicketStatus) error
	AppendImages(ctx context.Context, ticketID string, images []*Image) error
	CreatePhotoRequest(ctx context.Context, pr *PhotoRequest) error
	// FulfillOldestPendingPhotoRequest returns ErrNoPendingRequest when nothing is outstanding.
	FulfillOldestPendingPhotoRequest(ctx context.Context, ticketID string, at time.Time) (*PhotoRequest, error)
	// CreateCertificateIfAbsent returns the stored certificate for the ticket,
	// inserting c only when none exists. created reports whether c was inserted.
	CreateCertificateIfAbsent(ctx context.Context, c *Certificate) (stored *Certificate, created bool, err error)
	GetCertificateByToken(ctx context.Context, token string) (*Certificate, error)
	// Delete removes the ticket, every child row and its outbox notifications.
	Delete(ctx context.Context, ticketID string) error
}

type Filter struct {
	Status      *vo.TicketStatus
	ClientEmail string
	Limit       int
	Offset      int
}

// StatusCounts aggregates tickets per lifecycle status.
type StatusCounts struct {
	Pending         int64
	InReview        int64
	NeedsMorePhotos int64
	Completed       int64
}

func (c StatusCounts) Total() int64 {
	return c.Pending + c.InReview + c.NeedsMorePhotos + c.Completed
}

// Add increments the bucket for status by n.
func (c *StatusCounts) Add(status vo.TicketStatus, n int64) {
	switch status {
	case vo.StatusPending:
		c.Pending += n
	case vo.StatusInReview:
		c.InReview += n
	case vo.StatusNeedsMorePhotos:
		c.NeedsMorePhotos += n
	case vo.StatusCompleted:
		c.Completed += n
	}
}
