package ticket

import (
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
	"github.com/bagcheck-inc/bagcheck/internal/shared/id"
)

// PhotoRequest is an expert's ask for more evidence.
type PhotoRequest struct {
	id          string
	ticketID    string
	description string
	status      vo.PhotoRequestStatus
	createdAt   time.Time
	fulfilledAt *time.Time
}

func newPhotoRequest(ticketID, description string, now time.Time) (*PhotoRequest, error) {
	description = strings.TrimSpace(description)
	if err := ValidatePhotoRequestDescription(description); err != nil {
		return nil, err
	}
	return &PhotoRequest{
		id:          id.NewUUID(),
		ticketID:    ticketID,
		description: description,
		status:      vo.PhotoRequestPending,
		createdAt:   now,
	}, nil
}

// ValidatePhotoRequestDescription enforces a non-blank description of at most 500 characters.
func ValidatePhotoRequestDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return ErrDescriptionRequired
	}
	if utf8.RuneCountInString(description) > constants.MaxPhotoRequestDescription {
		return ErrDescriptionTooLong
	}
	return nil
}

func ReconstructPhotoRequest(requestID, ticketID, description string, status vo.PhotoRequestStatus, createdAt time.Time, fulfilledAt *time.Time) *PhotoRequest {
	return &PhotoRequest{
		id:          requestID,
		ticketID:    ticketID,
		description: description,
		status:      status,
		createdAt:   createdAt,
		fulfilledAt: fulfilledAt,
	}
}

func (p *PhotoRequest) ID() string                    { return p.id }
func (p *PhotoRequest) TicketID() string              { return p.ticketID }
func (p *PhotoRequest) Description() string           { return p.description }
func (p *PhotoRequest) Status() vo.PhotoRequestStatus { return p.status }
func (p *PhotoRequest) CreatedAt() time.Time          { return p.createdAt }
func (p *PhotoRequest) FulfilledAt() *time.Time       { return p.fulfilledAt }

func (p *PhotoRequest) IsPending() bool {
	return p.status == vo.PhotoRequestPending
}

func (p *PhotoRequest) fulfill(at time.Time) {
	p.status = vo.PhotoRequestFulfilled
	p.fulfilledAt = &at
}
