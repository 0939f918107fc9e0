package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusPending         TicketStatus = "PENDING"
	StatusNeedsMorePhotos TicketStatus = "NEEDS_MORE_PHOTOS"
	StatusInReview        TicketStatus = "IN_REVIEW"
	StatusCompleted       TicketStatus = "COMPLETED"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusPending:         true,
	StatusNeedsMorePhotos: true,
	StatusInReview:        true,
	StatusCompleted:       true,
}

// ticketStatusTransitions is the lifecycle state machine. COMPLETED has no exits.
var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusPending: {
		StatusInReview,
		StatusNeedsMorePhotos,
		StatusCompleted,
	},
	StatusInReview: {
		StatusNeedsMorePhotos,
		StatusCompleted,
	},
	StatusNeedsMorePhotos: {
		StatusInReview,
	},
	StatusCompleted: {},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	for _, allowed := range ticketStatusTransitions[ts] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

func (ts TicketStatus) IsPending() bool {
	return ts == StatusPending
}

func (ts TicketStatus) IsInReview() bool {
	return ts == StatusInReview
}

func (ts TicketStatus) NeedsMorePhotos() bool {
	return ts == StatusNeedsMorePhotos
}

func (ts TicketStatus) IsCompleted() bool {
	return ts == StatusCompleted
}

// AllStatuses lists statuses in lifecycle order.
func AllStatuses() []TicketStatus {
	return []TicketStatus{StatusPending, StatusNeedsMorePhotos, StatusInReview, StatusCompleted}
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
