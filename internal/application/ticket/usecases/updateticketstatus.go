package usecases

import (
	"context"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

// UpdateTicketStatusCommand is the direct status update used by the dashboard.
// It never bypasses the state machine: each target status maps to its transition.
type UpdateTicketStatusCommand struct {
	TicketID   string `json:"ticket_id" validate:"required,uuid"`
	Status     string `json:"status" validate:"required,oneof=PENDING IN_REVIEW NEEDS_MORE_PHOTOS COMPLETED"`
	Result     string `json:"result" validate:"omitempty,oneof=AUTHENTIC FAKE"`
	Comment    string `json:"comment" validate:"maxrunes=5000"`
	ExpertName string `json:"expert_name" validate:"maxrunes=100"`
}

type UpdateTicketStatusResult struct {
	Ticket  *dto.TicketDTO
	Warning string
}

type UpdateTicketStatusUseCase struct {
	startReview   *StartReviewUseCase
	requestPhotos *RequestPhotosUseCase
	complete      *CompleteTicketUseCase
	getTicket     *GetTicketUseCase
}

func NewUpdateTicketStatusUseCase(
	startReview *StartReviewUseCase,
	requestPhotos *RequestPhotosUseCase,
	complete *CompleteTicketUseCase,
	getTicket *GetTicketUseCase,
) *UpdateTicketStatusUseCase {
	return &UpdateTicketStatusUseCase{
		startReview:   startReview,
		requestPhotos: requestPhotos,
		complete:      complete,
		getTicket:     getTicket,
	}
}

func (uc *UpdateTicketStatusUseCase) Execute(ctx context.Context, cmd UpdateTicketStatusCommand) (*UpdateTicketStatusResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	switch vo.TicketStatus(cmd.Status) {
	case vo.StatusInReview:
		res, err := uc.startReview.Execute(ctx, StartReviewCommand{TicketID: cmd.TicketID})
		if err != nil {
			return nil, err
		}
		return &UpdateTicketStatusResult{Ticket: res.Ticket}, nil

	case vo.StatusNeedsMorePhotos:
		if cmd.Comment == "" {
			return nil, errors.NewValidationError("comment is required to describe the requested photos")
		}
		res, err := uc.requestPhotos.Execute(ctx, RequestPhotosCommand{
			TicketID:    cmd.TicketID,
			Description: cmd.Comment,
		})
		if err != nil {
			return nil, err
		}
		return &UpdateTicketStatusResult{Ticket: res.Ticket, Warning: res.Warning}, nil

	case vo.StatusCompleted:
		if cmd.Result == "" {
			return nil, errors.NewValidationError("result is required when completing a ticket")
		}
		res, err := uc.complete.Execute(ctx, CompleteTicketCommand{
			TicketID:   cmd.TicketID,
			Result:     cmd.Result,
			Comment:    cmd.Comment,
			ExpertName: cmd.ExpertName,
		})
		if err != nil {
			return nil, err
		}
		return &UpdateTicketStatusResult{Ticket: res.Ticket, Warning: res.Warning}, nil

	default:
		// PENDING is only reachable at creation
		current, err := uc.getTicket.Execute(ctx, GetTicketQuery{TicketID: cmd.TicketID})
		if err != nil {
			return nil, err
		}
		if current.Status != vo.StatusPending.String() {
			return nil, errors.NewInvalidStateError("cannot transition from " + current.Status + " to PENDING")
		}
		return &UpdateTicketStatusResult{Ticket: current}, nil
	}
}
