package usecases

import (
	"context"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

type StartReviewCommand struct {
	TicketID string `json:"ticket_id" validate:"required,uuid"`
}

type StartReviewResult struct {
	Ticket *dto.TicketDTO
	// Changed is false when the ticket was already IN_REVIEW.
	Changed bool
}

type StartReviewUseCase struct {
	lifecycle
}

func NewStartReviewUseCase(deps LifecycleDeps) *StartReviewUseCase {
	return &StartReviewUseCase{lifecycle: newLifecycle(deps)}
}

func (uc *StartReviewUseCase) Execute(ctx context.Context, cmd StartReviewCommand) (*StartReviewResult, error) {
	uc.logger.Infow("executing start review use case", "ticket_id", cmd.TicketID)

	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	t, unlock, err := uc.lockAndLoad(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	expected := t.Status()
	if err := t.StartReview(); err != nil {
		uc.logger.Warnw("start review rejected", "ticket_id", t.ID(), "status", expected, "error", err)
		return nil, mapError(err, "start review")
	}
	if t.Status() == expected {
		return &StartReviewResult{Ticket: dto.ToTicketDTO(t, uc.settings.URLs)}, nil
	}

	if err := uc.repo.UpdateStatus(context.WithoutCancel(ctx), t, expected); err != nil {
		uc.logger.Errorw("failed to persist review start", "ticket_id", t.ID(), "error", err)
		return nil, mapError(err, "start review")
	}

	uc.logger.Infow("review started", "ticket_id", t.ID())
	uc.observe(expected, t.Status())

	return &StartReviewResult{Ticket: dto.ToTicketDTO(t, uc.settings.URLs), Changed: true}, nil
}
