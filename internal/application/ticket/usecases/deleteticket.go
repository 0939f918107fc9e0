package usecases

import (
	"context"

	"github.com/bagcheck-inc/bagcheck/internal/shared/goroutine"
)

type DeleteTicketCommand struct {
	TicketID string
}

type DeleteTicketResult struct {
	Success bool
}

type DeleteTicketUseCase struct {
	lifecycle
	images imageBatch
	// wait blocks until stored objects are removed; tests set it.
	wait bool
}

func NewDeleteTicketUseCase(deps LifecycleDeps, store ImageStore) *DeleteTicketUseCase {
	lc := newLifecycle(deps)
	return &DeleteTicketUseCase{
		lifecycle: lc,
		images:    imageBatch{store: store, settings: lc.settings, logger: lc.logger},
	}
}

func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) (*DeleteTicketResult, error) {
	uc.logger.Infow("executing delete ticket use case", "ticket_id", cmd.TicketID)

	t, unlock, err := uc.lockAndLoad(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := uc.repo.Delete(ctx, t.ID()); err != nil {
		uc.logger.Errorw("failed to delete ticket", "ticket_id", t.ID(), "error", err)
		return nil, mapError(err, "delete ticket")
	}

	uc.logger.Infow("ticket deleted successfully", "ticket_id", t.ID(), "images", len(t.Images()))

	if images := t.Images(); len(images) > 0 && uc.images.store != nil {
		cleanup := func() { uc.images.discardImages(context.WithoutCancel(ctx), images) }
		if uc.wait {
			cleanup()
		} else {
			goroutine.SafeGo(uc.logger, "delete-ticket-images", cleanup)
		}
	}

	return &DeleteTicketResult{Success: true}, nil
}
