package usecases

import (
	"context"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	nvo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

type RequestPhotosCommand struct {
	TicketID    string `json:"ticket_id" validate:"required,uuid"`
	Description string `json:"description" validate:"notblank,maxrunes=500"`
}

type RequestPhotosResult struct {
	Ticket       *dto.TicketDTO
	PhotoRequest dto.PhotoRequestDTO
	UploadURL    string
	Warning      string
}

type RequestPhotosUseCase struct {
	lifecycle
}

func NewRequestPhotosUseCase(deps LifecycleDeps) *RequestPhotosUseCase {
	return &RequestPhotosUseCase{lifecycle: newLifecycle(deps)}
}

func (uc *RequestPhotosUseCase) Execute(ctx context.Context, cmd RequestPhotosCommand) (*RequestPhotosResult, error) {
	uc.logger.Infow("executing request photos use case", "ticket_id", cmd.TicketID)

	if err := utils.ValidateStruct(cmd); err != nil {
		uc.logger.Warnw("invalid request photos command", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	t, unlock, err := uc.lockAndLoad(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	expected := t.Status()
	pr, err := t.RequestPhotos(cmd.Description)
	if err != nil {
		uc.logger.Warnw("photo request rejected", "ticket_id", t.ID(), "status", expected, "error", err)
		return nil, mapError(err, "request photos")
	}

	writeCtx := context.WithoutCancel(ctx)
	err = uc.tx.RunInTransaction(writeCtx, func(txCtx context.Context) error {
		if err := uc.repo.CreatePhotoRequest(txCtx, pr); err != nil {
			return err
		}
		return uc.repo.UpdateStatus(txCtx, t, expected)
	})
	if err != nil {
		uc.logger.Errorw("failed to persist photo request", "ticket_id", t.ID(), "error", err)
		return nil, mapError(err, "request photos")
	}

	uc.logger.Infow("photos requested",
		"ticket_id", t.ID(),
		"photo_request_id", pr.ID(),
		"from", expected,
		"to", vo.StatusNeedsMorePhotos,
	)

	uc.observe(expected, t.Status())

	warning := uc.notify(ctx, LifecycleNotification{
		Kind:         nvo.KindPhotoRequest,
		Ticket:       t,
		PhotoRequest: pr,
	})

	out := dto.ToTicketDTO(t, uc.settings.URLs)
	return &RequestPhotosResult{
		Ticket:       out,
		PhotoRequest: out.PhotoRequests[len(out.PhotoRequests)-1],
		UploadURL:    uc.settings.URLs.UploadURL(t.ID()),
		Warning:      warning,
	}, nil
}

