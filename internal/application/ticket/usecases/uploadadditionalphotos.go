package usecases

import (
	"context"
	"time"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

type UploadAdditionalPhotosCommand struct {
	TicketID string `json:"ticket_id" validate:"required,uuid"`
	Files    []ImageFile
}

type UploadAdditionalPhotosResult struct {
	Ticket   *dto.TicketDTO
	Uploaded []dto.ImageDTO
}

type UploadAdditionalPhotosUseCase struct {
	lifecycle
	images imageBatch
}

func NewUploadAdditionalPhotosUseCase(deps LifecycleDeps, store ImageStore, inspector ImageInspector) *UploadAdditionalPhotosUseCase {
	lc := newLifecycle(deps)
	return &UploadAdditionalPhotosUseCase{
		lifecycle: lc,
		images: imageBatch{
			store:     store,
			inspector: inspector,
			settings:  lc.settings,
			logger:    lc.logger,
		},
	}
}

func (uc *UploadAdditionalPhotosUseCase) Execute(ctx context.Context, cmd UploadAdditionalPhotosCommand) (*UploadAdditionalPhotosResult, error) {
	uc.logger.Infow("executing upload additional photos use case", "ticket_id", cmd.TicketID, "files", len(cmd.Files))

	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	files, err := uc.images.check(cmd.Files)
	if err != nil {
		uc.logger.Warnw("rejected additional files", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	t, unlock, err := uc.lockAndLoad(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// checked before anything is stored so a rejected upload leaves no objects behind
	if err := t.CanReceiveAdditionalPhotos(); err != nil {
		uc.logger.Warnw("additional photos rejected", "ticket_id", t.ID(), "status", t.Status(), "error", err)
		return nil, mapError(err, "upload additional photos")
	}

	images, err := uc.images.upload(ctx, t.ID(), vo.ImageTypeAdditional, files)
	if err != nil {
		return nil, err
	}

	expected := t.Status()
	if _, err := t.ReceiveAdditionalPhotos(images); err != nil {
		uc.images.discardImages(ctx, images)
		return nil, mapError(err, "upload additional photos")
	}

	writeCtx := context.WithoutCancel(ctx)
	err = uc.tx.RunInTransaction(writeCtx, func(txCtx context.Context) error {
		if err := uc.repo.AppendImages(txCtx, t.ID(), images); err != nil {
			return err
		}
		if _, err := uc.repo.FulfillOldestPendingPhotoRequest(txCtx, t.ID(), time.Now().UTC()); err != nil {
			return err
		}
		return uc.repo.UpdateStatus(txCtx, t, expected)
	})
	if err != nil {
		uc.logger.Errorw("failed to persist additional photos", "ticket_id", t.ID(), "error", err)
		uc.images.discardImages(ctx, images)
		return nil, mapError(err, "upload additional photos")
	}

	uc.logger.Infow("additional photos received",
		"ticket_id", t.ID(),
		"images", len(images),
		"from", expected,
		"to", t.Status(),
	)

	uc.observe(expected, t.Status())

	return &UploadAdditionalPhotosResult{
		Ticket:   dto.ToTicketDTO(t, uc.settings.URLs),
		Uploaded: dto.ToImageDTOs(images),
	}, nil
}
