package usecases

import (
	"context"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

const submissionKeyPrefix = "submit:"

type SubmitTicketCommand struct {
	ClientEmail    string `json:"client_email" validate:"required,client_email"`
	Brand          string `json:"brand" validate:"maxrunes=100"`
	ItemType       string `json:"item_type" validate:"maxrunes=100"`
	Files          []ImageFile
	IdempotencyKey string `json:"idempotency_key" validate:"omitempty,max=128"`
}

type SubmitTicketResult struct {
	Ticket *dto.TicketDTO
	// Replayed is true when an earlier submission with the same idempotency key was returned.
	Replayed bool
}

type SubmitTicketUseCase struct {
	repo        ticket.Repository
	images      imageBatch
	idempotency IdempotencyStore
	settings    LifecycleSettings
	logger      logger.Interface
}

func NewSubmitTicketUseCase(
	repo ticket.Repository,
	store ImageStore,
	inspector ImageInspector,
	idempotency IdempotencyStore,
	settings LifecycleSettings,
	logger logger.Interface,
) *SubmitTicketUseCase {
	settings = settings.withDefaults()
	return &SubmitTicketUseCase{
		repo: repo,
		images: imageBatch{
			store:     store,
			inspector: inspector,
			settings:  settings,
			logger:    logger,
		},
		idempotency: idempotency,
		settings:    settings,
		logger:      logger,
	}
}

func (uc *SubmitTicketUseCase) Execute(ctx context.Context, cmd SubmitTicketCommand) (*SubmitTicketResult, error) {
	uc.logger.Infow("executing submit ticket use case",
		"client_email", utils.MaskEmail(cmd.ClientEmail),
		"files", len(cmd.Files),
	)

	if err := utils.ValidateStruct(cmd); err != nil {
		uc.logger.Warnw("invalid submit ticket command", "error", err)
		return nil, err
	}
	files, err := uc.images.check(cmd.Files)
	if err != nil {
		uc.logger.Warnw("rejected submitted files", "error", err)
		return nil, err
	}

	key := ""
	if cmd.IdempotencyKey != "" && uc.idempotency != nil {
		key = submissionKeyPrefix + cmd.IdempotencyKey
		replay, err := uc.reserve(ctx, key)
		if err != nil || replay != nil {
			return replay, err
		}
	}

	result, err := uc.submit(ctx, cmd, files)
	if key != "" {
		uc.finish(ctx, key, result)
	}
	return result, err
}

func (uc *SubmitTicketUseCase) submit(ctx context.Context, cmd SubmitTicketCommand, files []checkedFile) (*SubmitTicketResult, error) {
	t, err := ticket.NewTicket(cmd.ClientEmail, cmd.Brand, cmd.ItemType)
	if err != nil {
		return nil, mapError(err, "create ticket")
	}

	images, err := uc.images.upload(ctx, t.ID(), vo.ImageTypeInitial, files)
	if err != nil {
		return nil, err
	}
	if err := t.AttachInitialImages(images); err != nil {
		uc.images.discardImages(ctx, images)
		return nil, mapError(err, "attach images")
	}

	if err := uc.repo.Create(ctx, t); err != nil {
		uc.logger.Errorw("failed to persist ticket", "ticket_id", t.ID(), "error", err)
		uc.images.discardImages(ctx, images)
		return nil, mapError(err, "create ticket")
	}

	uc.logger.Infow("ticket submitted successfully", "ticket_id", t.ID(), "images", len(images))
	return &SubmitTicketResult{Ticket: dto.ToTicketDTO(t, uc.settings.URLs)}, nil
}

// reserve claims the idempotency key. A non-nil result means the submission
// already happened and is being replayed.
func (uc *SubmitTicketUseCase) reserve(ctx context.Context, key string) (*SubmitTicketResult, error) {
	ticketID, reserved, err := uc.idempotency.Reserve(ctx, key, uc.settings.SubmissionIdempotencyTTL)
	if err != nil {
		uc.logger.Errorw("failed to reserve idempotency key", "error", err)
		return nil, errors.NewInternalError("failed to check idempotency key")
	}
	if reserved {
		return nil, nil
	}
	if ticketID == "" {
		return nil, errors.NewConflictError("a submission with this idempotency key is still being processed")
	}

	t, err := uc.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapError(err, "load submitted ticket")
	}
	uc.logger.Infow("replaying submission", "ticket_id", ticketID)
	return &SubmitTicketResult{Ticket: dto.ToTicketDTO(t, uc.settings.URLs), Replayed: true}, nil
}

func (uc *SubmitTicketUseCase) finish(ctx context.Context, key string, result *SubmitTicketResult) {
	ctx = context.WithoutCancel(ctx)
	if result == nil {
		if err := uc.idempotency.Release(ctx, key); err != nil {
			uc.logger.Warnw("failed to release idempotency key", "error", err)
		}
		return
	}
	if err := uc.idempotency.Complete(ctx, key, result.Ticket.ID, uc.settings.SubmissionIdempotencyTTL); err != nil {
		uc.logger.Warnw("failed to record idempotency key", "ticket_id", result.Ticket.ID, "error", err)
	}
}
