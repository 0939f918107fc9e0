package usecases

import (
	"context"
	"time"

	ticketusecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

const testEmailKeyPrefix = "test-email:"

type SendTestEmailCommand struct {
	Email string `json:"email" validate:"required,client_email"`
}

type SendTestEmailResult struct {
	Sent bool
	// Duplicate is true when an identical request arrived within the dedup window.
	Duplicate bool
}

type SendTestEmailUseCase struct {
	mailer      Mailer
	idempotency ticketusecases.IdempotencyStore
	ttl         time.Duration
	logger      logger.Interface
}

func NewSendTestEmailUseCase(
	mailer Mailer,
	idempotency ticketusecases.IdempotencyStore,
	ttl time.Duration,
	logger logger.Interface,
) *SendTestEmailUseCase {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &SendTestEmailUseCase{
		mailer:      mailer,
		idempotency: idempotency,
		ttl:         ttl,
		logger:      logger,
	}
}

func (uc *SendTestEmailUseCase) Execute(ctx context.Context, cmd SendTestEmailCommand) (*SendTestEmailResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	to := utils.NormalizeEmail(cmd.Email)
	key := testEmailKeyPrefix + to

	if uc.idempotency != nil {
		_, reserved, err := uc.idempotency.Reserve(ctx, key, uc.ttl)
		if err != nil {
			uc.logger.Errorw("failed to reserve test email key", "error", err)
			return nil, errors.NewInternalError("failed to check for duplicate request")
		}
		if !reserved {
			uc.logger.Infow("duplicate test email suppressed", "to", utils.MaskEmail(to))
			return &SendTestEmailResult{Duplicate: true}, nil
		}
	}

	err := uc.mailer.Send(ctx, Email{
		Kind: vo.KindTest,
		To:   to,
		Data: map[string]string{"sent_at": time.Now().UTC().Format(time.RFC1123)},
	})
	if err != nil {
		uc.logger.Warnw("test email failed", "to", utils.MaskEmail(to), "error", err)
		if uc.idempotency != nil {
			if relErr := uc.idempotency.Release(context.WithoutCancel(ctx), key); relErr != nil {
				uc.logger.Warnw("failed to release test email key", "error", relErr)
			}
		}
		return nil, errors.NewNotificationError("failed to send test email", err.Error())
	}

	uc.logger.Infow("test email sent", "to", utils.MaskEmail(to))
	return &SendTestEmailResult{Sent: true}, nil
}
