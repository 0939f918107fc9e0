package usecases

import (
	"context"
	"fmt"

	ticketusecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/domain/notification"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

type RetryNotificationsCommand struct {
	BatchSize int
}

type RetryNotificationsResult struct {
	Attempted int
	Sent      int
	Failed    int
	Abandoned int
}

// RetryNotificationsUseCase resends failed outbox entries. Certificate emails
// get a freshly rendered attachment.
type RetryNotificationsUseCase struct {
	repo        notification.Repository
	tickets     ticket.Repository
	issuer      *ticketusecases.CertificateIssuer
	mailer      Mailer
	observer    DeliveryObserver
	maxAttempts int
	logger      logger.Interface
}

func NewRetryNotificationsUseCase(
	repo notification.Repository,
	tickets ticket.Repository,
	issuer *ticketusecases.CertificateIssuer,
	mailer Mailer,
	observer DeliveryObserver,
	maxAttempts int,
	logger logger.Interface,
) *RetryNotificationsUseCase {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &RetryNotificationsUseCase{
		repo:        repo,
		tickets:     tickets,
		issuer:      issuer,
		mailer:      mailer,
		observer:    observer,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

func (uc *RetryNotificationsUseCase) Execute(ctx context.Context, cmd RetryNotificationsCommand) (*RetryNotificationsResult, error) {
	batch := cmd.BatchSize
	if batch <= 0 {
		batch = 50
	}

	pending, err := uc.repo.ListRetryable(ctx, batch)
	if err != nil {
		uc.logger.Errorw("failed to list retryable notifications", "error", err)
		return nil, fmt.Errorf("failed to list retryable notifications: %w", err)
	}

	result := &RetryNotificationsResult{}
	for _, n := range pending {
		if ctx.Err() != nil {
			break
		}
		result.Attempted++

		sendErr := uc.resend(ctx, n)
		if uc.observer != nil {
			uc.observer.ObserveDelivery(n.Kind(), sendErr == nil)
		}
		if sendErr != nil {
			n.MarkFailed(sendErr, uc.maxAttempts)
			if n.Status() == vo.DeliveryAbandoned {
				result.Abandoned++
				uc.logger.Errorw("notification abandoned", "notification_id", n.ID(), "attempts", n.Attempts(), "error", sendErr)
			} else {
				result.Failed++
				uc.logger.Warnw("notification retry failed", "notification_id", n.ID(), "attempts", n.Attempts(), "error", sendErr)
			}
		} else {
			n.MarkSent()
			result.Sent++
		}

		if err := uc.repo.Update(ctx, n); err != nil {
			uc.logger.Errorw("failed to update notification", "notification_id", n.ID(), "error", err)
		}
	}

	if result.Attempted > 0 {
		uc.logger.Infow("notification retry batch finished",
			"attempted", result.Attempted,
			"sent", result.Sent,
			"failed", result.Failed,
			"abandoned", result.Abandoned,
		)
	}
	return result, nil
}

func (uc *RetryNotificationsUseCase) resend(ctx context.Context, n *notification.Notification) error {
	email := Email{Kind: n.Kind(), To: n.Recipient(), Data: n.Payload()}

	if n.Kind() == vo.KindCertificateIssued {
		attachment, err := uc.attachment(ctx, n)
		if err != nil {
			return err
		}
		email.Attachment = attachment
	}
	return uc.mailer.Send(ctx, email)
}

func (uc *RetryNotificationsUseCase) attachment(ctx context.Context, n *notification.Notification) (*Attachment, error) {
	t, err := uc.tickets.GetByID(ctx, n.TicketID())
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket %s: %w", n.TicketID(), err)
	}
	cert := t.Certificate()
	if cert == nil {
		return nil, fmt.Errorf("ticket %s has no certificate", t.ID())
	}
	doc, err := uc.issuer.Render(ctx, t, cert.QRCode())
	if err != nil {
		return nil, err
	}
	return &Attachment{FileName: doc.FileName, ContentType: doc.ContentType, Content: doc.Content}, nil
}
