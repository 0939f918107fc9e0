package usecases

import (
	"context"
	"fmt"

	ticketdto "github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	ticketusecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/domain/notification"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

// Template variables shared by the email templates.
const (
	KeyTicketID         = "ticket_id"
	KeyBrand            = "brand"
	KeyItemType         = "item_type"
	KeyVerdict          = "verdict"
	KeyComment          = "comment"
	KeyExpertName       = "expert_name"
	KeyCheckDate        = "check_date"
	KeyVerifyURL        = "verify_url"
	KeyUploadURL        = "upload_url"
	KeyStatusURL        = "status_url"
	KeyDescription      = "description"
	KeyCertificateToken = "certificate_token"
)

const checkDateLayout = "January 2, 2006"

// DispatcherSettings configures payload defaults and retry limits.
type DispatcherSettings struct {
	MaxAttempts       int
	DefaultBrand      string
	DefaultItemType   string
	DefaultExpertName string
	URLs              ticketdto.URLBuilder
}

// Dispatcher records each lifecycle email in the outbox and sends it once.
// Failed sends stay in the outbox for RetryNotificationsUseCase.
type Dispatcher struct {
	repo     notification.Repository
	mailer   Mailer
	observer DeliveryObserver
	settings DispatcherSettings
	logger   logger.Interface
}

func NewDispatcher(
	repo notification.Repository,
	mailer Mailer,
	observer DeliveryObserver,
	settings DispatcherSettings,
	logger logger.Interface,
) *Dispatcher {
	if settings.MaxAttempts <= 0 {
		settings.MaxAttempts = 5
	}
	return &Dispatcher{
		repo:     repo,
		mailer:   mailer,
		observer: observer,
		settings: settings,
		logger:   logger,
	}
}

var _ ticketusecases.NotificationDispatcher = (*Dispatcher)(nil)

func (d *Dispatcher) Dispatch(ctx context.Context, n ticketusecases.LifecycleNotification) error {
	if n.Ticket == nil {
		return fmt.Errorf("lifecycle notification without ticket")
	}

	payload := d.Payload(n.Kind, n.Ticket, n.PhotoRequest)
	record, err := notification.NewNotification(n.Kind, n.Ticket.ID(), n.Ticket.ClientEmail(), payload)
	if err != nil {
		return fmt.Errorf("failed to build notification: %w", err)
	}

	stored := true
	if err := d.repo.Create(ctx, record); err != nil {
		stored = false
		d.logger.Errorw("failed to record notification in outbox", "ticket_id", n.Ticket.ID(), "kind", n.Kind, "error", err)
	}

	email := Email{Kind: n.Kind, To: record.Recipient(), Data: payload}
	if n.Document != nil {
		email.Attachment = &Attachment{
			FileName:    n.Document.FileName,
			ContentType: n.Document.ContentType,
			Content:     n.Document.Content,
		}
	}

	sendErr := d.mailer.Send(ctx, email)
	d.observe(n.Kind, sendErr == nil)
	if sendErr != nil {
		record.MarkFailed(sendErr, d.settings.MaxAttempts)
	} else {
		record.MarkSent()
	}
	if stored {
		if err := d.repo.Update(ctx, record); err != nil {
			d.logger.Errorw("failed to update notification outbox", "notification_id", record.ID(), "error", err)
		}
	}

	if sendErr != nil {
		return errors.NewNotificationError("failed to send "+n.Kind.String()+" email", sendErr.Error())
	}
	d.logger.Infow("notification sent", "ticket_id", n.Ticket.ID(), "kind", n.Kind, "notification_id", record.ID())
	return nil
}

// Payload builds the template variables for a ticket email.
func (d *Dispatcher) Payload(kind vo.NotificationKind, t *ticket.Ticket, pr *ticket.PhotoRequest) map[string]string {
	p := map[string]string{
		KeyTicketID:   t.ID(),
		KeyBrand:      orDefault(t.Brand(), d.settings.DefaultBrand),
		KeyItemType:   orDefault(t.ItemType(), d.settings.DefaultItemType),
		KeyExpertName: orDefault(t.ExpertName(), d.settings.DefaultExpertName),
		KeyStatusURL:  d.settings.URLs.StatusURL(t.ID()),
	}

	switch kind {
	case vo.KindCertificateIssued, vo.KindRejection:
		if r := t.Result(); r != nil {
			p[KeyVerdict] = r.String()
		}
		p[KeyComment] = t.Comment()
		p[KeyCheckDate] = t.UpdatedAt().Format(checkDateLayout)
		if c := t.Certificate(); c != nil {
			p[KeyCertificateToken] = c.QRCode()
			p[KeyVerifyURL] = d.settings.URLs.VerifyURL(c.QRCode())
		}
	case vo.KindPhotoRequest:
		p[KeyUploadURL] = d.settings.URLs.UploadURL(t.ID())
		if pr == nil {
			pr = t.PendingPhotoRequest()
		}
		if pr != nil {
			p[KeyDescription] = pr.Description()
		}
	}
	return p
}

func (d *Dispatcher) observe(kind vo.NotificationKind, ok bool) {
	if d.observer != nil {
		d.observer.ObserveDelivery(kind, ok)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
