package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

// ErrTicketBusy is returned by TicketLocker implementations when the lock cannot be obtained.
var ErrTicketBusy = stderrors.New("ticket is being modified by another request")

// LifecycleSettings carries the configurable limits and defaults of the lifecycle.
type LifecycleSettings struct {
	MaxFiles                 int
	MaxFileBytes             int64
	UploadConcurrency        int
	DefaultBrand             string
	DefaultItemType          string
	DefaultExpertName        string
	NotificationTimeout      time.Duration
	SubmissionIdempotencyTTL time.Duration
	URLs                     dto.URLBuilder
}

func (s LifecycleSettings) withDefaults() LifecycleSettings {
	if s.MaxFiles <= 0 {
		s.MaxFiles = 10
	}
	if s.MaxFileBytes <= 0 {
		s.MaxFileBytes = 5 * 1024 * 1024
	}
	if s.UploadConcurrency <= 0 {
		s.UploadConcurrency = 4
	}
	if s.NotificationTimeout <= 0 {
		s.NotificationTimeout = 30 * time.Second
	}
	if s.SubmissionIdempotencyTTL <= 0 {
		s.SubmissionIdempotencyTTL = 24 * time.Hour
	}
	return s
}

// LifecycleDeps are the collaborators shared by every transition use case.
type LifecycleDeps struct {
	Repo     ticket.Repository
	Tx       TransactionRunner
	Locker   TicketLocker
	Notifier NotificationDispatcher
	Observer TransitionObserver
	Logger   logger.Interface
	Settings LifecycleSettings
}

type lifecycle struct {
	repo     ticket.Repository
	tx       TransactionRunner
	locker   TicketLocker
	notifier NotificationDispatcher
	observer TransitionObserver
	logger   logger.Interface
	settings LifecycleSettings
}

func newLifecycle(deps LifecycleDeps) lifecycle {
	return lifecycle{
		repo:     deps.Repo,
		tx:       deps.Tx,
		locker:   deps.Locker,
		notifier: deps.Notifier,
		observer: deps.Observer,
		logger:   deps.Logger,
		settings: deps.Settings.withDefaults(),
	}
}

// lockAndLoad takes the per-ticket lock and reads the current aggregate.
// The returned unlock is always safe to call.
func (l lifecycle) lockAndLoad(ctx context.Context, ticketID string) (*ticket.Ticket, func(), error) {
	unlock := func() {}
	if l.locker != nil {
		u, err := l.locker.Lock(ctx, ticketID)
		if err != nil {
			return nil, unlock, mapError(err, "lock ticket")
		}
		unlock = u
	}

	t, err := l.repo.GetByID(ctx, ticketID)
	if err != nil {
		unlock()
		return nil, func() {}, mapError(err, "load ticket")
	}
	return t, unlock, nil
}

func (l lifecycle) observe(from, to vo.TicketStatus) {
	if l.observer != nil && from != to {
		l.observer.ObserveTransition(from, to)
	}
}

// notify dispatches after commit on a context detached from the request.
// A failure becomes the returned warning.
func (l lifecycle) notify(ctx context.Context, n LifecycleNotification) string {
	if l.notifier == nil {
		return ""
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.settings.NotificationTimeout)
	defer cancel()

	if err := l.notifier.Dispatch(sendCtx, n); err != nil {
		l.logger.Warnw("notification not delivered",
			"ticket_id", n.Ticket.ID(),
			"kind", n.Kind,
			"error", err,
		)
		return fmt.Sprintf("%s email to the client could not be delivered; it has been queued for retry", n.Kind)
	}
	return ""
}

// mapError converts domain and infrastructure failures into application errors.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}

	switch {
	case stderrors.Is(err, ticket.ErrTicketNotFound):
		return errors.NewNotFoundError("ticket not found")
	case stderrors.Is(err, ticket.ErrCertificateNotFound):
		return errors.NewNotFoundError("certificate not found or invalid")
	case stderrors.Is(err, ErrTicketBusy):
		return errors.NewConflictError(ErrTicketBusy.Error())
	case stderrors.Is(err, ticket.ErrStatusConflict):
		return errors.NewInvalidStateError("ticket status changed concurrently, reload and retry")
	case stderrors.Is(err, ticket.ErrTicketFinalized):
		return errors.NewInvalidStateError("ticket already finalized")
	case ticket.IsStateError(err):
		return errors.NewInvalidStateError(err.Error())
	case isInputError(err):
		return errors.NewValidationError(err.Error())
	}
	return errors.NewInternalError("failed to " + op)
}

func isInputError(err error) bool {
	for _, target := range []error{
		ticket.ErrInvalidEmail,
		ticket.ErrNoImages,
		ticket.ErrCommentRequired,
		ticket.ErrCommentTooLong,
		ticket.ErrFieldTooLong,
		ticket.ErrInvalidVerdict,
		ticket.ErrDescriptionRequired,
		ticket.ErrDescriptionTooLong,
		ticket.ErrImageTypeMismatch,
	} {
		if stderrors.Is(err, target) {
			return true
		}
	}
	return false
}
