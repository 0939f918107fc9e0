package usecases

import (
	"context"

	ticketdto "github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	ticketusecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

type EnsureCertificateCommand struct {
	TicketID string `json:"ticket_id" validate:"required,uuid"`
}

type EnsureCertificateResult struct {
	Certificate *ticketdto.CertificateDTO
	Created     bool
}

// EnsureCertificateUseCase issues the certificate of a COMPLETED AUTHENTIC
// ticket if it is missing. Calling it again returns the same certificate.
type EnsureCertificateUseCase struct {
	repo   ticket.Repository
	tx     ticketusecases.TransactionRunner
	locker ticketusecases.TicketLocker
	issuer *ticketusecases.CertificateIssuer
	logger logger.Interface
}

func NewEnsureCertificateUseCase(
	repo ticket.Repository,
	tx ticketusecases.TransactionRunner,
	locker ticketusecases.TicketLocker,
	issuer *ticketusecases.CertificateIssuer,
	logger logger.Interface,
) *EnsureCertificateUseCase {
	return &EnsureCertificateUseCase{
		repo:   repo,
		tx:     tx,
		locker: locker,
		issuer: issuer,
		logger: logger,
	}
}

func (uc *EnsureCertificateUseCase) Execute(ctx context.Context, cmd EnsureCertificateCommand) (*EnsureCertificateResult, error) {
	uc.logger.Infow("executing ensure certificate use case", "ticket_id", cmd.TicketID)

	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx, cmd.TicketID)
		if err != nil {
			return nil, errors.NewConflictError(ticketusecases.ErrTicketBusy.Error())
		}
		defer unlock()
	}

	t, err := uc.repo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		if ticket.IsNotFound(err) {
			return nil, errors.NewNotFoundError("ticket not found")
		}
		return nil, errors.NewInternalError("failed to load ticket")
	}

	if existing := t.Certificate(); existing != nil {
		return &EnsureCertificateResult{Certificate: ticketdto.ToCertificateDTO(existing, uc.issuer.URLs())}, nil
	}
	if r := t.Result(); !t.Status().IsCompleted() || r == nil || !r.IsAuthentic() {
		return nil, errors.NewInvalidStateError(ticket.ErrCertificateForbidden.Error())
	}

	cert, _, err := uc.issuer.Prepare(ctx, t)
	if err != nil {
		return nil, err
	}

	var (
		stored  *ticket.Certificate
		created bool
	)
	err = uc.tx.RunInTransaction(context.WithoutCancel(ctx), func(txCtx context.Context) error {
		stored, created, err = uc.issuer.Store(txCtx, t, cert)
		return err
	})
	if err != nil {
		uc.logger.Errorw("failed to store certificate", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to store certificate")
	}

	uc.logger.Infow("certificate ensured", "ticket_id", t.ID(), "created", created)
	return &EnsureCertificateResult{
		Certificate: ticketdto.ToCertificateDTO(stored, uc.issuer.URLs()),
		Created:     created,
	}, nil
}
