package usecases

import (
	"context"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	nvo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

type CompleteTicketCommand struct {
	TicketID   string `json:"ticket_id" validate:"required,uuid"`
	Result     string `json:"result" validate:"required,oneof=AUTHENTIC FAKE"`
	Comment    string `json:"comment" validate:"notblank,maxrunes=5000"`
	ExpertName string `json:"expert_name" validate:"maxrunes=100"`
}

type CompleteTicketResult struct {
	Ticket            *dto.TicketDTO
	CertificateIssued bool
	Warning           string
}

type CompleteTicketUseCase struct {
	lifecycle
	issuer *CertificateIssuer
}

func NewCompleteTicketUseCase(deps LifecycleDeps, issuer *CertificateIssuer) *CompleteTicketUseCase {
	return &CompleteTicketUseCase{
		lifecycle: newLifecycle(deps),
		issuer:    issuer,
	}
}

func (uc *CompleteTicketUseCase) Execute(ctx context.Context, cmd CompleteTicketCommand) (*CompleteTicketResult, error) {
	uc.logger.Infow("executing complete ticket use case", "ticket_id", cmd.TicketID, "result", cmd.Result)

	if err := utils.ValidateStruct(cmd); err != nil {
		uc.logger.Warnw("invalid complete ticket command", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}
	verdict, err := vo.NewVerdict(cmd.Result)
	if err != nil {
		return nil, mapError(ticket.ErrInvalidVerdict, "complete ticket")
	}

	// an accepted completion runs to the end even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	t, unlock, err := uc.lockAndLoad(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	expected := t.Status()
	expert := cmd.ExpertName
	if expert == "" {
		expert = uc.settings.DefaultExpertName
	}
	if err := t.Complete(verdict, cmd.Comment, expert); err != nil {
		uc.logger.Warnw("completion rejected", "ticket_id", t.ID(), "status", expected, "error", err)
		return nil, mapError(err, "complete ticket")
	}

	var (
		cert *ticket.Certificate
		doc  *CertificateDocument
	)
	if verdict.IsAuthentic() {
		cert, doc, err = uc.issuer.Prepare(ctx, t)
		if err != nil {
			return nil, err
		}
	}

	issued := false
	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.repo.UpdateStatus(txCtx, t, expected); err != nil {
			return err
		}
		if cert == nil {
			return nil
		}
		stored, created, err := uc.issuer.Store(txCtx, t, cert)
		if err != nil {
			return err
		}
		issued = created
		cert = stored
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to persist completion", "ticket_id", t.ID(), "error", err)
		return nil, mapError(err, "complete ticket")
	}

	uc.logger.Infow("ticket completed",
		"ticket_id", t.ID(),
		"result", verdict,
		"certificate_issued", issued,
	)
	uc.observe(expected, t.Status())

	n := LifecycleNotification{Kind: nvo.KindRejection, Ticket: t}
	if cert != nil {
		n.Kind = nvo.KindCertificateIssued
		n.Document = doc
		if doc == nil || doc.Token != cert.QRCode() {
			n.Document = uc.rerender(ctx, t, cert)
		}
	}
	warning := uc.notify(ctx, n)

	return &CompleteTicketResult{
		Ticket:            dto.ToTicketDTO(t, uc.settings.URLs),
		CertificateIssued: issued,
		Warning:           warning,
	}, nil
}

// rerender renders the document for a certificate stored by an earlier completion.
func (uc *CompleteTicketUseCase) rerender(ctx context.Context, t *ticket.Ticket, cert *ticket.Certificate) *CertificateDocument {
	doc, err := uc.issuer.Render(ctx, t, cert.QRCode())
	if err != nil {
		uc.logger.Warnw("certificate re-render failed, emailing without attachment", "ticket_id", t.ID(), "error", err)
		return nil
	}
	return doc
}
