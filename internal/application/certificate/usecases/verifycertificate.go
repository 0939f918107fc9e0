package usecases

import (
	"context"
	"html/template"

	"github.com/bagcheck-inc/bagcheck/internal/application/certificate/dto"
	ticketdto "github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

// CommentFormatter turns an expert comment into sanitized HTML.
type CommentFormatter interface {
	ToHTML(src string) (template.HTML, error)
}

type VerifyCertificateQuery struct {
	Token string
}

type VerifyCertificateUseCase struct {
	repo      ticket.Repository
	formatter CommentFormatter
	defaults  Defaults
	urls      ticketdto.URLBuilder
	logger    logger.Interface
}

// Defaults fill fields the client left empty at submission.
type Defaults struct {
	Brand      string
	ItemType   string
	ExpertName string
}

func NewVerifyCertificateUseCase(
	repo ticket.Repository,
	formatter CommentFormatter,
	defaults Defaults,
	urls ticketdto.URLBuilder,
	logger logger.Interface,
) *VerifyCertificateUseCase {
	return &VerifyCertificateUseCase{
		repo:      repo,
		formatter: formatter,
		defaults:  defaults,
		urls:      urls,
		logger:    logger,
	}
}

func (uc *VerifyCertificateUseCase) Execute(ctx context.Context, query VerifyCertificateQuery) (*dto.VerificationDTO, error) {
	uc.logger.Infow("executing verify certificate use case", "token", utils.MaskToken(query.Token))

	cert, t, err := loadCertificate(ctx, uc.repo, query.Token)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			uc.logger.Errorw("failed to verify certificate", "token", utils.MaskToken(query.Token), "error", err)
		}
		return nil, err
	}
	if !t.Status().IsCompleted() || t.Result() == nil {
		return nil, errors.NewInvalidStateError("still under review")
	}

	verdict := *t.Result()
	out := &dto.VerificationDTO{
		Token:       cert.QRCode(),
		Verdict:     verdict.String(),
		Comment:     t.Comment(),
		ClientEmail: utils.MaskEmail(t.ClientEmail()),
		Brand:       orDefault(t.Brand(), uc.defaults.Brand),
		ItemType:    orDefault(t.ItemType(), uc.defaults.ItemType),
		ExpertName:  orDefault(t.ExpertName(), uc.defaults.ExpertName),
		IssuedAt:    cert.CreatedAt(),
		CheckedAt:   t.UpdatedAt(),
		Images:      ticketdto.ToImageDTOs(t.Images()),
	}
	if uc.formatter != nil && t.Comment() != "" {
		if html, err := uc.formatter.ToHTML(t.Comment()); err == nil {
			out.CommentHTML = html
		} else {
			uc.logger.Warnw("failed to format comment", "error", err)
		}
	}
	if verdict.IsAuthentic() {
		out.DocumentURL = uc.urls.DocumentURL(cert.QRCode())
	}
	return out, nil
}

// loadCertificate resolves a public token to its certificate and owning ticket.
func loadCertificate(ctx context.Context, repo ticket.Repository, token string) (*ticket.Certificate, *ticket.Ticket, error) {
	cert, err := repo.GetCertificateByToken(ctx, token)
	if err != nil {
		return nil, nil, mapError(err, "load certificate")
	}
	t, err := repo.GetByID(ctx, cert.TicketID())
	if err != nil {
		if ticket.IsNotFound(err) {
			return nil, nil, errors.NewNotFoundError("certificate not found or invalid")
		}
		return nil, nil, mapError(err, "load certificate ticket")
	}
	return cert, t, nil
}

func mapError(err error, op string) error {
	if errors.IsAppError(err) {
		return err
	}
	if ticket.IsNotFound(err) {
		return errors.NewNotFoundError("certificate not found or invalid")
	}
	return errors.NewInternalError("failed to " + op)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
