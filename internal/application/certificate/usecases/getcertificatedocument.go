package usecases

import (
	"context"

	ticketusecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

type GetCertificateDocumentQuery struct {
	Token string
}

// GetCertificateDocumentUseCase renders the certificate document on demand.
type GetCertificateDocumentUseCase struct {
	repo   ticket.Repository
	issuer *ticketusecases.CertificateIssuer
	logger logger.Interface
}

func NewGetCertificateDocumentUseCase(
	repo ticket.Repository,
	issuer *ticketusecases.CertificateIssuer,
	logger logger.Interface,
) *GetCertificateDocumentUseCase {
	return &GetCertificateDocumentUseCase{
		repo:   repo,
		issuer: issuer,
		logger: logger,
	}
}

func (uc *GetCertificateDocumentUseCase) Execute(ctx context.Context, query GetCertificateDocumentQuery) (*ticketusecases.CertificateDocument, error) {
	uc.logger.Infow("executing get certificate document use case", "token", utils.MaskToken(query.Token))

	cert, t, err := loadCertificate(ctx, uc.repo, query.Token)
	if err != nil {
		return nil, err
	}
	if r := t.Result(); r == nil || !r.IsAuthentic() {
		return nil, errors.NewNotFoundError("no certificate document is available for this ticket")
	}

	return uc.issuer.Render(ctx, t, cert.QRCode())
}
