package usecases

import (
	"context"

	"github.com/bagcheck-inc/bagcheck/internal/application/certificate/dto"
	ticketusecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
)

type VerifyCertificateExecutor interface {
	Execute(ctx context.Context, query VerifyCertificateQuery) (*dto.VerificationDTO, error)
}

type GetCertificateDocumentExecutor interface {
	Execute(ctx context.Context, query GetCertificateDocumentQuery) (*ticketusecases.CertificateDocument, error)
}

type EnsureCertificateExecutor interface {
	Execute(ctx context.Context, cmd EnsureCertificateCommand) (*EnsureCertificateResult, error)
}
