package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

const maxTokenAttempts = 3

// CertificateIssuer builds, renders and stores certificates for AUTHENTIC tickets.
type CertificateIssuer struct {
	repo     ticket.Repository
	renderer CertificateRenderer
	tokens   TokenGenerator
	settings LifecycleSettings
	logger   logger.Interface
}

func NewCertificateIssuer(
	repo ticket.Repository,
	renderer CertificateRenderer,
	tokens TokenGenerator,
	settings LifecycleSettings,
	logger logger.Interface,
) *CertificateIssuer {
	return &CertificateIssuer{
		repo:     repo,
		renderer: renderer,
		tokens:   tokens,
		settings: settings.withDefaults(),
		logger:   logger,
	}
}

// Prepare returns the certificate t should carry and its rendered document.
// An existing certificate keeps its token. Nothing is persisted.
func (i *CertificateIssuer) Prepare(ctx context.Context, t *ticket.Ticket) (*ticket.Certificate, *CertificateDocument, error) {
	if existing := t.Certificate(); existing != nil {
		doc, err := i.Render(ctx, t, existing.QRCode())
		if err != nil {
			return nil, nil, err
		}
		return existing, doc, nil
	}

	token, err := i.uniqueToken(ctx)
	if err != nil {
		return nil, nil, err
	}
	cert, err := ticket.NewCertificate(t.ID(), token, i.settings.URLs.DocumentURL(token))
	if err != nil {
		return nil, nil, errors.NewInternalError("failed to build certificate")
	}

	doc, err := i.Render(ctx, t, token)
	if err != nil {
		return nil, nil, err
	}
	return cert, doc, nil
}

// Store inserts cert unless the ticket already has one and attaches the stored
// certificate to t. created is false when an earlier certificate was kept.
func (i *CertificateIssuer) Store(ctx context.Context, t *ticket.Ticket, cert *ticket.Certificate) (*ticket.Certificate, bool, error) {
	stored, created, err := i.repo.CreateCertificateIfAbsent(ctx, cert)
	if err != nil {
		return nil, false, fmt.Errorf("failed to store certificate: %w", err)
	}
	if _, err := t.AttachCertificate(stored); err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

// Render produces the certificate document for t using token. Failures are RenderErrors.
func (i *CertificateIssuer) Render(ctx context.Context, t *ticket.Ticket, token string) (*CertificateDocument, error) {
	data := i.certificateData(t, token)
	doc, err := i.renderer.Render(ctx, data)
	if err != nil {
		i.logger.Errorw("failed to render certificate", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewRenderError("failed to render certificate", err.Error())
	}
	doc.Token = token
	return doc, nil
}

func (i *CertificateIssuer) certificateData(t *ticket.Ticket, token string) CertificateData {
	data := CertificateData{
		TicketID:    t.ID(),
		Comment:     t.Comment(),
		ClientEmail: t.ClientEmail(),
		Brand:       firstNonEmpty(t.Brand(), i.settings.DefaultBrand),
		ItemType:    firstNonEmpty(t.ItemType(), i.settings.DefaultItemType),
		CheckDate:   t.UpdatedAt(),
		ExpertName:  firstNonEmpty(t.ExpertName(), i.settings.DefaultExpertName),
		QRToken:     token,
	}
	if r := t.Result(); r != nil {
		data.Verdict = *r
	}
	return data
}

func (i *CertificateIssuer) uniqueToken(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		token, err := i.tokens.Generate()
		if err != nil {
			return "", errors.NewInternalError("failed to generate certificate token")
		}
		_, err = i.repo.GetCertificateByToken(ctx, token)
		if stderrors.Is(err, ticket.ErrCertificateNotFound) {
			return token, nil
		}
		if err != nil {
			return "", mapError(err, "check certificate token")
		}
		i.logger.Warnw("certificate token collision", "attempt", attempt)
	}
	return "", errors.NewInternalError("failed to generate a unique certificate token")
}

// URLs exposes the link builder used for certificate links.
func (i *CertificateIssuer) URLs() dto.URLBuilder {
	return i.settings.URLs
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
