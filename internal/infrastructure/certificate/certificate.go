// Package certificate renders authenticity certificates with an embedded verification QR code.
package certificate

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/config"
)

const (
	qrSize      = 512
	dateLayout  = "January 2, 2006"
	formatPDF   = "pdf"
	formatHTML  = "html"
	defaultName = "BagCheck Authentication"
)

// CommentFormatter renders the expert comment for each output format.
type CommentFormatter interface {
	ToHTML(src string) (template.HTML, error)
	PlainText(src string) string
}

// VerifyURLFunc maps a QR token to the public verification page.
type VerifyURLFunc func(token string) string

// New returns the renderer selected by cfg.Format ("pdf" or "html").
func New(cfg config.CertificateConfig, verifyURL VerifyURLFunc, comments CommentFormatter) (usecases.CertificateRenderer, error) {
	switch strings.ToLower(cfg.Format) {
	case formatPDF, "":
		return NewPDFRenderer(cfg.IssuerName, verifyURL, comments), nil
	case formatHTML:
		return NewHTMLRenderer(cfg.IssuerName, verifyURL, comments)
	default:
		return nil, fmt.Errorf("unsupported certificate format: %s", cfg.Format)
	}
}

func qrPNG(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

var titleCaser = cases.Title(language.English)

// displayName title-cases free-form brand and item names for printing.
func displayName(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}

func issuerOrDefault(name string) string {
	if name == "" {
		return defaultName
	}
	return name
}

func fileName(ticketID, ext string) string {
	return fmt.Sprintf("certificate-%s.%s", ticketID, ext)
}
