package certificate

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
)

//go:embed templates/certificate.html
var templateFS embed.FS

type htmlView struct {
	Issuer     string
	Token      string
	TicketID   string
	Verdict    string
	Brand      string
	ItemType   string
	CheckDate  string
	ExpertName string
	Comment    template.HTML
	QRDataURI  template.URL
	VerifyURL  string
}

// HTMLRenderer produces a standalone HTML certificate with the QR code inlined as a data URI.
type HTMLRenderer struct {
	issuer    string
	verifyURL VerifyURLFunc
	comments  CommentFormatter
	tpl       *template.Template
}

func NewHTMLRenderer(issuer string, verifyURL VerifyURLFunc, comments CommentFormatter) (*HTMLRenderer, error) {
	tpl, err := template.ParseFS(templateFS, "templates/certificate.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate template: %w", err)
	}
	return &HTMLRenderer{
		issuer:    issuerOrDefault(issuer),
		verifyURL: verifyURL,
		comments:  comments,
		tpl:       tpl,
	}, nil
}

var _ usecases.CertificateRenderer = (*HTMLRenderer)(nil)

func (r *HTMLRenderer) Render(ctx context.Context, data usecases.CertificateData) (*usecases.CertificateDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if data.QRToken == "" {
		return nil, fmt.Errorf("certificate token is required")
	}

	link := r.verifyURL(data.QRToken)
	qr, err := qrPNG(link)
	if err != nil {
		return nil, err
	}

	comment := template.HTML(template.HTMLEscapeString(data.Comment))
	if r.comments != nil {
		comment, err = r.comments.ToHTML(data.Comment)
		if err != nil {
			return nil, fmt.Errorf("failed to render comment: %w", err)
		}
	}

	view := htmlView{
		Issuer:     r.issuer,
		Token:      data.QRToken,
		TicketID:   data.TicketID,
		Verdict:    data.Verdict.String(),
		Brand:      displayName(data.Brand),
		ItemType:   displayName(data.ItemType),
		CheckDate:  data.CheckDate.Format(dateLayout),
		ExpertName: data.ExpertName,
		Comment:    comment,
		QRDataURI:  template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(qr)),
		VerifyURL:  link,
	}

	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, "certificate.html", view); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}

	return &usecases.CertificateDocument{
		Content:     buf.Bytes(),
		ContentType: constants.ContentTypeHTML,
		FileName:    fileName(data.TicketID, formatHTML),
	}, nil
}
