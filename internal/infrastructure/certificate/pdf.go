package certificate

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
)

// PDFRenderer draws an A4 certificate with the core Helvetica font.
// Text is translated to cp1252; characters outside it print as '?'.
type PDFRenderer struct {
	issuer    string
	verifyURL VerifyURLFunc
	comments  CommentFormatter
}

func NewPDFRenderer(issuer string, verifyURL VerifyURLFunc, comments CommentFormatter) *PDFRenderer {
	return &PDFRenderer{issuer: issuerOrDefault(issuer), verifyURL: verifyURL, comments: comments}
}

var _ usecases.CertificateRenderer = (*PDFRenderer)(nil)

func (r *PDFRenderer) Render(ctx context.Context, data usecases.CertificateData) (*usecases.CertificateDocument, error) {
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

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Certificate of Authenticity"), false)
	pdf.SetAuthor(tr(r.issuer), false)
	pdf.SetCreator(tr(r.issuer), false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 40

	pdf.SetDrawColor(22, 163, 74)
	pdf.SetLineWidth(1.2)
	pdf.Rect(10, 10, pageW-20, 277, "D")

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(24, 24, 27)
	pdf.CellFormat(contentW, 14, tr("Certificate of Authenticity"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(113, 113, 122)
	pdf.CellFormat(contentW, 8, tr(r.issuer), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(22, 163, 74)
	pdf.CellFormat(contentW, 10, tr("Verdict: "+data.Verdict.String()), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	rows := [][2]string{
		{"Certificate", data.QRToken},
		{"Request", data.TicketID},
		{"Brand", displayName(data.Brand)},
		{"Item", displayName(data.ItemType)},
		{"Checked on", data.CheckDate.Format(dateLayout)},
		{"Expert", data.ExpertName},
	}
	pdf.SetTextColor(24, 24, 27)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 8, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(contentW-40, 8, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	comment := data.Comment
	if r.comments != nil {
		comment = r.comments.PlainText(comment)
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, tr("Expert comment"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(contentW, 6, tr(comment), "", "L", false)
	pdf.Ln(6)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qr))
	qrW := 45.0
	x := (pageW - qrW) / 2
	y := pdf.GetY()
	if y+qrW+20 > 277 {
		pdf.AddPage()
		y = pdf.GetY()
	}
	pdf.ImageOptions("qr", x, y, qrW, qrW, false, opts, 0, link)
	pdf.SetY(y + qrW + 2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(113, 113, 122)
	pdf.CellFormat(contentW, 5, tr("Scan the code or visit"), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, tr(link), "", 1, "C", false, 0, link)

	if pdf.Err() {
		return nil, fmt.Errorf("failed to build pdf: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	return &usecases.CertificateDocument{
		Content:     buf.Bytes(),
		ContentType: constants.ContentTypePDF,
		FileName:    fileName(data.TicketID, formatPDF),
	}, nil
}
