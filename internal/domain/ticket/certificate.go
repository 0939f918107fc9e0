package ticket

import (
	"fmt"
	"time"

	"github.com/bagcheck-inc/bagcheck/internal/shared/id"
)

// Certificate is the proof of authenticity for an AUTHENTIC ticket. It is immutable.
type Certificate struct {
	id        string
	ticketID  string
	qrCode    string
	pdfURL    string
	createdAt time.Time
}

func NewCertificate(ticketID, qrCode, pdfURL string) (*Certificate, error) {
	if ticketID == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if !id.IsBase62(qrCode) {
		return nil, fmt.Errorf("qr code must be a non-empty base62 token")
	}
	return &Certificate{
		id:        id.NewUUID(),
		ticketID:  ticketID,
		qrCode:    qrCode,
		pdfURL:    pdfURL,
		createdAt: time.Now().UTC(),
	}, nil
}

func ReconstructCertificate(certID, ticketID, qrCode, pdfURL string, createdAt time.Time) *Certificate {
	return &Certificate{
		id:        certID,
		ticketID:  ticketID,
		qrCode:    qrCode,
		pdfURL:    pdfURL,
		createdAt: createdAt,
	}
}

func (c *Certificate) ID() string           { return c.id }
func (c *Certificate) TicketID() string     { return c.ticketID }
func (c *Certificate) QRCode() string       { return c.qrCode }
func (c *Certificate) PDFURL() string       { return c.pdfURL }
func (c *Certificate) CreatedAt() time.Time { return c.createdAt }
