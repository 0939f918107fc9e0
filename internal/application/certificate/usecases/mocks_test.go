package usecases

import (
	"context"
	"fmt"
	"html/template"
	"time"

	ticketusecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
)

type mockTicketRepository struct {
	ticket.Repository

	GetByIDFunc                   func(ctx context.Context, ticketID string) (*ticket.Ticket, error)
	GetCertificateByTokenFunc     func(ctx context.Context, token string) (*ticket.Certificate, error)
	CreateCertificateIfAbsentFunc func(ctx context.Context, c *ticket.Certificate) (*ticket.Certificate, bool, error)
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID string) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, ticket.ErrTicketNotFound
}

func (m *mockTicketRepository) GetCertificateByToken(ctx context.Context, token string) (*ticket.Certificate, error) {
	if m.GetCertificateByTokenFunc != nil {
		return m.GetCertificateByTokenFunc(ctx, token)
	}
	return nil, ticket.ErrCertificateNotFound
}

func (m *mockTicketRepository) CreateCertificateIfAbsent(ctx context.Context, c *ticket.Certificate) (*ticket.Certificate, bool, error) {
	if m.CreateCertificateIfAbsentFunc != nil {
		return m.CreateCertificateIfAbsentFunc(ctx, c)
	}
	return c, true, nil
}

type mockTx struct{}

func (mockTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRenderer struct {
	Err   error
	calls int
}

func (m *mockRenderer) Render(_ context.Context, data ticketusecases.CertificateData) (*ticketusecases.CertificateDocument, error) {
	m.calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return &ticketusecases.CertificateDocument{
		Content:     []byte("<html>" + data.QRToken + "</html>"),
		ContentType: "text/html; charset=utf-8",
		FileName:    "certificate.html",
	}, nil
}

type fixedTokens string

func (f fixedTokens) Generate() (string, error) {
	if f == "" {
		return "", fmt.Errorf("no token")
	}
	return string(f), nil
}

type stubFormatter struct{}

func (stubFormatter) ToHTML(src string) (template.HTML, error) {
	return template.HTML("<p>" + src + "</p>"), nil
}

const testTicketID = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

func completedTicket(verdict vo.Verdict, cert *ticket.Certificate) *ticket.Ticket {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	img := ticket.ReconstructImage("img-2", testTicketID, vo.ImageTypeAdditional, "https://cdn/2.jpg", "k/2", "image/jpeg", 10, now.Add(time.Minute))
	img1 := ticket.ReconstructImage("img-1", testTicketID, vo.ImageTypeInitial, "https://cdn/1.jpg", "k/1", "image/jpeg", 10, now)
	t, err := ticket.ReconstructTicket(
		testTicketID, "jane.doe@example.com", "", "Tote",
		vo.StatusCompleted, &verdict, "**Genuine** leather", "", 3,
		now.Add(-time.Hour), now,
		[]*ticket.Image{img, img1}, nil, cert,
	)
	if err != nil {
		panic(err)
	}
	return t
}

func pendingTicket() *ticket.Ticket {
	now := time.Now().UTC()
	t, err := ticket.ReconstructTicket(
		testTicketID, "jane@example.com", "", "",
		vo.StatusPending, nil, "", "", 1,
		now, now, nil, nil, nil,
	)
	if err != nil {
		panic(err)
	}
	return t
}
