package email

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/bagcheck-inc/bagcheck/internal/application/notification/usecases"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/config"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/markdown"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []string
	calls int
	Err   error
}

func (r *recordingSender) DialAndSend(msgs ...*gomail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.Err != nil {
		return r.Err
	}
	for _, m := range msgs {
		var buf bytes.Buffer
		if _, err := m.WriteTo(&buf); err != nil {
			return err
		}
		r.sent = append(r.sent, buf.String())
	}
	return nil
}

func loadTemplates(t *testing.T) *Templates {
	t.Helper()
	tpl, err := LoadTemplates(markdown.NewRenderer())
	require.NoError(t, err)
	return tpl
}

func TestTemplates_Render(t *testing.T) {
	tpl := loadTemplates(t)

	t.Run("certificate issued", func(t *testing.T) {
		out, err := tpl.Render(vo.KindCertificateIssued, map[string]string{
			"ticket_id":   "T-1",
			"brand":       "Hermes",
			"item_type":   "Birkin",
			"comment":     "Stitching is **even**.",
			"expert_name": "Alex",
			"check_date":  "May 4, 2026",
			"verify_url":  "https://bagcheck.example.com/verify/Tok3n",
		})
		require.NoError(t, err)
		assert.Equal(t, "Your bag is authentic, certificate ready (T-1)", out.Subject)
		assert.Contains(t, out.HTML, "<strong>even</strong>")
		assert.Contains(t, out.HTML, `href="https://bagcheck.example.com/verify/Tok3n"`)
		assert.Contains(t, out.Text, "Hermes")
		assert.Contains(t, out.Text, "https://bagcheck.example.com/verify/Tok3n")
		assert.NotContains(t, out.Text, "<no value>")
	})

	t.Run("photo request escapes the description", func(t *testing.T) {
		out, err := tpl.Render(vo.KindPhotoRequest, map[string]string{
			"ticket_id":   "T-2",
			"description": `<script>alert("x")</script> date code`,
			"upload_url":  "https://bagcheck.example.com/upload/additional/T-2",
		})
		require.NoError(t, err)
		assert.NotContains(t, out.HTML, "<script>")
		assert.Contains(t, out.HTML, "date code")
		assert.Contains(t, out.Text, "https://bagcheck.example.com/upload/additional/T-2")
	})

	t.Run("missing variables render empty", func(t *testing.T) {
		out, err := tpl.Render(vo.KindRejection, nil)
		require.NoError(t, err)
		assert.NotContains(t, out.HTML, "<no value>")
		assert.NotContains(t, out.Subject, "<no value>")
	})
}

func newTestMailer(t *testing.T, sender Sender, failures uint32) *SMTPMailer {
	t.Helper()
	return NewMailer(sender, config.EmailConfig{
		FromAddress:     "noreply@bagcheck.example.com",
		FromName:        "BagCheck",
		BreakerFailures: failures,
		BreakerTimeout:  60,
	}, loadTemplates(t), logger.NewNopLogger())
}

func TestSMTPMailer_Send(t *testing.T) {
	sender := &recordingSender{}
	mailer := newTestMailer(t, sender, 5)

	err := mailer.Send(context.Background(), usecases.Email{
		Kind: vo.KindCertificateIssued,
		To:   "client@example.com",
		Data: map[string]string{"ticket_id": "T-1", "comment": "Genuine"},
		Attachment: &usecases.Attachment{
			FileName:    "certificate-T-1.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.3 fake"),
		},
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	raw := sender.sent[0]
	assert.Contains(t, raw, "To: client@example.com")
	assert.Contains(t, raw, "BagCheck")
	assert.Contains(t, raw, "certificate-T-1.pdf")
	assert.Contains(t, raw, "application/pdf")
}

func TestSMTPMailer_BreakerOpens(t *testing.T) {
	sender := &recordingSender{Err: fmt.Errorf("dial tcp: connection refused")}
	mailer := newTestMailer(t, sender, 2)
	email := usecases.Email{Kind: vo.KindTest, To: "ops@example.com"}

	require.Error(t, mailer.Send(context.Background(), email))
	require.Error(t, mailer.Send(context.Background(), email))

	err := mailer.Send(context.Background(), email)
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, sender.calls)
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	sender := &recordingSender{}
	mailer := newTestMailer(t, sender, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mailer.Send(ctx, usecases.Email{Kind: vo.KindTest, To: "ops@example.com"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sender.calls)
}

func TestNewSMTPMailer_RequiresHost(t *testing.T) {
	_, err := NewSMTPMailer(config.EmailConfig{}, loadTemplates(t), logger.NewNopLogger())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNew_FallsBackToDisabledMailer(t *testing.T) {
	mailer, err := New(config.EmailConfig{}, markdown.NewRenderer(), logger.NewNopLogger())
	require.NoError(t, err)
	require.IsType(t, &DisabledMailer{}, mailer)

	err = mailer.Send(context.Background(), usecases.Email{To: "client@example.com", Kind: vo.KindTest})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNew_SMTPMailer(t *testing.T) {
	mailer, err := New(config.EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587}, markdown.NewRenderer(), logger.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, mailer)
}
