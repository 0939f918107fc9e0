package email

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sony/gobreaker/v2"
	"gopkg.in/gomail.v2"

	"github.com/bagcheck-inc/bagcheck/internal/application/notification/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/config"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

// ErrNotConfigured is returned when no SMTP host is set.
var ErrNotConfigured = errors.New("email delivery is not configured")

// Sender delivers a composed message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer renders notification templates and sends them through SMTP.
// Sends run behind a circuit breaker so a dead relay fails fast.
type SMTPMailer struct {
	sender    Sender
	templates *Templates
	from      string
	fromName  string
	breaker   *gobreaker.CircuitBreaker[struct{}]
	logger    logger.Interface
}

// NewSMTPMailer builds a gomail dialer from cfg.
func NewSMTPMailer(cfg config.EmailConfig, templates *Templates, log logger.Interface) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" {
		return nil, ErrNotConfigured
	}
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return NewMailer(dialer, cfg, templates, log), nil
}

// NewMailer wires an arbitrary Sender, mainly for tests.
func NewMailer(sender Sender, cfg config.EmailConfig, templates *Templates, log logger.Interface) *SMTPMailer {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	timeout := time.Duration(cfg.BreakerTimeout) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}

	log = log.Named("email.smtp")
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("smtp circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})

	return &SMTPMailer{
		sender:    sender,
		templates: templates,
		from:      cfg.FromAddress,
		fromName:  cfg.FromName,
		breaker:   breaker,
		logger:    log,
	}
}

var _ usecases.Mailer = (*SMTPMailer)(nil)

// Send renders email and delivers it. A cancelled ctx abandons the wait, not the SMTP session.
func (s *SMTPMailer) Send(ctx context.Context, email usecases.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.compose(email)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, s.sender.DialAndSend(msg)
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return fmt.Errorf("smtp unavailable: %w", err)
			}
			return fmt.Errorf("failed to send email: %w", err)
		}
		s.logger.Debugw("email sent", "kind", email.Kind, "attachment", email.Attachment != nil)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email send interrupted: %w", ctx.Err())
	}
}

func (s *SMTPMailer) compose(email usecases.Email) (*gomail.Message, error) {
	rendered, err := s.templates.Render(email.Kind, email.Data)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	if s.fromName != "" {
		m.SetAddressHeader("From", s.from, s.fromName)
	} else {
		m.SetHeader("From", s.from)
	}
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", rendered.Subject)
	m.SetBody("text/plain", rendered.Text)
	m.AddAlternative("text/html", rendered.HTML)

	if a := email.Attachment; a != nil {
		content := a.Content
		m.Attach(a.FileName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m, nil
}

// DisabledMailer rejects every send; used when no SMTP host is configured.
type DisabledMailer struct {
	logger logger.Interface
}

func NewDisabledMailer(log logger.Interface) *DisabledMailer {
	return &DisabledMailer{logger: log}
}

func (d *DisabledMailer) Send(_ context.Context, email usecases.Email) error {
	d.logger.Warnw("email not sent, smtp is not configured", "kind", email.Kind)
	return ErrNotConfigured
}

// New loads the embedded templates and returns an SMTPMailer, or a
// DisabledMailer when cfg has no SMTP host.
func New(cfg config.EmailConfig, comments CommentFormatter, log logger.Interface) (usecases.Mailer, error) {
	templates, err := LoadTemplates(comments)
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	mailer, err := NewSMTPMailer(cfg, templates, log)
	if errors.Is(err, ErrNotConfigured) {
		log.Warnw("smtp host not set, email delivery disabled")
		return NewDisabledMailer(log), nil
	}
	if err != nil {
		return nil, err
	}
	return mailer, nil
}
