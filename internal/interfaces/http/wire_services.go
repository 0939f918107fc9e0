package http

import (
	"context"
	"fmt"

	notificationUsecases "github.com/bagcheck-inc/bagcheck/internal/application/notification/usecases"
	ticketUsecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/cache"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/certificate"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/email"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/imagecheck"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/lock"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/metrics"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/ratelimit"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/storage"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/token"
	"github.com/bagcheck-inc/bagcheck/internal/shared/markdown"
)

// services holds the adapters behind the application ports.
type services struct {
	// rawStore is the uninstrumented store, kept for static serving and Close.
	rawStore    ticketUsecases.ImageStore
	store       ticketUsecases.ImageStore
	inspector   ticketUsecases.ImageInspector
	comments    *markdown.Renderer
	mailer      notificationUsecases.Mailer
	renderer    ticketUsecases.CertificateRenderer
	tokens      ticketUsecases.TokenGenerator
	locker      ticketUsecases.TicketLocker
	idempotency ticketUsecases.IdempotencyStore
	limiter     ratelimit.RateLimiter
}

func (c *Container) initServices(ctx context.Context) error {
	svcs := &services{
		inspector:   imagecheck.NewInspector(c.cfg.Upload.MaxPixels),
		comments:    markdown.NewRenderer(),
		tokens:      token.NewTokenGenerator(c.cfg.Certificate.TokenLength),
		locker:      lock.NewRedisTicketLocker(c.redis, c.cfg.Lock, c.log),
		idempotency: cache.NewRedisIdempotencyStore(c.redis),
	}
	c.svcs = svcs

	rawStore, err := storage.New(ctx, c.cfg.Storage, c.log)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}
	svcs.rawStore = rawStore
	svcs.store = metrics.InstrumentImageStore(rawStore, c.metrics)

	mailer, err := email.New(c.cfg.Email, svcs.comments, c.log)
	if err != nil {
		return err
	}
	svcs.mailer = mailer

	urls := c.urlBuilder()
	renderer, err := certificate.New(c.cfg.Certificate, urls.VerifyURL, svcs.comments)
	if err != nil {
		return fmt.Errorf("failed to initialize certificate renderer: %w", err)
	}
	svcs.renderer = metrics.InstrumentRenderer(renderer, c.metrics)

	if c.cfg.RateLimit.Enabled {
		svcs.limiter = ratelimit.NewRedisRateLimiter(c.redis)
	}

	c.log.Infow("services initialized",
		"storage_driver", c.cfg.Storage.Driver,
		"certificate_format", c.cfg.Certificate.Format,
		"rate_limit_enabled", c.cfg.RateLimit.Enabled,
	)
	return nil
}
