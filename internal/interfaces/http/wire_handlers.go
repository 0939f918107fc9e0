package http

import (
	"context"

	"github.com/bagcheck-inc/bagcheck/internal/interfaces/http/handlers"
	certificateHandlers "github.com/bagcheck-inc/bagcheck/internal/interfaces/http/handlers/certificate"
	notificationHandlers "github.com/bagcheck-inc/bagcheck/internal/interfaces/http/handlers/notification"
	ticketHandlers "github.com/bagcheck-inc/bagcheck/internal/interfaces/http/handlers/ticket"
	"github.com/bagcheck-inc/bagcheck/internal/interfaces/http/middleware"
)

// allHandlers holds every HTTP handler.
type allHandlers struct {
	healthHandler       *handlers.HealthHandler
	ticketHandler       *ticketHandlers.TicketHandler
	certificateHandler  *certificateHandlers.CertificateHandler
	notificationHandler *notificationHandlers.NotificationHandler
}

func (c *Container) initHandlers() {
	ucs := c.ucs

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": handlers.PingFunc(c.pingDatabase),
			"redis": handlers.PingFunc(func(ctx context.Context) error {
				return c.redis.Ping(ctx).Err()
			}),
		}, c.log),
		ticketHandler: ticketHandlers.NewTicketHandler(
			ticketHandlers.Executors{
				Submit:            ucs.submitTicket,
				Get:               ucs.getTicket,
				List:              ucs.listTickets,
				ListClientTickets: ucs.listClientTickets,
				UpdateStatus:      ucs.updateTicketStatus,
				RequestPhotos:     ucs.requestPhotos,
				UploadPhotos:      ucs.uploadAdditionalPhotos,
				Complete:          ucs.completeTicket,
				Delete:            ucs.deleteTicket,
			},
			ticketHandlers.UploadLimits{
				MaxFiles:     c.cfg.Upload.MaxFiles,
				MaxFileBytes: c.cfg.Upload.MaxFileBytes,
			},
			c.log,
		),
		certificateHandler: certificateHandlers.NewCertificateHandler(
			ucs.verifyCertificate,
			ucs.getCertificateDocument,
			ucs.ensureCertificate,
			c.log,
		),
		notificationHandler: notificationHandlers.NewNotificationHandler(ucs.sendTestEmail, c.log),
	}

	// A nil limiter disables the per-route checks.
	if c.svcs.limiter != nil {
		c.rateLimiter = middleware.NewRateLimiter(c.svcs.limiter, c.log)
	}
}

func (c *Container) pingDatabase(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
