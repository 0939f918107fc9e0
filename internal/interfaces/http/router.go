package http

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/storage"
	"github.com/bagcheck-inc/bagcheck/internal/interfaces/http/middleware"
	"github.com/bagcheck-inc/bagcheck/internal/interfaces/http/routes"

	_ "github.com/bagcheck-inc/bagcheck/docs"
)

const defaultUploadsPath = "/uploads"

// SetupRoutes configures middlewares and all HTTP routes.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.Metrics(c.metrics))

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	c.engine.GET("/version", c.hdlrs.healthHandler.Version)
	c.engine.GET("/metrics", gin.WrapH(c.metrics.Handler()))
	c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	c.setupUploadRoutes()

	routes.SetupTicketRoutes(c.engine, &routes.TicketRouteConfig{
		TicketHandler: c.hdlrs.ticketHandler,
		RateLimiter:   c.rateLimiter,
		SubmitPerMin:  c.cfg.RateLimit.SubmitPerMin,
		DefaultPerMin: c.cfg.RateLimit.DefaultPerMin,
	})

	routes.SetupCertificateRoutes(c.engine, &routes.CertificateRouteConfig{
		CertificateHandler: c.hdlrs.certificateHandler,
		RateLimiter:        c.rateLimiter,
		VerifyPerMin:       c.cfg.RateLimit.VerifyPerMin,
	})

	routes.SetupNotificationRoutes(c.engine, &routes.NotificationRouteConfig{
		NotificationHandler: c.hdlrs.notificationHandler,
		RateLimiter:         c.rateLimiter,
		DefaultPerMin:       c.cfg.RateLimit.DefaultPerMin,
	})
}

// setupUploadRoutes serves locally stored images. Object storage serves its own.
func (c *Container) setupUploadRoutes() {
	local, ok := c.svcs.rawStore.(*storage.LocalStore)
	if !ok {
		return
	}
	path := uploadsPath(local.URLPrefix())
	c.engine.Static(path, local.Root())
	c.log.Infow("serving local uploads", "path", path, "dir", local.Root())
}

// uploadsPath extracts the route path from a path or absolute URL prefix.
func uploadsPath(prefix string) string {
	u, err := url.Parse(prefix)
	if err != nil {
		return defaultUploadsPath
	}
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		return defaultUploadsPath
	}
	return path
}
