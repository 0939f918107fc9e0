package routes

import (
	"github.com/gin-gonic/gin"

	notificationhandlers "github.com/bagcheck-inc/bagcheck/internal/interfaces/http/handlers/notification"
	"github.com/bagcheck-inc/bagcheck/internal/interfaces/http/middleware"
)

type NotificationRouteConfig struct {
	NotificationHandler *notificationhandlers.NotificationHandler
	RateLimiter         *middleware.RateLimiter
	DefaultPerMin       int
}

func SetupNotificationRoutes(engine *gin.Engine, config *NotificationRouteConfig) {
	notifications := engine.Group("/notifications")
	{
		notifications.POST("/test",
			config.RateLimiter.Limit("test-email", config.DefaultPerMin),
			config.NotificationHandler.SendTestEmail)
	}
}
