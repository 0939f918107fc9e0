package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/bagcheck-inc/bagcheck/internal/interfaces/http/handlers/ticket"
	"github.com/bagcheck-inc/bagcheck/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler *tickethandlers.TicketHandler
	RateLimiter   *middleware.RateLimiter
	SubmitPerMin  int
	DefaultPerMin int
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	tickets := engine.Group("/tickets")
	{
		// Collection operations (no ID parameter)
		tickets.POST("",
			config.RateLimiter.Limit("submit", config.SubmitPerMin),
			config.TicketHandler.SubmitTicket)
		tickets.GET("", config.TicketHandler.ListTickets)

		// Specific action endpoints
		tickets.POST("/:id/photo-request", config.TicketHandler.RequestPhotos)
		tickets.POST("/:id/additional-photos",
			config.RateLimiter.Limit("upload", config.SubmitPerMin),
			config.TicketHandler.UploadAdditionalPhotos)
		tickets.POST("/:id/complete", config.TicketHandler.CompleteTicket)

		// Generic parameterized routes
		tickets.GET("/:id", config.TicketHandler.GetTicket)
		tickets.PATCH("/:id", config.TicketHandler.UpdateTicketStatus)
		tickets.DELETE("/:id", config.TicketHandler.DeleteTicket)
	}

	client := engine.Group("/client")
	{
		client.GET("/tickets",
			config.RateLimiter.Limit("client", config.DefaultPerMin),
			config.TicketHandler.ListClientTickets)
	}
}
