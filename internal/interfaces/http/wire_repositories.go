package http

import (
	"gorm.io/gorm"

	"github.com/bagcheck-inc/bagcheck/internal/domain/notification"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/repository"
	"github.com/bagcheck-inc/bagcheck/internal/shared/db"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	ticketRepo       ticket.Repository
	notificationRepo notification.Repository
	txManager        *db.TransactionManager
}

func newRepositories(gormDB *gorm.DB) *repositories {
	return &repositories{
		ticketRepo:       repository.NewTicketRepository(gormDB),
		notificationRepo: repository.NewNotificationRepository(gormDB),
		txManager:        db.NewTransactionManager(gormDB),
	}
}
