package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bagcheck-inc/bagcheck/internal/domain/notification"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/persistence/mappers"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/persistence/models"
	db "github.com/bagcheck-inc/bagcheck/internal/shared/db"
)

type NotificationRepository struct {
	db     *gorm.DB
	mapper mappers.NotificationMapper
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		mapper: mappers.NewNotificationMapper(),
	}
}

var _ notification.Repository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	model, err := r.mapper.ToModel(n)
	if err != nil {
		return fmt.Errorf("failed to map notification entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	model, err := r.mapper.ToModel(n)
	if err != nil {
		return fmt.Errorf("failed to map notification entity to model: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"attempts":   model.Attempts,
			"last_error": model.LastError,
			"updated_at": model.UpdatedAt,
			"sent_at":    model.SentAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, notificationID string) (*notification.Notification, error) {
	var model models.NotificationModel

	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", notificationID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification by ID: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *NotificationRepository) ListRetryable(ctx context.Context, limit int) ([]*notification.Notification, error) {
	var rows []models.NotificationModel

	query := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", vo.DeliveryFailed.String()).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list retryable notifications: %w", err)
	}

	result := make([]*notification.Notification, 0, len(rows))
	for i := range rows {
		entity, err := r.mapper.ToEntity(&rows[i])
		if err != nil {
			return nil, fmt.Errorf("failed to map notification model to entity: %w", err)
		}
		result = append(result, entity)
	}
	return result, nil
}
