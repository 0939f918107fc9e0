package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/bagcheck-inc/bagcheck/internal/domain/notification"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/persistence/models"
)

type NotificationMapper interface {
	ToModel(n *notification.Notification) (*models.NotificationModel, error)
	ToEntity(model *models.NotificationModel) (*notification.Notification, error)
}

type NotificationMapperImpl struct{}

func NewNotificationMapper() NotificationMapper {
	return &NotificationMapperImpl{}
}

func (m *NotificationMapperImpl) ToModel(n *notification.Notification) (*models.NotificationModel, error) {
	payload, err := json.Marshal(n.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	model := &models.NotificationModel{
		ID:        n.ID(),
		Kind:      n.Kind().String(),
		Recipient: n.Recipient(),
		Payload:   datatypes.JSON(payload),
		Status:    n.Status().String(),
		Attempts:  n.Attempts(),
		LastError: n.LastError(),
		CreatedAt: n.CreatedAt(),
		UpdatedAt: n.UpdatedAt(),
		SentAt:    n.SentAt(),
	}
	if n.TicketID() != "" {
		ticketID := n.TicketID()
		model.TicketID = &ticketID
	}
	return model, nil
}

func (m *NotificationMapperImpl) ToEntity(model *models.NotificationModel) (*notification.Notification, error) {
	if model == nil {
		return nil, fmt.Errorf("notification model is nil")
	}

	var payload map[string]string
	if len(model.Payload) > 0 {
		if err := json.Unmarshal(model.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification payload: %w", err)
		}
	}

	var ticketID string
	if model.TicketID != nil {
		ticketID = *model.TicketID
	}

	return notification.ReconstructNotification(
		model.ID,
		vo.NotificationKind(model.Kind),
		ticketID,
		model.Recipient,
		payload,
		vo.DeliveryStatus(model.Status),
		model.Attempts,
		model.LastError,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
		utcPtr(model.SentAt),
	)
}
