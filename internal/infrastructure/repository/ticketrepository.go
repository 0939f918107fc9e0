package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/persistence/mappers"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/persistence/models"
	db "github.com/bagcheck-inc/bagcheck/internal/shared/db"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

var _ ticket.Repository = (*TicketRepository)(nil)

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	return tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}
		if len(model.Images) > 0 {
			if err := tx.Create(&model.Images).Error; err != nil {
				return fmt.Errorf("failed to create ticket images: %w", err)
			}
		}
		if len(model.PhotoRequests) > 0 {
			if err := tx.Create(&model.PhotoRequests).Error; err != nil {
				return fmt.Errorf("failed to create photo requests: %w", err)
			}
		}
		return nil
	})
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID string) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := preloadChildren(tx).
		Where("id = ?", ticketID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := applyFilter(tx.Model(&models.TicketModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	query = preloadChildren(query).Order("created_at DESC").Order("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var ticketModels []models.TicketModel
	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]*ticket.Ticket, 0, len(ticketModels))
	for i := range ticketModels {
		t, err := r.mapper.ToDomain(&ticketModels[i])
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}

	return tickets, total, nil
}

func (r *TicketRepository) CountByStatus(ctx context.Context, filter ticket.Filter) (ticket.StatusCounts, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	tx := db.GetTxFromContext(ctx, r.db)
	err := applyFilter(tx.Model(&models.TicketModel{}), filter).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return ticket.StatusCounts{}, fmt.Errorf("failed to count tickets by status: %w", err)
	}

	var counts ticket.StatusCounts
	for _, row := range rows {
		counts.Add(vo.TicketStatus(row.Status), row.Count)
	}
	return counts, nil
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, t *ticket.Ticket, expected vo.TicketStatus) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ? AND status = ?", model.ID, expected.String()).
		Updates(map[string]interface{}{
			"status":      model.Status,
			"result":      model.Result,
			"comment":     model.Comment,
			"expert_name": model.ExpertName,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket status: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.TicketModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check ticket: %w", err)
	}
	if count == 0 {
		return ticket.ErrTicketNotFound
	}
	return ticket.ErrStatusConflict
}

func (r *TicketRepository) AppendImages(ctx context.Context, ticketID string, images []*ticket.Image) error {
	if len(images) == 0 {
		return nil
	}

	imageModels := make([]models.TicketImageModel, 0, len(images))
	for _, img := range images {
		m := r.mapper.ImageToModel(img)
		m.TicketID = ticketID
		imageModels = append(imageModels, m)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(&imageModels).Error; err != nil {
		return fmt.Errorf("failed to append images: %w", err)
	}
	return nil
}

func (r *TicketRepository) CreatePhotoRequest(ctx context.Context, pr *ticket.PhotoRequest) error {
	model := r.mapper.PhotoRequestToModel(pr)
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(&model).Error; err != nil {
		return fmt.Errorf("failed to create photo request: %w", err)
	}
	return nil
}

func (r *TicketRepository) FulfillOldestPendingPhotoRequest(ctx context.Context, ticketID string, at time.Time) (*ticket.PhotoRequest, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.PhotoRequestModel
	err := tx.
		Where("ticket_id = ? AND status = ?", ticketID, vo.PhotoRequestPending.String()).
		Order("created_at ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrNoPendingRequest
		}
		return nil, fmt.Errorf("failed to find pending photo request: %w", err)
	}

	result := tx.Model(&models.PhotoRequestModel{}).
		Where("id = ? AND status = ?", model.ID, vo.PhotoRequestPending.String()).
		Updates(map[string]interface{}{
			"status":       vo.PhotoRequestFulfilled.String(),
			"fulfilled_at": at,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fulfill photo request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ticket.ErrNoPendingRequest
	}

	model.Status = vo.PhotoRequestFulfilled.String()
	model.FulfilledAt = &at
	return r.mapper.PhotoRequestToDomain(&model)
}

func (r *TicketRepository) CreateCertificateIfAbsent(ctx context.Context, c *ticket.Certificate) (*ticket.Certificate, bool, error) {
	model := r.mapper.CertificateToModel(c)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticket_id"}},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to create certificate: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return c, true, nil
	}

	var stored models.CertificateModel
	if err := tx.Where("ticket_id = ?", c.TicketID()).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("certificate token %s already in use", c.QRCode())
		}
		return nil, false, fmt.Errorf("failed to load certificate: %w", err)
	}
	return r.mapper.CertificateToDomain(&stored), false, nil
}

func (r *TicketRepository) GetCertificateByToken(ctx context.Context, token string) (*ticket.Certificate, error) {
	var model models.CertificateModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("qr_code = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to find certificate: %w", err)
	}
	return r.mapper.CertificateToDomain(&model), nil
}

func (r *TicketRepository) Delete(ctx context.Context, ticketID string) error {
	tx := db.GetTxFromContext(ctx, r.db)

	return tx.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.TicketImageModel{},
			&models.PhotoRequestModel{},
			&models.CertificateModel{},
			&models.NotificationModel{},
		} {
			if err := tx.Where("ticket_id = ?", ticketID).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete ticket children: %w", err)
			}
		}

		result := tx.Where("id = ?", ticketID).Delete(&models.TicketModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete ticket: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ticket.ErrTicketNotFound
		}
		return nil
	})
}

func preloadChildren(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC").Order("id ASC")
		}).
		Preload("PhotoRequests", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Certificate")
}

func applyFilter(query *gorm.DB, filter ticket.Filter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.ClientEmail != "" {
		query = query.Where("client_email = ?", filter.ClientEmail)
	}
	return query
}
