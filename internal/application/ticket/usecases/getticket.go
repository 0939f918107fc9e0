package usecases

import (
	"context"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

type GetTicketQuery struct {
	TicketID string
}

type GetTicketUseCase struct {
	repo   ticket.Repository
	urls   dto.URLBuilder
	logger logger.Interface
}

func NewGetTicketUseCase(repo ticket.Repository, urls dto.URLBuilder, logger logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{
		repo:   repo,
		urls:   urls,
		logger: logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	t, err := uc.repo.GetByID(ctx, query.TicketID)
	if err != nil {
		if !ticket.IsNotFound(err) {
			uc.logger.Errorw("failed to get ticket", "ticket_id", query.TicketID, "error", err)
		}
		return nil, mapError(err, "get ticket")
	}
	return dto.ToTicketDTO(t, uc.urls), nil
}
