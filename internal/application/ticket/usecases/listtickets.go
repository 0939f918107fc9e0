package usecases

import (
	"context"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

type ListTicketsQuery struct {
	Status      string `json:"status" validate:"omitempty,oneof=PENDING IN_REVIEW NEEDS_MORE_PHOTOS COMPLETED"`
	ClientEmail string `json:"client_email"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
}

type ListTicketsResult struct {
	Tickets []*dto.TicketDTO
	// Total is the number of tickets matching the filter.
	Total  int64
	Limit  int
	Offset int
	// Counts ignores the status filter so the dashboard can show every bucket.
	Counts dto.StatusCountsDTO
}

type ListTicketsUseCase struct {
	repo   ticket.Repository
	urls   dto.URLBuilder
	logger logger.Interface
}

func NewListTicketsUseCase(repo ticket.Repository, urls dto.URLBuilder, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		repo:   repo,
		urls:   urls,
		logger: logger,
	}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	if err := utils.ValidateStruct(query); err != nil {
		return nil, err
	}
	if query.ClientEmail != "" && !utils.IsValidClientEmail(query.ClientEmail) {
		return nil, errors.NewValidationError("client_email must be a valid email address")
	}

	p := utils.ValidatePagination(query.Limit, query.Offset)
	filter := ticket.Filter{
		ClientEmail: utils.NormalizeEmail(query.ClientEmail),
		Limit:       p.Limit,
		Offset:      p.Offset,
	}
	if query.Status != "" {
		status := vo.TicketStatus(query.Status)
		filter.Status = &status
	}

	tickets, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, mapError(err, "list tickets")
	}

	countFilter := filter
	countFilter.Status = nil
	counts, err := uc.repo.CountByStatus(ctx, countFilter)
	if err != nil {
		uc.logger.Errorw("failed to count tickets", "error", err)
		return nil, mapError(err, "count tickets")
	}

	return &ListTicketsResult{
		Tickets: dto.ToTicketDTOs(tickets, uc.urls),
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		Counts:  dto.ToStatusCountsDTO(counts),
	}, nil
}

// ListClientTicketsQuery looks up every ticket submitted from one email address.
type ListClientTicketsQuery struct {
	Email string `json:"email" validate:"required,client_email"`
}

type ListClientTicketsResult struct {
	Tickets []*dto.TicketDTO
	Stats   dto.StatusCountsDTO
}

type ListClientTicketsUseCase struct {
	repo   ticket.Repository
	urls   dto.URLBuilder
	logger logger.Interface
}

func NewListClientTicketsUseCase(repo ticket.Repository, urls dto.URLBuilder, logger logger.Interface) *ListClientTicketsUseCase {
	return &ListClientTicketsUseCase{
		repo:   repo,
		urls:   urls,
		logger: logger,
	}
}

func (uc *ListClientTicketsUseCase) Execute(ctx context.Context, query ListClientTicketsQuery) (*ListClientTicketsResult, error) {
	if err := utils.ValidateStruct(query); err != nil {
		return nil, err
	}

	filter := ticket.Filter{
		ClientEmail: utils.NormalizeEmail(query.Email),
		Limit:       constants.MaxLimit,
	}
	tickets, _, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list client tickets", "client_email", utils.MaskEmail(query.Email), "error", err)
		return nil, mapError(err, "list client tickets")
	}
	counts, err := uc.repo.CountByStatus(ctx, ticket.Filter{ClientEmail: filter.ClientEmail})
	if err != nil {
		uc.logger.Errorw("failed to count client tickets", "client_email", utils.MaskEmail(query.Email), "error", err)
		return nil, mapError(err, "count client tickets")
	}

	return &ListClientTicketsResult{
		Tickets: dto.ToTicketDTOs(tickets, uc.urls),
		Stats:   dto.ToStatusCountsDTO(counts),
	}, nil
}
