package usecases

import (
	"context"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
)

type SubmitTicketExecutor interface {
	Execute(ctx context.Context, cmd SubmitTicketCommand) (*SubmitTicketResult, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error)
}

type ListClientTicketsExecutor interface {
	Execute(ctx context.Context, query ListClientTicketsQuery) (*ListClientTicketsResult, error)
}

type StartReviewExecutor interface {
	Execute(ctx context.Context, cmd StartReviewCommand) (*StartReviewResult, error)
}

type RequestPhotosExecutor interface {
	Execute(ctx context.Context, cmd RequestPhotosCommand) (*RequestPhotosResult, error)
}

type UploadAdditionalPhotosExecutor interface {
	Execute(ctx context.Context, cmd UploadAdditionalPhotosCommand) (*UploadAdditionalPhotosResult, error)
}

type CompleteTicketExecutor interface {
	Execute(ctx context.Context, cmd CompleteTicketCommand) (*CompleteTicketResult, error)
}

type UpdateTicketStatusExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketStatusCommand) (*UpdateTicketStatusResult, error)
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd DeleteTicketCommand) (*DeleteTicketResult, error)
}
