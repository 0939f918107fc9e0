package usecases

import "context"

type SendTestEmailExecutor interface {
	Execute(ctx context.Context, cmd SendTestEmailCommand) (*SendTestEmailResult, error)
}

type RetryNotificationsExecutor interface {
	Execute(ctx context.Context, cmd RetryNotificationsCommand) (*RetryNotificationsResult, error)
}
