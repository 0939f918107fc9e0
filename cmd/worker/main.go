package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	notificationUsecases "github.com/bagcheck-inc/bagcheck/internal/application/notification/usecases"
	ticketdto "github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	ticketUsecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/certificate"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/config"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/database"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/email"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/repository"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/token"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/markdown"
)

var (
	env      string
	interval time.Duration
	once     bool
)

func main() {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Retry failed notification emails",
		Long:  `Periodically resend notification emails that failed on the first attempt.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Time between retry passes (default: notification.retry_interval)")
	cmd.Flags().BoolVar(&once, "once", false, "Run a single retry pass and exit")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger().Named("worker")

	if interval <= 0 {
		interval = time.Duration(cfg.Notification.RetryInterval) * time.Second
	}
	if interval <= 0 {
		interval = time.Minute
	}
	log.Infow("starting notification retry worker", "environment", env, "interval", interval.String(), "once", once)

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	retry, err := newRetryUseCase(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if once {
		return runPass(ctx, retry, cfg.Notification.RetryBatch, log)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run the first pass immediately
	if err := runPass(ctx, retry, cfg.Notification.RetryBatch, log); err != nil {
		log.Errorw("initial retry pass failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := runPass(ctx, retry, cfg.Notification.RetryBatch, log); err != nil {
				log.Errorw("retry pass failed", "error", err)
			}
		case <-ctx.Done():
			log.Infow("notification retry worker stopped")
			return nil
		}
	}
}

func runPass(ctx context.Context, retry notificationUsecases.RetryNotificationsExecutor, batch int, log logger.Interface) error {
	result, err := retry.Execute(ctx, notificationUsecases.RetryNotificationsCommand{BatchSize: batch})
	if err != nil {
		return err
	}
	if result.Attempted > 0 {
		log.Infow("retry pass completed",
			"attempted", result.Attempted,
			"sent", result.Sent,
			"failed", result.Failed,
			"abandoned", result.Abandoned)
	}
	return nil
}

// newRetryUseCase wires the outbox retry path. It needs no Redis: retries
// never change ticket state.
func newRetryUseCase(cfg *config.Config, log logger.Interface) (*notificationUsecases.RetryNotificationsUseCase, error) {
	db := database.Get()
	ticketRepo := repository.NewTicketRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	comments := markdown.NewRenderer()

	urls := ticketdto.URLBuilder{
		BaseURL:    cfg.Server.GetPublicBaseURL(),
		APIBaseURL: cfg.Server.GetAPIBaseURL(),
	}

	mailer, err := email.New(cfg.Email, comments, log)
	if err != nil {
		return nil, err
	}

	renderer, err := certificate.New(cfg.Certificate, urls.VerifyURL, comments)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize certificate renderer: %w", err)
	}

	issuer := ticketUsecases.NewCertificateIssuer(
		ticketRepo,
		renderer,
		token.NewTokenGenerator(cfg.Certificate.TokenLength),
		ticketUsecases.LifecycleSettings{
			DefaultBrand:      cfg.Certificate.DefaultBrand,
			DefaultItemType:   cfg.Certificate.DefaultItemType,
			DefaultExpertName: cfg.Certificate.DefaultExpertName,
			URLs:              urls,
		},
		log,
	)

	return notificationUsecases.NewRetryNotificationsUseCase(
		notificationRepo,
		ticketRepo,
		issuer,
		mailer,
		nil,
		cfg.Notification.MaxAttempts,
		log,
	), nil
}
