package http

import (
	"time"

	certificateUsecases "github.com/bagcheck-inc/bagcheck/internal/application/certificate/usecases"
	notificationUsecases "github.com/bagcheck-inc/bagcheck/internal/application/notification/usecases"
	ticketdto "github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	ticketUsecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
)

// allUseCases holds every use case exposed over HTTP.
type allUseCases struct {
	// Tickets
	submitTicket           *ticketUsecases.SubmitTicketUseCase
	getTicket              *ticketUsecases.GetTicketUseCase
	listTickets            *ticketUsecases.ListTicketsUseCase
	listClientTickets      *ticketUsecases.ListClientTicketsUseCase
	startReview            *ticketUsecases.StartReviewUseCase
	requestPhotos          *ticketUsecases.RequestPhotosUseCase
	uploadAdditionalPhotos *ticketUsecases.UploadAdditionalPhotosUseCase
	completeTicket         *ticketUsecases.CompleteTicketUseCase
	updateTicketStatus     *ticketUsecases.UpdateTicketStatusUseCase
	deleteTicket           *ticketUsecases.DeleteTicketUseCase

	// Certificates
	issuer                 *ticketUsecases.CertificateIssuer
	verifyCertificate      *certificateUsecases.VerifyCertificateUseCase
	getCertificateDocument *certificateUsecases.GetCertificateDocumentUseCase
	ensureCertificate      *certificateUsecases.EnsureCertificateUseCase

	// Notifications
	dispatcher    *notificationUsecases.Dispatcher
	sendTestEmail *notificationUsecases.SendTestEmailUseCase
}

func (c *Container) urlBuilder() ticketdto.URLBuilder {
	return ticketdto.URLBuilder{
		BaseURL:    c.cfg.Server.GetPublicBaseURL(),
		APIBaseURL: c.cfg.Server.GetAPIBaseURL(),
	}
}

func (c *Container) lifecycleSettings() ticketUsecases.LifecycleSettings {
	return ticketUsecases.LifecycleSettings{
		MaxFiles:                 c.cfg.Upload.MaxFiles,
		MaxFileBytes:             c.cfg.Upload.MaxFileBytes,
		UploadConcurrency:        c.cfg.Upload.MaxConcurrency,
		DefaultBrand:             c.cfg.Certificate.DefaultBrand,
		DefaultItemType:          c.cfg.Certificate.DefaultItemType,
		DefaultExpertName:        c.cfg.Certificate.DefaultExpertName,
		NotificationTimeout:      c.cfg.Notification.GetSendTimeout(),
		SubmissionIdempotencyTTL: time.Duration(c.cfg.Idempotency.SubmissionTTL) * time.Second,
		URLs:                     c.urlBuilder(),
	}
}

func (c *Container) initUseCases() {
	settings := c.lifecycleSettings()
	urls := settings.URLs
	ucs := &allUseCases{}
	c.ucs = ucs

	// Notifications first: every lifecycle transition reports through the dispatcher.
	ucs.dispatcher = notificationUsecases.NewDispatcher(
		c.repos.notificationRepo,
		c.svcs.mailer,
		c.metrics,
		notificationUsecases.DispatcherSettings{
			MaxAttempts:       c.cfg.Notification.MaxAttempts,
			DefaultBrand:      settings.DefaultBrand,
			DefaultItemType:   settings.DefaultItemType,
			DefaultExpertName: settings.DefaultExpertName,
			URLs:              urls,
		},
		c.log,
	)

	deps := ticketUsecases.LifecycleDeps{
		Repo:     c.repos.ticketRepo,
		Tx:       c.repos.txManager,
		Locker:   c.svcs.locker,
		Notifier: ucs.dispatcher,
		Observer: c.metrics,
		Logger:   c.log,
		Settings: settings,
	}

	ucs.issuer = ticketUsecases.NewCertificateIssuer(c.repos.ticketRepo, c.svcs.renderer, c.svcs.tokens, settings, c.log)

	// Tickets
	ucs.submitTicket = ticketUsecases.NewSubmitTicketUseCase(
		c.repos.ticketRepo, c.svcs.store, c.svcs.inspector, c.svcs.idempotency, settings, c.log,
	)
	ucs.getTicket = ticketUsecases.NewGetTicketUseCase(c.repos.ticketRepo, urls, c.log)
	ucs.listTickets = ticketUsecases.NewListTicketsUseCase(c.repos.ticketRepo, urls, c.log)
	ucs.listClientTickets = ticketUsecases.NewListClientTicketsUseCase(c.repos.ticketRepo, urls, c.log)
	ucs.startReview = ticketUsecases.NewStartReviewUseCase(deps)
	ucs.requestPhotos = ticketUsecases.NewRequestPhotosUseCase(deps)
	ucs.uploadAdditionalPhotos = ticketUsecases.NewUploadAdditionalPhotosUseCase(deps, c.svcs.store, c.svcs.inspector)
	ucs.completeTicket = ticketUsecases.NewCompleteTicketUseCase(deps, ucs.issuer)
	ucs.updateTicketStatus = ticketUsecases.NewUpdateTicketStatusUseCase(
		ucs.startReview, ucs.requestPhotos, ucs.completeTicket, ucs.getTicket,
	)
	ucs.deleteTicket = ticketUsecases.NewDeleteTicketUseCase(deps, c.svcs.store)

	// Certificates
	ucs.verifyCertificate = certificateUsecases.NewVerifyCertificateUseCase(
		c.repos.ticketRepo,
		c.svcs.comments,
		certificateUsecases.Defaults{
			Brand:      settings.DefaultBrand,
			ItemType:   settings.DefaultItemType,
			ExpertName: settings.DefaultExpertName,
		},
		urls,
		c.log,
	)
	ucs.getCertificateDocument = certificateUsecases.NewGetCertificateDocumentUseCase(c.repos.ticketRepo, ucs.issuer, c.log)
	ucs.ensureCertificate = certificateUsecases.NewEnsureCertificateUseCase(
		c.repos.ticketRepo, c.repos.txManager, c.svcs.locker, ucs.issuer, c.log,
	)

	// Notifications
	ucs.sendTestEmail = notificationUsecases.NewSendTestEmailUseCase(
		c.svcs.mailer,
		c.svcs.idempotency,
		time.Duration(c.cfg.Idempotency.TestEmailTTL)*time.Second,
		c.log,
	)
}
