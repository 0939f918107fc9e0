package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultLimit = 10
	MaxLimit     = 100

	HeaderContentType    = "Content-Type"
	HeaderXRequestID     = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"

	ContentTypeJSON = "application/json"
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html; charset=utf-8"

	ContextKeyRequestID = "request_id"

	TableTickets       = "tickets"
	TableTicketImages  = "ticket_images"
	TablePhotoRequests = "photo_requests"
	TableCertificates  = "certificates"
	TableNotifications = "notifications"

	// MaxPhotoRequestDescription is counted in characters, not bytes.
	MaxPhotoRequestDescription = 500
	MaxCommentLength           = 5000
)
