package usecases

import (
	"context"
	"io"
	"time"

	nvo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
)

// StoredObject identifies an uploaded image.
type StoredObject struct {
	URL string
	Key string
}

// ImageStore uploads and deletes binary image content.
type ImageStore interface {
	Upload(ctx context.Context, ticketID, fileName, contentType string, r io.Reader, size int64) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// ImageInspector sniffs and decodes an uploaded file, returning its MIME type
// or an error when the content is not a supported image.
type ImageInspector interface {
	Inspect(data []byte) (contentType string, err error)
}

// CertificateData is everything printed on a certificate.
type CertificateData struct {
	TicketID    string
	Verdict     vo.Verdict
	Comment     string
	ClientEmail string
	Brand       string
	ItemType    string
	CheckDate   time.Time
	ExpertName  string
	QRToken     string
}

// CertificateDocument is a rendered certificate.
type CertificateDocument struct {
	Content     []byte
	ContentType string
	FileName    string
	// Token is the QR token the document was rendered with.
	Token string
}

// CertificateRenderer produces the certificate document with an embedded verification QR code.
type CertificateRenderer interface {
	Render(ctx context.Context, data CertificateData) (*CertificateDocument, error)
}

// TokenGenerator issues public verification tokens.
type TokenGenerator interface {
	Generate() (string, error)
}

// TicketLocker serializes lifecycle operations on one ticket across processes.
type TicketLocker interface {
	Lock(ctx context.Context, ticketID string) (unlock func(), err error)
}

// TransactionRunner runs fn in one database transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IdempotencyStore remembers request fingerprints for a bounded time.
type IdempotencyStore interface {
	// Reserve claims key. When the key is already held, reserved is false and
	// value is what Complete stored, or empty while the first request is in flight.
	Reserve(ctx context.Context, key string, ttl time.Duration) (value string, reserved bool, err error)
	Complete(ctx context.Context, key, value string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// TransitionObserver records completed lifecycle transitions, typically as metrics.
type TransitionObserver interface {
	ObserveTransition(from, to vo.TicketStatus)
}

// LifecycleNotification is one email triggered by a transition.
type LifecycleNotification struct {
	Kind         nvo.NotificationKind
	Ticket       *ticket.Ticket
	PhotoRequest *ticket.PhotoRequest
	Document     *CertificateDocument
}

// NotificationDispatcher delivers lifecycle emails. Errors are reported, never retried inline.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n LifecycleNotification) error
}
