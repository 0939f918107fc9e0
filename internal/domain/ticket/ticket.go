package ticket

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
	"github.com/bagcheck-inc/bagcheck/internal/shared/id"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

// Ticket is one authenticity review. All lifecycle transitions go through its methods.
type Ticket struct {
	id            string
	clientEmail   string
	brand         string
	itemType      string
	status        vo.TicketStatus
	result        *vo.Verdict
	comment       string
	expertName    string
	version       int
	createdAt     time.Time
	updatedAt     time.Time
	images        []*Image
	photoRequests []*PhotoRequest
	certificate   *Certificate
}

// NewTicket creates a PENDING ticket without images; AttachInitialImages completes it.
func NewTicket(clientEmail, brand, itemType string) (*Ticket, error) {
	clientEmail = utils.NormalizeEmail(clientEmail)
	if !utils.IsValidClientEmail(clientEmail) {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(brand) > 100 || utf8.RuneCountInString(itemType) > 100 {
		return nil, ErrFieldTooLong
	}

	now := time.Now().UTC()
	return &Ticket{
		id:          id.NewUUID(),
		clientEmail: clientEmail,
		brand:       strings.TrimSpace(brand),
		itemType:    strings.TrimSpace(itemType),
		status:      vo.StatusPending,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructTicket(
	ticketID string,
	clientEmail string,
	brand string,
	itemType string,
	status vo.TicketStatus,
	result *vo.Verdict,
	comment string,
	expertName string,
	version int,
	createdAt, updatedAt time.Time,
	images []*Image,
	photoRequests []*PhotoRequest,
	certificate *Certificate,
) (*Ticket, error) {
	if ticketID == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if result != nil && !result.IsValid() {
		return nil, fmt.Errorf("invalid result: %s", *result)
	}

	t := &Ticket{
		id:            ticketID,
		clientEmail:   clientEmail,
		brand:         brand,
		itemType:      itemType,
		status:        status,
		result:        result,
		comment:       comment,
		expertName:    expertName,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		images:        images,
		photoRequests: photoRequests,
		certificate:   certificate,
	}
	t.sortChildren()
	return t, nil
}

func (t *Ticket) ID() string              { return t.id }
func (t *Ticket) ClientEmail() string     { return t.clientEmail }
func (t *Ticket) Brand() string           { return t.brand }
func (t *Ticket) ItemType() string        { return t.itemType }
func (t *Ticket) Status() vo.TicketStatus { return t.status }
func (t *Ticket) Comment() string         { return t.comment }
func (t *Ticket) ExpertName() string      { return t.expertName }
func (t *Ticket) Version() int            { return t.version }
func (t *Ticket) CreatedAt() time.Time    { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time    { return t.updatedAt }
func (t *Ticket) Certificate() *Certificate {
	return t.certificate
}

// Result returns the verdict, or nil until the ticket is completed.
func (t *Ticket) Result() *vo.Verdict {
	if t.result == nil {
		return nil
	}
	r := *t.result
	return &r
}

// Images returns images ordered by upload time.
func (t *Ticket) Images() []*Image {
	out := make([]*Image, len(t.images))
	copy(out, t.images)
	return out
}

func (t *Ticket) PhotoRequests() []*PhotoRequest {
	out := make([]*PhotoRequest, len(t.photoRequests))
	copy(out, t.photoRequests)
	return out
}

// PendingPhotoRequest returns the outstanding request, if any.
func (t *Ticket) PendingPhotoRequest() *PhotoRequest {
	for _, pr := range t.photoRequests {
		if pr.IsPending() {
			return pr
		}
	}
	return nil
}

// AttachInitialImages adds the images stored during submission.
func (t *Ticket) AttachInitialImages(images []*Image) error {
	if !t.status.IsPending() || len(t.images) > 0 {
		return fmt.Errorf("%w: initial images can only be attached once to a new ticket", ErrInvalidTransition)
	}
	if err := t.checkImages(images, vo.ImageTypeInitial); err != nil {
		return err
	}
	t.images = append(t.images, images...)
	t.sortChildren()
	return nil
}

// StartReview moves a PENDING ticket to IN_REVIEW. Already IN_REVIEW is a no-op.
func (t *Ticket) StartReview() error {
	if t.status.IsInReview() {
		return nil
	}
	if t.status.NeedsMorePhotos() {
		return fmt.Errorf("%w: review resumes when the client uploads the requested photos", ErrInvalidTransition)
	}
	if err := t.checkTransition(vo.StatusInReview); err != nil {
		return err
	}
	t.transition(vo.StatusInReview, time.Now().UTC())
	return nil
}

// CanRequestPhotos reports whether a photo request is legal now.
func (t *Ticket) CanRequestPhotos() error {
	if t.status.NeedsMorePhotos() {
		return ErrPhotoRequestPending
	}
	return t.checkTransition(vo.StatusNeedsMorePhotos)
}

// RequestPhotos opens a photo request and moves the ticket to NEEDS_MORE_PHOTOS.
func (t *Ticket) RequestPhotos(description string) (*PhotoRequest, error) {
	if err := t.CanRequestPhotos(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	pr, err := newPhotoRequest(t.id, description, now)
	if err != nil {
		return nil, err
	}
	t.photoRequests = append(t.photoRequests, pr)
	t.transition(vo.StatusNeedsMorePhotos, now)
	return pr, nil
}

// CanReceiveAdditionalPhotos reports whether additional photos are accepted now.
func (t *Ticket) CanReceiveAdditionalPhotos() error {
	if t.status.IsCompleted() {
		return ErrTicketFinalized
	}
	if !t.status.NeedsMorePhotos() {
		return ErrNotAwaitingPhotos
	}
	return nil
}

// ReceiveAdditionalPhotos appends ADDITIONAL images, fulfills the oldest pending
// request and returns the ticket to IN_REVIEW.
func (t *Ticket) ReceiveAdditionalPhotos(images []*Image) (*PhotoRequest, error) {
	if err := t.CanReceiveAdditionalPhotos(); err != nil {
		return nil, err
	}
	if err := t.checkImages(images, vo.ImageTypeAdditional); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var fulfilled *PhotoRequest
	for _, pr := range t.photoRequests {
		if pr.IsPending() {
			pr.fulfill(now)
			fulfilled = pr
			break
		}
	}

	t.images = append(t.images, images...)
	t.sortChildren()
	t.transition(vo.StatusInReview, now)
	return fulfilled, nil
}

// CanComplete reports whether a verdict may be recorded now.
func (t *Ticket) CanComplete() error {
	if t.status.IsCompleted() {
		return ErrTicketFinalized
	}
	return t.checkTransition(vo.StatusCompleted)
}

// Complete records the verdict. The comment is mandatory.
func (t *Ticket) Complete(verdict vo.Verdict, comment, expertName string) error {
	if !verdict.IsValid() {
		return ErrInvalidVerdict
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return ErrCommentRequired
	}
	if utf8.RuneCountInString(comment) > constants.MaxCommentLength {
		return fmt.Errorf("%w: maximum is %d characters", ErrCommentTooLong, constants.MaxCommentLength)
	}
	if err := t.CanComplete(); err != nil {
		return err
	}

	t.result = &verdict
	t.comment = comment
	t.expertName = strings.TrimSpace(expertName)
	t.transition(vo.StatusCompleted, time.Now().UTC())
	return nil
}

// AttachCertificate links the certificate issued for an AUTHENTIC verdict.
// A ticket that already holds a certificate keeps it.
func (t *Ticket) AttachCertificate(c *Certificate) (*Certificate, error) {
	if t.result == nil || !t.result.IsAuthentic() || !t.status.IsCompleted() {
		return nil, ErrCertificateForbidden
	}
	if t.certificate != nil {
		return t.certificate, nil
	}
	if c == nil || c.TicketID() != t.id {
		return nil, fmt.Errorf("certificate does not belong to ticket %s", t.id)
	}
	t.certificate = c
	return c, nil
}

// CheckInvariants verifies the aggregate's cross-field rules.
func (t *Ticket) CheckInvariants() error {
	if (t.result != nil) != t.status.IsCompleted() {
		return fmt.Errorf("result must be set iff status is COMPLETED (status=%s)", t.status)
	}
	if t.certificate != nil && (t.result == nil || !t.result.IsAuthentic()) {
		return fmt.Errorf("certificate present on a non-authentic ticket")
	}
	pending := 0
	for _, pr := range t.photoRequests {
		if pr.IsPending() {
			pending++
		}
	}
	if pending > 1 {
		return fmt.Errorf("ticket has %d pending photo requests", pending)
	}
	if t.status.NeedsMorePhotos() && pending != 1 {
		return fmt.Errorf("NEEDS_MORE_PHOTOS requires exactly one pending photo request, found %d", pending)
	}
	return nil
}

func (t *Ticket) checkTransition(to vo.TicketStatus) error {
	if t.status.IsCompleted() {
		return ErrTicketFinalized
	}
	if !t.status.CanTransitionTo(to) {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, t.status, to)
	}
	return nil
}

func (t *Ticket) transition(to vo.TicketStatus, at time.Time) {
	t.status = to
	t.updatedAt = at
	t.version++
}

func (t *Ticket) checkImages(images []*Image, want vo.ImageType) error {
	if len(images) == 0 {
		return ErrNoImages
	}
	for _, img := range images {
		if img == nil || img.TicketID() != t.id {
			return fmt.Errorf("image does not belong to ticket %s", t.id)
		}
		if img.Type() != want {
			return fmt.Errorf("%w: expected %s, got %s", ErrImageTypeMismatch, want, img.Type())
		}
	}
	return nil
}

func (t *Ticket) sortChildren() {
	sort.SliceStable(t.images, func(i, j int) bool {
		return t.images[i].UploadedAt().Before(t.images[j].UploadedAt())
	})
	sort.SliceStable(t.photoRequests, func(i, j int) bool {
		return t.photoRequests[i].CreatedAt().Before(t.photoRequests[j].CreatedAt())
	})
}
