package ticket

import "errors"

var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrCertificateNotFound = errors.New("certificate not found or invalid")

	// lifecycle state errors
	ErrTicketFinalized      = errors.New("ticket already finalized")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrNotAwaitingPhotos    = errors.New("ticket is not awaiting additional photos")
	ErrPhotoRequestPending  = errors.New("ticket already has an outstanding photo request")
	ErrNoPendingRequest     = errors.New("no pending photo request")
	ErrStatusConflict       = errors.New("ticket status changed concurrently")
	ErrCertificateForbidden = errors.New("certificates are only issued for authentic verdicts")

	// input errors
	ErrInvalidEmail        = errors.New("client email is invalid")
	ErrNoImages            = errors.New("at least one image is required")
	ErrCommentRequired     = errors.New("comment is required to complete a ticket")
	ErrCommentTooLong      = errors.New("comment is too long")
	ErrFieldTooLong        = errors.New("brand and item type must be at most 100 characters")
	ErrInvalidVerdict      = errors.New("verdict must be AUTHENTIC or FAKE")
	ErrDescriptionRequired = errors.New("photo request description is required")
	ErrDescriptionTooLong  = errors.New("photo request description exceeds 500 characters")
	ErrImageTypeMismatch   = errors.New("image type does not match the operation")
)

// IsStateError reports whether err is a lifecycle state violation rather than bad input.
func IsStateError(err error) bool {
	for _, target := range []error{
		ErrTicketFinalized,
		ErrInvalidTransition,
		ErrNotAwaitingPhotos,
		ErrPhotoRequestPending,
		ErrNoPendingRequest,
		ErrStatusConflict,
		ErrCertificateForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err means the ticket or certificate does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTicketNotFound) || errors.Is(err, ErrCertificateNotFound)
}
