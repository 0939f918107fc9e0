package valueobjects

import "fmt"

// NotificationKind selects the email template.
type NotificationKind string

const (
	KindCertificateIssued NotificationKind = "certificate_issued"
	KindRejection         NotificationKind = "rejection"
	KindPhotoRequest      NotificationKind = "photo_request"
	KindTest              NotificationKind = "test"
)

var validKinds = map[NotificationKind]bool{
	KindCertificateIssued: true,
	KindRejection:         true,
	KindPhotoRequest:      true,
	KindTest:              true,
}

func (k NotificationKind) String() string {
	return string(k)
}

func (k NotificationKind) IsValid() bool {
	return validKinds[k]
}

// RequiresTicket reports whether the kind is rendered from ticket state.
func (k NotificationKind) RequiresTicket() bool {
	return k != KindTest
}

func NewNotificationKind(s string) (NotificationKind, error) {
	k := NotificationKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid notification kind: %s", s)
	}
	return k, nil
}

// DeliveryStatus tracks a notification through the outbox.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliverySent      DeliveryStatus = "sent"
	DeliveryFailed    DeliveryStatus = "failed"
	DeliveryAbandoned DeliveryStatus = "abandoned"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryPending, DeliverySent, DeliveryFailed, DeliveryAbandoned:
		return true
	}
	return false
}

func (s DeliveryStatus) IsFinal() bool {
	return s == DeliverySent || s == DeliveryAbandoned
}
