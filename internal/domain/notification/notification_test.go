package notification

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
)

func TestNewNotification(t *testing.T) {
	n, err := NewNotification(vo.KindPhotoRequest, "t-1", "a@b.com", map[string]string{"description": "serial"})
	require.NoError(t, err)
	assert.Equal(t, vo.DeliveryPending, n.Status())
	assert.Equal(t, "serial", n.Payload()["description"])
	assert.True(t, n.IsRetryable())

	_, err = NewNotification(vo.KindRejection, "", "a@b.com", nil)
	assert.Error(t, err, "ticket notifications need a ticket")

	test, err := NewNotification(vo.KindTest, "", "a@b.com", nil)
	require.NoError(t, err)
	assert.Empty(t, test.TicketID())

	_, err = NewNotification(vo.NotificationKind("sms"), "t-1", "a@b.com", nil)
	assert.Error(t, err)
}

func TestNotification_DeliveryLifecycle(t *testing.T) {
	n, err := NewNotification(vo.KindCertificateIssued, "t-1", "a@b.com", nil)
	require.NoError(t, err)

	n.MarkFailed(errors.New("dial tcp: connection refused"), 3)
	assert.Equal(t, vo.DeliveryFailed, n.Status())
	assert.Equal(t, 1, n.Attempts())
	assert.Contains(t, n.LastError(), "connection refused")
	assert.True(t, n.IsRetryable())

	n.MarkFailed(errors.New("again"), 3)
	n.MarkFailed(errors.New("and again"), 3)
	assert.Equal(t, vo.DeliveryAbandoned, n.Status())
	assert.False(t, n.IsRetryable())
	assert.True(t, n.Status().IsFinal())
}

func TestNotification_MarkSent(t *testing.T) {
	n, err := NewNotification(vo.KindRejection, "t-1", "a@b.com", nil)
	require.NoError(t, err)
	n.MarkFailed(errors.New("timeout"), 5)

	n.MarkSent()
	assert.Equal(t, vo.DeliverySent, n.Status())
	assert.Equal(t, 2, n.Attempts())
	assert.Empty(t, n.LastError())
	assert.NotNil(t, n.SentAt())
}
