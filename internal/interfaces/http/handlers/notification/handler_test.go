package notification

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagcheck-inc/bagcheck/internal/application/notification/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/interfaces/http/handlers/testutil"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
)

type mockSendTestEmailUC struct {
	cmd    usecases.SendTestEmailCommand
	result *usecases.SendTestEmailResult
	err    error
}

func (m *mockSendTestEmailUC) Execute(_ context.Context, cmd usecases.SendTestEmailCommand) (*usecases.SendTestEmailResult, error) {
	m.cmd = cmd
	return m.result, m.err
}

func TestNotificationHandler_SendTestEmail(t *testing.T) {
	tests := []struct {
		name        string
		body        interface{}
		uc          *mockSendTestEmailUC
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "sent",
			body:        SendTestEmailRequest{Email: " ops@example.com "},
			uc:          &mockSendTestEmailUC{result: &usecases.SendTestEmailResult{Sent: true}},
			wantStatus:  http.StatusOK,
			wantMessage: "Test email sent",
		},
		{
			name:        "duplicate",
			body:        SendTestEmailRequest{Email: "ops@example.com"},
			uc:          &mockSendTestEmailUC{result: &usecases.SendTestEmailResult{Duplicate: true}},
			wantStatus:  http.StatusOK,
			wantMessage: "Test email already sent moments ago",
		},
		{
			name:       "smtp failure",
			body:       SendTestEmailRequest{Email: "ops@example.com"},
			uc:         &mockSendTestEmailUC{err: errors.NewNotificationError("failed to send test email")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "missing email",
			body:       map[string]string{},
			uc:         &mockSendTestEmailUC{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewNotificationHandler(tt.uc, testutil.NewMockLogger())
			c, w := testutil.NewTestContext(http.MethodPost, "/notifications/test", tt.body)

			h.SendTestEmail(c)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMessage != "" {
				var resp testutil.APIResponse
				require.NoError(t, testutil.ParseResponse(w, &resp))
				assert.Equal(t, tt.wantMessage, resp.Message)
				assert.Equal(t, "ops@example.com", tt.uc.cmd.Email)
			}
		})
	}
}
