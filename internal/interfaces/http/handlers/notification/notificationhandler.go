package notification

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bagcheck-inc/bagcheck/internal/application/notification/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

type NotificationHandler struct {
	sendTestEmailUC usecases.SendTestEmailExecutor
	logger          logger.Interface
}

func NewNotificationHandler(sendTestEmailUC usecases.SendTestEmailExecutor, logger logger.Interface) *NotificationHandler {
	return &NotificationHandler{
		sendTestEmailUC: sendTestEmailUC,
		logger:          logger,
	}
}

type SendTestEmailRequest struct {
	Email string `json:"email" binding:"required" example:"client@example.com"`
}

type SendTestEmailResponse struct {
	Sent      bool `json:"sent"`
	Duplicate bool `json:"duplicate"`
}

// SendTestEmail godoc
// @Summary Send a test email
// @Description Checks the SMTP setup. Repeats for the same address within a few seconds are suppressed.
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body SendTestEmailRequest true "Recipient"
// @Success 200 {object} utils.APIResponse{data=SendTestEmailResponse}
// @Failure 400 {object} utils.APIResponse "Invalid email"
// @Failure 502 {object} utils.APIResponse "Mail server rejected the message"
// @Router /notifications/test [post]
func (h *NotificationHandler) SendTestEmail(c *gin.Context) {
	var req SendTestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("email is required", err.Error()))
		return
	}

	result, err := h.sendTestEmailUC.Execute(c.Request.Context(), usecases.SendTestEmailCommand{
		Email: strings.TrimSpace(req.Email),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "Test email sent"
	if result.Duplicate {
		message = "Test email already sent moments ago"
	}
	utils.SuccessResponse(c, http.StatusOK, message, SendTestEmailResponse{
		Sent:      result.Sent,
		Duplicate: result.Duplicate,
	})
}
