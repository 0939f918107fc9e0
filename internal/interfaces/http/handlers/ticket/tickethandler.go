package ticket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

type TicketHandler struct {
	submitTicketUC      usecases.SubmitTicketExecutor
	getTicketUC         usecases.GetTicketExecutor
	listTicketsUC       usecases.ListTicketsExecutor
	listClientTicketsUC usecases.ListClientTicketsExecutor
	updateStatusUC      usecases.UpdateTicketStatusExecutor
	requestPhotosUC     usecases.RequestPhotosExecutor
	uploadPhotosUC      usecases.UploadAdditionalPhotosExecutor
	completeTicketUC    usecases.CompleteTicketExecutor
	deleteTicketUC      usecases.DeleteTicketExecutor
	limits              UploadLimits
	logger              logger.Interface
}

// Executors groups the use cases served by TicketHandler.
type Executors struct {
	Submit            usecases.SubmitTicketExecutor
	Get               usecases.GetTicketExecutor
	List              usecases.ListTicketsExecutor
	ListClientTickets usecases.ListClientTicketsExecutor
	UpdateStatus      usecases.UpdateTicketStatusExecutor
	RequestPhotos     usecases.RequestPhotosExecutor
	UploadPhotos      usecases.UploadAdditionalPhotosExecutor
	Complete          usecases.CompleteTicketExecutor
	Delete            usecases.DeleteTicketExecutor
}

func NewTicketHandler(ex Executors, limits UploadLimits, logger logger.Interface) *TicketHandler {
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = 10
	}
	if limits.MaxFileBytes <= 0 {
		limits.MaxFileBytes = 5 * 1024 * 1024
	}
	return &TicketHandler{
		submitTicketUC:      ex.Submit,
		getTicketUC:         ex.Get,
		listTicketsUC:       ex.List,
		listClientTicketsUC: ex.ListClientTickets,
		updateStatusUC:      ex.UpdateStatus,
		requestPhotosUC:     ex.RequestPhotos,
		uploadPhotosUC:      ex.UploadPhotos,
		completeTicketUC:    ex.Complete,
		deleteTicketUC:      ex.Delete,
		limits:              limits,
		logger:              logger,
	}
}

// SubmitTicket godoc
// @Summary Submit a bag for authentication
// @Description Creates a PENDING ticket from the client's email, optional brand and item type, and one or more photos.
// @Tags tickets
// @Accept multipart/form-data
// @Produce json
// @Param client_email formData string true "Client email"
// @Param brand formData string false "Brand"
// @Param item_type formData string false "Item type"
// @Param files formData file true "Photos"
// @Param Idempotency-Key header string false "Replays the original ticket when repeated"
// @Success 201 {object} utils.APIResponse{data=ticketdto.TicketDTO} "Ticket created"
// @Success 200 {object} utils.APIResponse{data=ticketdto.TicketDTO} "Submission replayed"
// @Failure 400 {object} utils.APIResponse "Validation error"
// @Failure 409 {object} utils.APIResponse "Submission still in progress"
// @Failure 502 {object} utils.APIResponse "Upload failed"
// @Router /tickets [post]
func (h *TicketHandler) SubmitTicket(c *gin.Context) {
	files, err := readImageFiles(c, h.limits)
	if err != nil {
		h.logger.Warnw("invalid ticket submission", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	var form SubmitTicketForm
	if err := c.ShouldBind(&form); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid form fields", err.Error()))
		return
	}

	cmd := usecases.SubmitTicketCommand{
		ClientEmail:    strings.TrimSpace(form.email()),
		Brand:          strings.TrimSpace(form.Brand),
		ItemType:       strings.TrimSpace(form.itemType()),
		Files:          files,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(constants.HeaderIdempotencyKey)),
	}

	result, err := h.submitTicketUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Replayed {
		utils.SuccessResponse(c, http.StatusOK, "Submission already received", result.Ticket)
		return
	}
	utils.CreatedResponse(c, result.Ticket, "Ticket submitted successfully")
}

// GetTicket godoc
// @Summary Get ticket
// @Tags tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} utils.APIResponse{data=ticketdto.TicketDTO}
// @Failure 400 {object} utils.APIResponse "Invalid ticket ID"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{TicketID: ticketID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListTickets godoc
// @Summary List tickets
// @Description Newest first. Counts cover every status regardless of the status filter.
// @Tags tickets
// @Produce json
// @Param status query string false "PENDING, IN_REVIEW, NEEDS_MORE_PHOTOS or COMPLETED"
// @Param client_email query string false "Filter by client email"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} utils.APIResponse{data=TicketListResponse}
// @Failure 400 {object} utils.APIResponse "Validation error"
// @Router /tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	p := utils.ParsePagination(c)
	query := usecases.ListTicketsQuery{
		Status:      strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		ClientEmail: firstQuery(c, "client_email", "clientEmail"),
		Limit:       p.Limit,
		Offset:      p.Offset,
	}

	result, err := h.listTicketsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", TicketListResponse{
		Items:  result.Tickets,
		Total:  result.Total,
		Limit:  result.Limit,
		Offset: result.Offset,
		Counts: result.Counts,
	})
}

// ListClientTickets godoc
// @Summary List a client's tickets
// @Tags client
// @Produce json
// @Param email query string true "Client email"
// @Success 200 {object} utils.APIResponse{data=ClientTicketsResponse}
// @Failure 400 {object} utils.APIResponse "Invalid email"
// @Router /client/tickets [get]
func (h *TicketHandler) ListClientTickets(c *gin.Context) {
	query := usecases.ListClientTicketsQuery{Email: strings.TrimSpace(c.Query("email"))}

	result, err := h.listClientTicketsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", ClientTicketsResponse{
		Tickets: result.Tickets,
		Stats:   result.Stats,
	})
}

// UpdateTicketStatus godoc
// @Summary Update ticket status
// @Description Moves the ticket through the same transitions as the dedicated endpoints. COMPLETED requires a result; NEEDS_MORE_PHOTOS uses the comment as the request description.
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param request body UpdateTicketStatusRequest true "Target status"
// @Success 200 {object} utils.APIResponse{data=ticketdto.TicketDTO}
// @Failure 400 {object} utils.APIResponse "Validation error"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 409 {object} utils.APIResponse "Transition not allowed"
// @Router /tickets/{id} [patch]
func (h *TicketHandler) UpdateTicketStatus(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update ticket status", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := usecases.UpdateTicketStatusCommand{
		TicketID:   ticketID,
		Status:     strings.ToUpper(strings.TrimSpace(req.Status)),
		Result:     strings.ToUpper(strings.TrimSpace(req.Result)),
		Comment:    req.Comment,
		ExpertName: strings.TrimSpace(req.expertName()),
	}

	result, err := h.updateStatusUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	respond(c, "Ticket status updated successfully", result.Warning, result.Ticket)
}

// RequestPhotos godoc
// @Summary Request more photos
// @Description Records a pending photo request, moves the ticket to NEEDS_MORE_PHOTOS and emails the client.
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param request body RequestPhotosRequest true "What to photograph"
// @Success 200 {object} utils.APIResponse{data=PhotoRequestResponse}
// @Failure 400 {object} utils.APIResponse "Validation error"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 409 {object} utils.APIResponse "Ticket is completed"
// @Router /tickets/{id}/photo-request [post]
func (h *TicketHandler) RequestPhotos(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req RequestPhotosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("description is required", err.Error()))
		return
	}

	result, err := h.requestPhotosUC.Execute(c.Request.Context(), usecases.RequestPhotosCommand{
		TicketID:    ticketID,
		Description: req.Description,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	respond(c, "Photo request sent", result.Warning, PhotoRequestResponse{
		Ticket:       result.Ticket,
		PhotoRequest: result.PhotoRequest,
		UploadURL:    result.UploadURL,
	})
}

// UploadAdditionalPhotos godoc
// @Summary Upload requested photos
// @Description Only allowed while the ticket is NEEDS_MORE_PHOTOS. Fulfills the oldest pending request and moves the ticket to IN_REVIEW.
// @Tags tickets
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Ticket ID"
// @Param files formData file true "Photos"
// @Success 200 {object} utils.APIResponse{data=AdditionalPhotosResponse}
// @Failure 400 {object} utils.APIResponse "Validation error"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 409 {object} utils.APIResponse "No photos were requested"
// @Failure 502 {object} utils.APIResponse "Upload failed"
// @Router /tickets/{id}/additional-photos [post]
func (h *TicketHandler) UploadAdditionalPhotos(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	files, err := readImageFiles(c, h.limits)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uploadPhotosUC.Execute(c.Request.Context(), usecases.UploadAdditionalPhotosCommand{
		TicketID: ticketID,
		Files:    files,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Photos uploaded successfully", AdditionalPhotosResponse{
		Ticket:   result.Ticket,
		Uploaded: result.Uploaded,
	})
}

// CompleteTicket godoc
// @Summary Record the verdict
// @Description Completes the ticket. AUTHENTIC issues a certificate; the client is emailed either way.
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param request body CompleteTicketRequest true "Verdict"
// @Success 200 {object} utils.APIResponse{data=CompleteTicketResponse}
// @Failure 400 {object} utils.APIResponse "Validation error"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 409 {object} utils.APIResponse "Ticket already completed"
// @Failure 500 {object} utils.APIResponse "Certificate rendering failed"
// @Router /tickets/{id}/complete [post]
func (h *TicketHandler) CompleteTicket(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CompleteTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("result and comment are required", err.Error()))
		return
	}

	result, err := h.completeTicketUC.Execute(c.Request.Context(), usecases.CompleteTicketCommand{
		TicketID:   ticketID,
		Result:     strings.ToUpper(strings.TrimSpace(req.Result)),
		Comment:    req.Comment,
		ExpertName: strings.TrimSpace(req.expertName()),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	respond(c, "Ticket completed successfully", result.Warning, CompleteTicketResponse{
		Ticket:            result.Ticket,
		CertificateIssued: result.CertificateIssued,
	})
}

// DeleteTicket godoc
// @Summary Delete ticket
// @Description Removes the ticket with its images, photo requests and certificate.
// @Tags tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Router /tickets/{id} [delete]
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if _, err := h.deleteTicketUC.Execute(c.Request.Context(), usecases.DeleteTicketCommand{TicketID: ticketID}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket deleted successfully", nil)
}

func respond(c *gin.Context, message, warning string, data interface{}) {
	if warning != "" {
		utils.SuccessWithWarningResponse(c, http.StatusOK, message, warning, data)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, message, data)
}

func firstQuery(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			return v
		}
	}
	return ""
}
