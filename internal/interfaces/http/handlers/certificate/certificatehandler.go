package certificate

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bagcheck-inc/bagcheck/internal/application/certificate/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
	"github.com/bagcheck-inc/bagcheck/internal/shared/utils"
)

type CertificateHandler struct {
	verifyUC   usecases.VerifyCertificateExecutor
	documentUC usecases.GetCertificateDocumentExecutor
	ensureUC   usecases.EnsureCertificateExecutor
	logger     logger.Interface
}

func NewCertificateHandler(
	verifyUC usecases.VerifyCertificateExecutor,
	documentUC usecases.GetCertificateDocumentExecutor,
	ensureUC usecases.EnsureCertificateExecutor,
	logger logger.Interface,
) *CertificateHandler {
	return &CertificateHandler{
		verifyUC:   verifyUC,
		documentUC: documentUC,
		ensureUC:   ensureUC,
		logger:     logger,
	}
}

type EnsureCertificateRequest struct {
	TicketID string `json:"ticket_id" example:"0b8f9c1e-2f4d-4a57-9b1e-1f1f5d1c2a3b"`
	// TicketIDCamel is accepted for older dashboard builds.
	TicketIDCamel string `json:"ticketId,omitempty" swaggerignore:"true"`
}

// VerifyCertificate godoc
// @Summary Verify a certificate
// @Description Public lookup by the token printed in the certificate QR code.
// @Tags certificates
// @Produce json
// @Param token path string true "Certificate token"
// @Success 200 {object} utils.APIResponse{data=dto.VerificationDTO}
// @Failure 404 {object} utils.APIResponse "Certificate not found or invalid"
// @Router /certificates/verify/{token} [get]
func (h *CertificateHandler) VerifyCertificate(c *gin.Context) {
	token, err := utils.ParseTokenParam(c, "token")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.verifyUC.Execute(c.Request.Context(), usecases.VerifyCertificateQuery{Token: token})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetDocument godoc
// @Summary Download the certificate document
// @Description Rendered on demand. Only AUTHENTIC tickets have a document.
// @Tags certificates
// @Produce application/pdf
// @Produce text/html
// @Param token path string true "Certificate token"
// @Param download query bool false "Serve as an attachment"
// @Success 200 {file} file
// @Failure 404 {object} utils.APIResponse "Certificate not found or invalid"
// @Failure 500 {object} utils.APIResponse "Rendering failed"
// @Router /certificates/{token}/document [get]
func (h *CertificateHandler) GetDocument(c *gin.Context) {
	token, err := utils.ParseTokenParam(c, "token")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	doc, err := h.documentUC.Execute(c.Request.Context(), usecases.GetCertificateDocumentQuery{Token: token})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	disposition := "inline"
	if c.Query("download") == "true" || c.Query("download") == "1" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// EnsureCertificate godoc
// @Summary Issue a missing certificate
// @Description Idempotent. Returns the existing certificate of a COMPLETED AUTHENTIC ticket or issues one.
// @Tags certificates
// @Accept json
// @Produce json
// @Param request body EnsureCertificateRequest true "Ticket"
// @Success 201 {object} utils.APIResponse{data=ticketdto.CertificateDTO} "Certificate issued"
// @Success 200 {object} utils.APIResponse{data=ticketdto.CertificateDTO} "Certificate already existed"
// @Failure 400 {object} utils.APIResponse "Validation error"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Failure 409 {object} utils.APIResponse "Ticket is not completed as AUTHENTIC"
// @Router /certificates [post]
func (h *CertificateHandler) EnsureCertificate(c *gin.Context) {
	var req EnsureCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	ticketID := strings.TrimSpace(req.TicketID)
	if ticketID == "" {
		ticketID = strings.TrimSpace(req.TicketIDCamel)
	}

	result, err := h.ensureUC.Execute(c.Request.Context(), usecases.EnsureCertificateCommand{TicketID: ticketID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Created {
		utils.CreatedResponse(c, result.Certificate, "Certificate issued")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Certificate already exists", result.Certificate)
}
