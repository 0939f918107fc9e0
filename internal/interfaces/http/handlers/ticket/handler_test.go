package ticket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ticketdto "github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/interfaces/http/handlers/testutil"
	"github.com/bagcheck-inc/bagcheck/internal/shared/constants"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
)

const testTicketID = "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f"

// =====================================================================
// Mock use cases
// =====================================================================

type mockSubmitUC struct {
	cmd    usecases.SubmitTicketCommand
	called bool
	result *usecases.SubmitTicketResult
	err    error
}

func (m *mockSubmitUC) Execute(_ context.Context, cmd usecases.SubmitTicketCommand) (*usecases.SubmitTicketResult, error) {
	m.called = true
	m.cmd = cmd
	return m.result, m.err
}

type mockGetUC struct {
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockGetUC) Execute(_ context.Context, _ usecases.GetTicketQuery) (*ticketdto.TicketDTO, error) {
	return m.result, m.err
}

type mockListUC struct {
	query  usecases.ListTicketsQuery
	result *usecases.ListTicketsResult
	err    error
}

func (m *mockListUC) Execute(_ context.Context, query usecases.ListTicketsQuery) (*usecases.ListTicketsResult, error) {
	m.query = query
	return m.result, m.err
}

type mockListClientUC struct {
	query  usecases.ListClientTicketsQuery
	result *usecases.ListClientTicketsResult
	err    error
}

func (m *mockListClientUC) Execute(_ context.Context, query usecases.ListClientTicketsQuery) (*usecases.ListClientTicketsResult, error) {
	m.query = query
	return m.result, m.err
}

type mockUpdateStatusUC struct {
	cmd    usecases.UpdateTicketStatusCommand
	result *usecases.UpdateTicketStatusResult
	err    error
}

func (m *mockUpdateStatusUC) Execute(_ context.Context, cmd usecases.UpdateTicketStatusCommand) (*usecases.UpdateTicketStatusResult, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockRequestPhotosUC struct {
	cmd    usecases.RequestPhotosCommand
	result *usecases.RequestPhotosResult
	err    error
}

func (m *mockRequestPhotosUC) Execute(_ context.Context, cmd usecases.RequestPhotosCommand) (*usecases.RequestPhotosResult, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockUploadPhotosUC struct {
	cmd    usecases.UploadAdditionalPhotosCommand
	result *usecases.UploadAdditionalPhotosResult
	err    error
}

func (m *mockUploadPhotosUC) Execute(_ context.Context, cmd usecases.UploadAdditionalPhotosCommand) (*usecases.UploadAdditionalPhotosResult, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockCompleteUC struct {
	cmd    usecases.CompleteTicketCommand
	result *usecases.CompleteTicketResult
	err    error
}

func (m *mockCompleteUC) Execute(_ context.Context, cmd usecases.CompleteTicketCommand) (*usecases.CompleteTicketResult, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockDeleteUC struct {
	cmd usecases.DeleteTicketCommand
	err error
}

func (m *mockDeleteUC) Execute(_ context.Context, cmd usecases.DeleteTicketCommand) (*usecases.DeleteTicketResult, error) {
	m.cmd = cmd
	if m.err != nil {
		return nil, m.err
	}
	return &usecases.DeleteTicketResult{Success: true}, nil
}

// =====================================================================
// Test helpers
// =====================================================================

func newTestTicketHandler(ex Executors) *TicketHandler {
	return NewTicketHandler(ex, UploadLimits{MaxFiles: 3, MaxFileBytes: 1024}, testutil.NewMockLogger())
}

func sampleTicket(status string) *ticketdto.TicketDTO {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	return &ticketdto.TicketDTO{
		ID:          testTicketID,
		ClientEmail: "client@example.com",
		Brand:       "Chanel",
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func parse(t *testing.T, body []byte) testutil.APIResponse {
	t.Helper()
	var resp testutil.APIResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

var jpeg = testutil.FilePart{Field: "files", Name: "front.jpg", Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}}

// =====================================================================
// SubmitTicket
// =====================================================================

func TestTicketHandler_SubmitTicket_Success(t *testing.T) {
	uc := &mockSubmitUC{result: &usecases.SubmitTicketResult{Ticket: sampleTicket("PENDING")}}
	h := newTestTicketHandler(Executors{Submit: uc})

	c, w := testutil.NewMultipartContext(http.MethodPost, "/tickets",
		map[string]string{"client_email": " client@example.com ", "brand": "Chanel"},
		[]testutil.FilePart{jpeg, {Field: "files[]", Name: "back.jpg", Data: []byte{1, 2}}},
	)
	c.Request.Header.Set(constants.HeaderIdempotencyKey, "key-1")

	h.SubmitTicket(c)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := parse(t, w.Body.Bytes())
	assert.True(t, resp.Success)
	assert.Contains(t, string(resp.Data), testTicketID)

	assert.Equal(t, "client@example.com", uc.cmd.ClientEmail)
	assert.Equal(t, "Chanel", uc.cmd.Brand)
	assert.Equal(t, "key-1", uc.cmd.IdempotencyKey)
	require.Len(t, uc.cmd.Files, 2)
	assert.Equal(t, "front.jpg", uc.cmd.Files[0].Name)
	assert.Equal(t, jpeg.Data, uc.cmd.Files[0].Data)
}

func TestTicketHandler_SubmitTicket_CamelCaseFields(t *testing.T) {
	uc := &mockSubmitUC{result: &usecases.SubmitTicketResult{Ticket: sampleTicket("PENDING")}}
	h := newTestTicketHandler(Executors{Submit: uc})

	c, w := testutil.NewMultipartContext(http.MethodPost, "/tickets",
		map[string]string{"clientEmail": "client@example.com", "itemType": "Tote"},
		[]testutil.FilePart{jpeg},
	)
	h.SubmitTicket(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "client@example.com", uc.cmd.ClientEmail)
	assert.Equal(t, "Tote", uc.cmd.ItemType)
}

func TestTicketHandler_SubmitTicket_Replayed(t *testing.T) {
	uc := &mockSubmitUC{result: &usecases.SubmitTicketResult{Ticket: sampleTicket("PENDING"), Replayed: true}}
	h := newTestTicketHandler(Executors{Submit: uc})

	c, w := testutil.NewMultipartContext(http.MethodPost, "/tickets",
		map[string]string{"client_email": "client@example.com"}, []testutil.FilePart{jpeg})
	h.SubmitTicket(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTicketHandler_SubmitTicket_TooManyFiles(t *testing.T) {
	uc := &mockSubmitUC{}
	h := newTestTicketHandler(Executors{Submit: uc})

	files := []testutil.FilePart{jpeg, jpeg, jpeg, jpeg}
	c, w := testutil.NewMultipartContext(http.MethodPost, "/tickets",
		map[string]string{"client_email": "client@example.com"}, files)
	h.SubmitTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, uc.called)
}

func TestTicketHandler_SubmitTicket_OversizedFileReachesUseCase(t *testing.T) {
	uc := &mockSubmitUC{err: errors.NewValidationError("file too large")}
	h := newTestTicketHandler(Executors{Submit: uc})

	big := testutil.FilePart{Field: "files", Name: "big.jpg", Data: make([]byte, 4096)}
	c, w := testutil.NewMultipartContext(http.MethodPost, "/tickets",
		map[string]string{"client_email": "client@example.com"}, []testutil.FilePart{big})
	h.SubmitTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, uc.cmd.Files, 1)
	assert.Len(t, uc.cmd.Files[0].Data, 1025, "read stops one byte past the limit")
}

func TestTicketHandler_SubmitTicket_NotMultipart(t *testing.T) {
	uc := &mockSubmitUC{}
	h := newTestTicketHandler(Executors{Submit: uc})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets", map[string]string{"client_email": "a@b.co"})
	h.SubmitTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, uc.called)
}

// =====================================================================
// GetTicket / ListTickets / ListClientTickets
// =====================================================================

func TestTicketHandler_GetTicket(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		uc         *mockGetUC
		wantStatus int
	}{
		{name: "found", id: testTicketID, uc: &mockGetUC{result: sampleTicket("PENDING")}, wantStatus: http.StatusOK},
		{name: "not found", id: testTicketID, uc: &mockGetUC{err: errors.NewNotFoundError("ticket not found")}, wantStatus: http.StatusNotFound},
		{name: "malformed id", id: "abc", uc: &mockGetUC{}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestTicketHandler(Executors{Get: tt.uc})
			c, w := testutil.NewTestContext(http.MethodGet, "/tickets/"+tt.id, nil)
			testutil.SetURLParam(c, "id", tt.id)

			h.GetTicket(c)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTicketHandler_ListTickets(t *testing.T) {
	uc := &mockListUC{result: &usecases.ListTicketsResult{
		Tickets: []*ticketdto.TicketDTO{sampleTicket("IN_REVIEW")},
		Total:   1,
		Limit:   5,
		Offset:  0,
		Counts:  ticketdto.StatusCountsDTO{Total: 3, Pending: 2, InReview: 1},
	}}
	h := newTestTicketHandler(Executors{List: uc})

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets", nil)
	testutil.SetQueryParams(c, map[string]string{"status": "in_review", "limit": "5", "clientEmail": "client@example.com"})
	h.ListTickets(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "IN_REVIEW", uc.query.Status)
	assert.Equal(t, 5, uc.query.Limit)
	assert.Equal(t, "client@example.com", uc.query.ClientEmail)

	var data TicketListResponse
	require.NoError(t, json.Unmarshal(parse(t, w.Body.Bytes()).Data, &data))
	assert.Equal(t, int64(1), data.Total)
	assert.Equal(t, int64(2), data.Counts.Pending)
	assert.Len(t, data.Items, 1)
}

func TestTicketHandler_ListClientTickets(t *testing.T) {
	uc := &mockListClientUC{result: &usecases.ListClientTicketsResult{
		Tickets: []*ticketdto.TicketDTO{sampleTicket("COMPLETED")},
		Stats:   ticketdto.StatusCountsDTO{Total: 1, Completed: 1},
	}}
	h := newTestTicketHandler(Executors{ListClientTickets: uc})

	c, w := testutil.NewTestContext(http.MethodGet, "/client/tickets", nil)
	testutil.SetQueryParams(c, map[string]string{"email": "client@example.com"})
	h.ListClientTickets(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "client@example.com", uc.query.Email)
	assert.Contains(t, w.Body.String(), `"completed":1`)
}

func TestTicketHandler_ListClientTickets_InvalidEmail(t *testing.T) {
	uc := &mockListClientUC{err: errors.NewValidationError("email must be a valid email address")}
	h := newTestTicketHandler(Executors{ListClientTickets: uc})

	c, w := testutil.NewTestContext(http.MethodGet, "/client/tickets", nil)
	testutil.SetQueryParams(c, map[string]string{"email": "not-an-email"})
	h.ListClientTickets(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// Transitions
// =====================================================================

func TestTicketHandler_UpdateTicketStatus(t *testing.T) {
	uc := &mockUpdateStatusUC{result: &usecases.UpdateTicketStatusResult{
		Ticket:  sampleTicket("COMPLETED"),
		Warning: "failed to send certificate_issued email",
	}}
	h := newTestTicketHandler(Executors{UpdateStatus: uc})

	c, w := testutil.NewTestContext(http.MethodPatch, "/tickets/"+testTicketID, UpdateTicketStatusRequest{
		Status:  "completed",
		Result:  "authentic",
		Comment: "Genuine.",
	})
	testutil.SetURLParam(c, "id", testTicketID)
	h.UpdateTicketStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := parse(t, w.Body.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, "failed to send certificate_issued email", resp.Warning)
	assert.Equal(t, "COMPLETED", uc.cmd.Status)
	assert.Equal(t, "AUTHENTIC", uc.cmd.Result)
	assert.Equal(t, testTicketID, uc.cmd.TicketID)
}

func TestTicketHandler_UpdateTicketStatus_MissingStatus(t *testing.T) {
	h := newTestTicketHandler(Executors{UpdateStatus: &mockUpdateStatusUC{}})

	c, w := testutil.NewTestContext(http.MethodPatch, "/tickets/"+testTicketID, map[string]string{"result": "FAKE"})
	testutil.SetURLParam(c, "id", testTicketID)
	h.UpdateTicketStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(errors.ErrorTypeValidation), parse(t, w.Body.Bytes()).Error.Type)
}

func TestTicketHandler_RequestPhotos(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := &mockRequestPhotosUC{result: &usecases.RequestPhotosResult{
			Ticket:       sampleTicket("NEEDS_MORE_PHOTOS"),
			PhotoRequest: ticketdto.PhotoRequestDTO{Description: "Show the zipper", Status: "PENDING"},
			UploadURL:    "https://bagcheck.example.com/upload/additional/" + testTicketID,
		}}
		h := newTestTicketHandler(Executors{RequestPhotos: uc})

		c, w := testutil.NewTestContext(http.MethodPost, "/tickets/"+testTicketID+"/photo-request",
			RequestPhotosRequest{Description: "Show the zipper"})
		testutil.SetURLParam(c, "id", testTicketID)
		h.RequestPhotos(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Show the zipper", uc.cmd.Description)
		assert.Contains(t, w.Body.String(), "upload/additional")
	})

	t.Run("completed ticket", func(t *testing.T) {
		uc := &mockRequestPhotosUC{err: errors.NewInvalidStateError("ticket is already completed")}
		h := newTestTicketHandler(Executors{RequestPhotos: uc})

		c, w := testutil.NewTestContext(http.MethodPost, "/tickets/"+testTicketID+"/photo-request",
			RequestPhotosRequest{Description: "More"})
		testutil.SetURLParam(c, "id", testTicketID)
		h.RequestPhotos(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, string(errors.ErrorTypeInvalidState), parse(t, w.Body.Bytes()).Error.Type)
	})
}

func TestTicketHandler_UploadAdditionalPhotos(t *testing.T) {
	uc := &mockUploadPhotosUC{result: &usecases.UploadAdditionalPhotosResult{
		Ticket:   sampleTicket("IN_REVIEW"),
		Uploaded: []ticketdto.ImageDTO{{ID: "img-1", Type: "ADDITIONAL"}},
	}}
	h := newTestTicketHandler(Executors{UploadPhotos: uc})

	c, w := testutil.NewMultipartContext(http.MethodPost, "/tickets/"+testTicketID+"/additional-photos",
		nil, []testutil.FilePart{jpeg})
	testutil.SetURLParam(c, "id", testTicketID)
	h.UploadAdditionalPhotos(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testTicketID, uc.cmd.TicketID)
	assert.Len(t, uc.cmd.Files, 1)
	assert.Contains(t, w.Body.String(), "ADDITIONAL")
}

func TestTicketHandler_CompleteTicket(t *testing.T) {
	uc := &mockCompleteUC{result: &usecases.CompleteTicketResult{
		Ticket:            sampleTicket("COMPLETED"),
		CertificateIssued: true,
	}}
	h := newTestTicketHandler(Executors{Complete: uc})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets/"+testTicketID+"/complete", CompleteTicketRequest{
		Result:     "AUTHENTIC",
		Comment:    "Stitching and hardware match.",
		ExpertName: " Jane ",
	})
	testutil.SetURLParam(c, "id", testTicketID)
	h.CompleteTicket(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jane", uc.cmd.ExpertName)
	var data CompleteTicketResponse
	require.NoError(t, json.Unmarshal(parse(t, w.Body.Bytes()).Data, &data))
	assert.True(t, data.CertificateIssued)
}

func TestTicketHandler_CompleteTicket_CamelCaseExpertName(t *testing.T) {
	uc := &mockCompleteUC{result: &usecases.CompleteTicketResult{Ticket: sampleTicket("COMPLETED")}}
	h := newTestTicketHandler(Executors{Complete: uc})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets/"+testTicketID+"/complete", map[string]string{
		"result":     "fake",
		"comment":    "Misaligned logo.",
		"expertName": "Jane",
	})
	testutil.SetURLParam(c, "id", testTicketID)
	h.CompleteTicket(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jane", uc.cmd.ExpertName)
	assert.Equal(t, "FAKE", uc.cmd.Result)
}

func TestTicketHandler_CompleteTicket_RenderFailure(t *testing.T) {
	uc := &mockCompleteUC{err: errors.NewRenderError("failed to render certificate")}
	h := newTestTicketHandler(Executors{Complete: uc})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets/"+testTicketID+"/complete", CompleteTicketRequest{
		Result:  "AUTHENTIC",
		Comment: "ok",
	})
	testutil.SetURLParam(c, "id", testTicketID)
	h.CompleteTicket(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "render_error"))
}

func TestTicketHandler_DeleteTicket(t *testing.T) {
	uc := &mockDeleteUC{}
	h := newTestTicketHandler(Executors{Delete: uc})

	c, w := testutil.NewTestContext(http.MethodDelete, "/tickets/"+testTicketID, nil)
	testutil.SetURLParam(c, "id", testTicketID)
	h.DeleteTicket(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testTicketID, uc.cmd.TicketID)
}
