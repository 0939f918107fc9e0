package ticket

import (
	ticketdto "github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
)

// SubmitTicketForm holds the text fields of the multipart submission.
// The camelCase names are accepted for older clients.
type SubmitTicketForm struct {
	ClientEmail      string `form:"client_email"`
	ClientEmailCamel string `form:"clientEmail"`
	Brand            string `form:"brand"`
	ItemType         string `form:"item_type"`
	ItemTypeCamel    string `form:"itemType"`
}

func (f SubmitTicketForm) email() string {
	return firstNonEmpty(f.ClientEmail, f.ClientEmailCamel)
}

func (f SubmitTicketForm) itemType() string {
	return firstNonEmpty(f.ItemType, f.ItemTypeCamel)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type UpdateTicketStatusRequest struct {
	Status          string `json:"status" binding:"required" example:"COMPLETED"`
	Result          string `json:"result,omitempty" example:"AUTHENTIC"`
	Comment         string `json:"comment,omitempty"`
	ExpertName      string `json:"expert_name,omitempty"`
	ExpertNameCamel string `json:"expertName,omitempty" swaggerignore:"true"`
}

func (r UpdateTicketStatusRequest) expertName() string {
	return firstNonEmpty(r.ExpertName, r.ExpertNameCamel)
}

type RequestPhotosRequest struct {
	Description string `json:"description" binding:"required" example:"Close-up of the heat stamp"`
}

type CompleteTicketRequest struct {
	Result          string `json:"result" binding:"required" example:"AUTHENTIC"`
	Comment         string `json:"comment" binding:"required"`
	ExpertName      string `json:"expert_name,omitempty"`
	ExpertNameCamel string `json:"expertName,omitempty" swaggerignore:"true"`
}

func (r CompleteTicketRequest) expertName() string {
	return firstNonEmpty(r.ExpertName, r.ExpertNameCamel)
}

// TicketListResponse is a page of tickets plus per-status counts.
type TicketListResponse struct {
	Items  []*ticketdto.TicketDTO    `json:"items"`
	Total  int64                     `json:"total"`
	Limit  int                       `json:"limit"`
	Offset int                       `json:"offset"`
	Counts ticketdto.StatusCountsDTO `json:"counts"`
}

// ClientTicketsResponse lists every ticket of one client.
type ClientTicketsResponse struct {
	Tickets []*ticketdto.TicketDTO    `json:"tickets"`
	Stats   ticketdto.StatusCountsDTO `json:"stats"`
}

type PhotoRequestResponse struct {
	Ticket       *ticketdto.TicketDTO      `json:"ticket"`
	PhotoRequest ticketdto.PhotoRequestDTO `json:"photo_request"`
	UploadURL    string                    `json:"upload_url"`
}

type AdditionalPhotosResponse struct {
	Ticket   *ticketdto.TicketDTO `json:"ticket"`
	Uploaded []ticketdto.ImageDTO `json:"uploaded"`
}

type CompleteTicketResponse struct {
	Ticket            *ticketdto.TicketDTO `json:"ticket"`
	CertificateIssued bool                 `json:"certificate_issued"`
}
