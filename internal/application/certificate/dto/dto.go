package dto

import (
	"html/template"
	"time"

	ticketdto "github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
)

// VerificationDTO is the public view of a certificate. It never exposes the
// ticket id or the full client email.
type VerificationDTO struct {
	Token       string               `json:"token"`
	Verdict     string               `json:"verdict"`
	Comment     string               `json:"comment"`
	CommentHTML template.HTML        `json:"comment_html,omitempty"`
	ClientEmail string               `json:"client_email"`
	Brand       string               `json:"brand"`
	ItemType    string               `json:"item_type"`
	ExpertName  string               `json:"expert_name"`
	IssuedAt    time.Time            `json:"issued_at"`
	CheckedAt   time.Time            `json:"checked_at"`
	Images      []ticketdto.ImageDTO `json:"images"`
	// DocumentURL is empty for FAKE verdicts.
	DocumentURL string `json:"document_url,omitempty"`
}
