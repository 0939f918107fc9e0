package mappers

import (
	"fmt"

	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between the Ticket aggregate and its persistence models.
type TicketMapper interface {
	// ToModel converts the ticket row together with every child row.
	ToModel(t *ticket.Ticket) *models.TicketModel

	// ToDomain rebuilds the aggregate from a model with its associations preloaded.
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)

	ImageToModel(img *ticket.Image) models.TicketImageModel
	PhotoRequestToModel(pr *ticket.PhotoRequest) models.PhotoRequestModel
	PhotoRequestToDomain(model *models.PhotoRequestModel) (*ticket.PhotoRequest, error)
	CertificateToModel(c *ticket.Certificate) *models.CertificateModel
	CertificateToDomain(model *models.CertificateModel) *ticket.Certificate
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	model := &models.TicketModel{
		ID:          t.ID(),
		ClientEmail: t.ClientEmail(),
		Brand:       t.Brand(),
		ItemType:    t.ItemType(),
		Status:      t.Status().String(),
		Comment:     t.Comment(),
		ExpertName:  t.ExpertName(),
		Version:     t.Version(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
	if r := t.Result(); r != nil {
		s := r.String()
		model.Result = &s
	}

	for _, img := range t.Images() {
		model.Images = append(model.Images, m.ImageToModel(img))
	}
	for _, pr := range t.PhotoRequests() {
		model.PhotoRequests = append(model.PhotoRequests, m.PhotoRequestToModel(pr))
	}
	if c := t.Certificate(); c != nil {
		model.Certificate = m.CertificateToModel(c)
	}

	return model
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, fmt.Errorf("ticket model is nil")
	}

	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, err
	}

	var result *vo.Verdict
	if model.Result != nil && *model.Result != "" {
		v, err := vo.NewVerdict(*model.Result)
		if err != nil {
			return nil, err
		}
		result = &v
	}

	images := make([]*ticket.Image, 0, len(model.Images))
	for i := range model.Images {
		img := &model.Images[i]
		imageType, err := vo.NewImageType(img.Type)
		if err != nil {
			return nil, err
		}
		images = append(images, ticket.ReconstructImage(
			img.ID, img.TicketID, imageType, img.URL, img.StorageKey, img.ContentType, img.Size, img.UploadedAt.UTC(),
		))
	}

	requests := make([]*ticket.PhotoRequest, 0, len(model.PhotoRequests))
	for i := range model.PhotoRequests {
		pr, err := m.PhotoRequestToDomain(&model.PhotoRequests[i])
		if err != nil {
			return nil, err
		}
		requests = append(requests, pr)
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.ClientEmail,
		model.Brand,
		model.ItemType,
		status,
		result,
		model.Comment,
		model.ExpertName,
		model.Version,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
		images,
		requests,
		m.CertificateToDomain(model.Certificate),
	)
}

func (m *TicketMapperImpl) ImageToModel(img *ticket.Image) models.TicketImageModel {
	return models.TicketImageModel{
		ID:          img.ID(),
		TicketID:    img.TicketID(),
		URL:         img.URL(),
		StorageKey:  img.StorageKey(),
		Type:        img.Type().String(),
		ContentType: img.ContentType(),
		Size:        img.Size(),
		UploadedAt:  img.UploadedAt(),
	}
}

func (m *TicketMapperImpl) PhotoRequestToModel(pr *ticket.PhotoRequest) models.PhotoRequestModel {
	return models.PhotoRequestModel{
		ID:          pr.ID(),
		TicketID:    pr.TicketID(),
		Description: pr.Description(),
		Status:      pr.Status().String(),
		CreatedAt:   pr.CreatedAt(),
		FulfilledAt: pr.FulfilledAt(),
	}
}

func (m *TicketMapperImpl) PhotoRequestToDomain(model *models.PhotoRequestModel) (*ticket.PhotoRequest, error) {
	status, err := vo.NewPhotoRequestStatus(model.Status)
	if err != nil {
		return nil, err
	}
	return ticket.ReconstructPhotoRequest(model.ID, model.TicketID, model.Description, status, model.CreatedAt.UTC(), utcPtr(model.FulfilledAt)), nil
}

func (m *TicketMapperImpl) CertificateToModel(c *ticket.Certificate) *models.CertificateModel {
	return &models.CertificateModel{
		ID:        c.ID(),
		TicketID:  c.TicketID(),
		QRCode:    c.QRCode(),
		PDFURL:    c.PDFURL(),
		CreatedAt: c.CreatedAt(),
	}
}

func (m *TicketMapperImpl) CertificateToDomain(model *models.CertificateModel) *ticket.Certificate {
	if model == nil || model.ID == "" {
		return nil
	}
	return ticket.ReconstructCertificate(model.ID, model.TicketID, model.QRCode, model.PDFURL, model.CreatedAt.UTC())
}
