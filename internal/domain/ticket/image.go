package ticket

import (
	"fmt"
	"time"

	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/id"
)

// Image is one stored photograph. Images are append-only.
type Image struct {
	id          string
	ticketID    string
	url         string
	storageKey  string
	imageType   vo.ImageType
	contentType string
	size        int64
	uploadedAt  time.Time
}

func NewImage(ticketID string, imageType vo.ImageType, url, storageKey, contentType string, size int64, uploadedAt time.Time) (*Image, error) {
	if ticketID == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if !imageType.IsValid() {
		return nil, fmt.Errorf("invalid image type: %s", imageType)
	}
	if url == "" || storageKey == "" {
		return nil, fmt.Errorf("image url and storage key are required")
	}
	return &Image{
		id:          id.NewUUID(),
		ticketID:    ticketID,
		url:         url,
		storageKey:  storageKey,
		imageType:   imageType,
		contentType: contentType,
		size:        size,
		uploadedAt:  uploadedAt.UTC(),
	}, nil
}

func ReconstructImage(imageID, ticketID string, imageType vo.ImageType, url, storageKey, contentType string, size int64, uploadedAt time.Time) *Image {
	return &Image{
		id:          imageID,
		ticketID:    ticketID,
		url:         url,
		storageKey:  storageKey,
		imageType:   imageType,
		contentType: contentType,
		size:        size,
		uploadedAt:  uploadedAt,
	}
}

func (i *Image) ID() string            { return i.id }
func (i *Image) TicketID() string      { return i.ticketID }
func (i *Image) URL() string           { return i.url }
func (i *Image) StorageKey() string    { return i.storageKey }
func (i *Image) Type() vo.ImageType    { return i.imageType }
func (i *Image) ContentType() string   { return i.contentType }
func (i *Image) Size() int64           { return i.size }
func (i *Image) UploadedAt() time.Time { return i.uploadedAt }
