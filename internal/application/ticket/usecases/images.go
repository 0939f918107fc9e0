package usecases

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

// ImageFile is one uploaded file as received from the client.
type ImageFile struct {
	Name string
	Data []byte
}

type checkedFile struct {
	ImageFile
	contentType string
}

// imageBatch validates files and stores them as one all-or-nothing batch.
type imageBatch struct {
	store     ImageStore
	inspector ImageInspector
	settings  LifecycleSettings
	logger    logger.Interface
}

func (b imageBatch) check(files []ImageFile) ([]checkedFile, error) {
	if len(files) == 0 {
		return nil, errors.NewValidationError("at least one image is required")
	}
	if len(files) > b.settings.MaxFiles {
		return nil, errors.NewValidationError(fmt.Sprintf("at most %d images may be uploaded at once", b.settings.MaxFiles))
	}

	out := make([]checkedFile, 0, len(files))
	for _, f := range files {
		if len(f.Data) == 0 {
			return nil, errors.NewValidationError(fmt.Sprintf("file %q is empty", f.Name))
		}
		if int64(len(f.Data)) > b.settings.MaxFileBytes {
			return nil, errors.NewValidationError(
				fmt.Sprintf("file %q exceeds the %s limit", f.Name, formatBytes(b.settings.MaxFileBytes)),
			)
		}
		contentType, err := b.inspector.Inspect(f.Data)
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("file %q is not a supported image", f.Name), err.Error())
		}
		out = append(out, checkedFile{ImageFile: f, contentType: contentType})
	}
	return out, nil
}

// upload stores every file concurrently. If any upload fails, objects already
// stored are deleted and an UploadError is returned; its details list keys
// whose cleanup also failed.
func (b imageBatch) upload(ctx context.Context, ticketID string, imageType vo.ImageType, files []checkedFile) ([]*ticket.Image, error) {
	stored := make([]*StoredObject, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.settings.UploadConcurrency)
	for i, f := range files {
		g.Go(func() error {
			obj, err := b.store.Upload(gctx, ticketID, f.Name, f.contentType, bytes.NewReader(f.Data), int64(len(f.Data)))
			if err != nil {
				return fmt.Errorf("upload %q: %w", f.Name, err)
			}
			stored[i] = obj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		b.logger.Errorw("image batch upload failed", "ticket_id", ticketID, "error", err)
		orphaned := b.deleteObjects(context.WithoutCancel(ctx), stored)
		if len(orphaned) > 0 {
			return nil, errors.NewUploadError("failed to store images; some stored files could not be removed", orphaned...)
		}
		return nil, errors.NewUploadError("failed to store images; no files were kept")
	}

	base := time.Now().UTC()
	images := make([]*ticket.Image, 0, len(files))
	for i, f := range files {
		// millisecond spacing keeps upload order stable once persisted
		img, err := ticket.NewImage(ticketID, imageType, stored[i].URL, stored[i].Key, f.contentType, int64(len(f.Data)), base.Add(time.Duration(i)*time.Millisecond))
		if err != nil {
			b.discard(ctx, stored)
			return nil, errors.NewInternalError("failed to build image record")
		}
		images = append(images, img)
	}
	return images, nil
}

// discardImages removes stored objects whose rows were never committed.
func (b imageBatch) discardImages(ctx context.Context, images []*ticket.Image) {
	objs := make([]*StoredObject, 0, len(images))
	for _, img := range images {
		objs = append(objs, &StoredObject{URL: img.URL(), Key: img.StorageKey()})
	}
	b.discard(ctx, objs)
}

func (b imageBatch) discard(ctx context.Context, objs []*StoredObject) {
	if orphaned := b.deleteObjects(context.WithoutCancel(ctx), objs); len(orphaned) > 0 {
		b.logger.Errorw("orphaned image objects left in store", "keys", orphaned)
	}
}

func (b imageBatch) deleteObjects(ctx context.Context, objs []*StoredObject) []string {
	var orphaned []string
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		if err := b.store.Delete(ctx, obj.Key); err != nil {
			b.logger.Warnw("failed to delete stored image", "key", obj.Key, "error", err)
			orphaned = append(orphaned, obj.Key)
		}
	}
	return orphaned
}

func formatBytes(n int64) string {
	const mb = 1024 * 1024
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
