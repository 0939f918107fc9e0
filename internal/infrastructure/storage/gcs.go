package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/config"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

const defaultGCSPublicURL = "https://storage.googleapis.com"

// GCSStore keeps images in one bucket and serves them from a public URL prefix.
type GCSStore struct {
	client    *storage.Client
	bucket    string
	publicURL string
	prefix    string
	logger    logger.Interface
}

// NewGCSStore uses cfg.GCSCredentials as a service account file when set,
// otherwise application default credentials.
func NewGCSStore(ctx context.Context, cfg config.StorageConfig, log logger.Interface) (*GCSStore, error) {
	if cfg.GCSBucket == "" {
		return nil, fmt.Errorf("storage.gcs_bucket is required for the gcs driver")
	}

	var opts []option.ClientOption
	if cfg.GCSCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentials))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}

	publicURL := cfg.GCSPublicURL
	if publicURL == "" {
		publicURL = defaultGCSPublicURL + "/" + cfg.GCSBucket
	}

	return &GCSStore{
		client:    client,
		bucket:    cfg.GCSBucket,
		publicURL: publicURL,
		prefix:    cfg.ObjectKeyPrefix,
		logger:    log.Named("storage.gcs"),
	}, nil
}

var _ usecases.ImageStore = (*GCSStore)(nil)

func (s *GCSStore) Upload(ctx context.Context, ticketID, fileName, contentType string, r io.Reader, size int64) (*usecases.StoredObject, error) {
	key := objectKey(s.prefix, ticketID, fileName)

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"
	if size > 0 && size < int64(w.ChunkSize) {
		w.ChunkSize = 0
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize object %s: %w", key, err)
	}

	s.logger.Debugw("image uploaded", "ticket_id", ticketID, "key", key, "size", size)
	return &usecases.StoredObject{URL: joinURL(s.publicURL, key), Key: key}, nil
}

// Delete treats a missing object as already deleted.
func (s *GCSStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
