package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/config"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

// LocalStore writes images under a directory that the HTTP server exposes at URLPrefix.
type LocalStore struct {
	root      string
	urlPrefix string
	prefix    string
	logger    logger.Interface
}

func NewLocalStore(cfg config.StorageConfig, log logger.Interface) (*LocalStore, error) {
	root := cfg.LocalDir
	if root == "" {
		root = "./data/uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	urlPrefix := cfg.LocalURLPrefix
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	return &LocalStore{
		root:      root,
		urlPrefix: urlPrefix,
		prefix:    cfg.ObjectKeyPrefix,
		logger:    log.Named("storage.local"),
	}, nil
}

var _ usecases.ImageStore = (*LocalStore)(nil)

// Root is the directory served under URLPrefix.
func (s *LocalStore) Root() string { return s.root }

// URLPrefix is the path or absolute URL the files are served from.
func (s *LocalStore) URLPrefix() string { return s.urlPrefix }

func (s *LocalStore) Upload(ctx context.Context, ticketID, fileName, contentType string, r io.Reader, size int64) (*usecases.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := objectKey(s.prefix, ticketID, fileName)
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create object %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return nil, fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return nil, fmt.Errorf("failed to close object %s: %w", key, err)
	}

	s.logger.Debugw("image stored", "ticket_id", ticketID, "key", key, "size", size)
	return &usecases.StoredObject{URL: joinURL(s.urlPrefix, key), Key: key}, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	target := filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+key)))
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}
