// Package storage implements the image store on Google Cloud Storage or the local filesystem.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/config"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

// New builds the image store selected by cfg.Driver ("gcs" or "local").
func New(ctx context.Context, cfg config.StorageConfig, log logger.Interface) (usecases.ImageStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case "gcs":
		return NewGCSStore(ctx, cfg, log)
	case "local", "":
		return NewLocalStore(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// objectKey returns {prefix}tickets/{ticketID}/{uuid}{ext}. The client file name
// only contributes its extension.
func objectKey(prefix, ticketID, fileName string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(fileName, "\\", "/"))))
	if len(ext) > 8 || strings.ContainsAny(ext, " ?#%") {
		ext = ""
	}
	key := path.Join("tickets", ticketID, uuid.NewString()+ext)
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
