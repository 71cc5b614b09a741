package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rpupo63/portfolio-api/config"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// ImageStore persists uploaded images and returns a URL clients can fetch them from.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}

// New builds the store selected by STORAGE_DRIVER (local by default).
func New(ctx context.Context, cfg map[string]string) (ImageStore, error) {
	driver := strings.ToLower(config.GetString(cfg, "STORAGE_DRIVER", DriverLocal))
	switch driver {
	case DriverLocal:
		return NewLocalStore(
			config.GetString(cfg, "UPLOAD_DIR", "uploads"),
			config.GetString(cfg, "PUBLIC_BASE_URL", ""),
		)
	case DriverS3:
		return NewS3StoreFromConfig(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", driver)
	}
}
