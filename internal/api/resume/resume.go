// Package resume stores uploaded resume files on a local filesystem or in S3
package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/afero"

	"github.com/cuongbtq/job-board/internal/config"
)

// Backend names reported to metrics
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

var errInvalidName = errors.New("invalid resume name")

// Store keeps resume files under flat names and returns the reference a
// browser can fetch them by
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
	Backend() string
}

// NewStore builds the resume store selected by the storage config
func NewStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		logger.Info("Resume store ready",
			slog.String("backend", BackendS3),
			slog.String("bucket", cfg.S3.Bucket),
		)
		return NewS3Store(client, cfg.S3, cfg.UploadTimeout), nil
	case config.StorageDriverLocal, "":
		fs := afero.NewBasePathFs(afero.NewOsFs(), cfg.Local.Dir)
		logger.Info("Resume store ready",
			slog.String("backend", BackendLocal),
			slog.String("dir", cfg.Local.Dir),
		)
		return NewFSStore(fs, cfg.Local.PublicPath), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", errInvalidName, name)
	}
	return nil
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}
