// Package blob publishes finished artifacts (export workbooks, import logs)
// to object storage or to a mirror directory.
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	appconfig "github.com/DioBrando0203/expedientes/internal/config"
)

// Store accepts an artifact under key and returns where it ended up.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeText = "text/plain; charset=utf-8"
)

// ExportKey is exports/<date>/<file>.
func ExportKey(at time.Time, file string) string {
	return path.Join("exports", at.Format("2006-01-02"), filepath.Base(file))
}

// ImportLogKey is imports/<run-id>/<file>.
func ImportLogKey(runID, file string) string {
	return path.Join("imports", runID, filepath.Base(file))
}

// New returns the store selected by cfg, or nil when publishing is off.
// A PublishDir selects the directory mirror; otherwise S3 is used.
func New(ctx context.Context, cfg *appconfig.Config) (Store, error) {
	if !cfg.PublishEnabled {
		return nil, nil
	}
	if cfg.PublishDir != "" {
		return NewFSStore(cfg.PublishDir), nil
	}
	s, err := NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up s3 publishing: %w", err)
	}
	return s, nil
}

// PutFile publishes the file at p under key.
func PutFile(ctx context.Context, s Store, key, p, contentType string) (string, error) {
	f, err := openFile(p)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return s.Put(ctx, key, f, contentType)
}
