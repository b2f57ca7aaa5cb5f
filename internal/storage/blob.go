// Package storage provides key-value blob stores used to keep per-profile state.
package storage

import (
	"context"
	"errors"
	"fmt"

	"cinereview-backend/internal/config"

	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned by Get when no blob is stored under the key.
var ErrNotFound = errors.New("blob not found")

// BlobStore reads and writes opaque values by key. Implementations must be safe for
// concurrent use.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// New builds the blob store selected by cfg.Community.BlobBackend.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (BlobStore, error) {
	var (
		store BlobStore
		err   error
	)
	switch cfg.Community.BlobBackend {
	case "", "memory":
		store, err = NewMemoryStore(cfg.Community.MemoryProfiles)
	case "redis":
		store, err = NewRedisStore(ctx, cfg.Redis, logger)
	case "minio":
		store, err = NewMinIOStore(ctx, cfg.MinIO, logger)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Community.BlobBackend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
