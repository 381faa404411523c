package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get for absent or expired keys.
	ErrNotFound = errors.New("store: not found")

	ErrInvalidTTL = errors.New("store: ttl must be positive")
)

// Store persists opaque session blobs. Every successful Get extends the
// entry's lifetime by the ttl it was stored with.
// Implementations: memory (this package) and SQLite.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte, ttl time.Duration) error

	// Sweep removes entries that expired at or before now and reports how
	// many were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*SQLite)(nil)
)
