package types

import (
	"context"
	"errors"
)

// KVStore is the persistence port for small client-side state such as the
// favorites set. Values are opaque byte strings; callers choose the
// serialization.
type KVStore interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Persistence and lookup errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidKey  = errors.New("key must not be empty")
	ErrStoreClosed = errors.New("store is closed")
	ErrDuplicateID = errors.New("duplicate trail id")
)
