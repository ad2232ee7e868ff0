package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: not found")

// KV is the durable key-value storage every session of the app shares.
// A Set is visible to other readers only once it returns.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
