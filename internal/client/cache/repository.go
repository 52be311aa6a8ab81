// Package cache implements the persistent local cache that survives client
// restarts: an opaque key-value store plus a typed wrapper for the user
// record and the bearer credential.
package cache

import (
	"context"
)

// Repository is the raw key-value surface of the cache. Values are opaque
// byte slices; the typed Store layer decides how they are encoded.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
