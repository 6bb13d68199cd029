package keyvalue

import "context"

// Repository describes the persistent key-value operations.
type Repository interface {
	// Get returns the stored bytes, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or overwrites the value of key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists keys matching a GLOB pattern, sorted ascending.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
