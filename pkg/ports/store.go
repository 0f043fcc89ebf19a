package ports

import (
	"context"
)

// KeyValueStore is the minimal persistence capability behind a chain state store.
// It mirrors a browser's session storage: one opaque value per key.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrKeyNotFound if the key holds no value.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}
