// Package storage contains the durable key-value stores that back the
// repositories. Each key holds one UTF-8 string value, usually a JSON blob
// with a whole collection.
package storage

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when a store is addressed with an empty key.
var ErrEmptyKey = errors.New("storage key is empty")

// Store is a durable string key-value store.
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
