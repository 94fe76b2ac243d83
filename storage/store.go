package storage

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the storage backend cannot be reached.
var ErrUnavailable = errors.New("storage backend unavailable")

// Store defines a public type used by loginguard APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store interface {
	// Get returns the value for key and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes key to value, creating or replacing it.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every key currently present.
	Keys(ctx context.Context) ([]string, error)
	// Clear removes every key. Last-resort wipe; not undoable.
	Clear(ctx context.Context) error
}
