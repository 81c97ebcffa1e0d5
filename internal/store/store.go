// ABOUTME: Store interface for durable per-origin key/value storage
// ABOUTME: The runtime's equivalent of a browser profile's localStorage

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested key does not exist
var ErrNotFound = errors.New("not found")

// Item is a single stored key/value pair scoped to an origin
type Item struct {
	Origin    string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Store is durable key/value storage partitioned by origin.
// Values written under one origin are never visible to another.
type Store interface {
	// GetItem returns the value for key, or ErrNotFound.
	GetItem(ctx context.Context, origin, key string) (string, error)
	// SetItem creates or replaces the value for key.
	SetItem(ctx context.Context, origin, key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, origin, key string) error
	// ListItems returns all items stored for origin, ordered by key.
	ListItems(ctx context.Context, origin string) ([]Item, error)
	Close() error
}
