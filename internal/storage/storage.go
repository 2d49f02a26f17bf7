package storage

import (
	"context"
	"fmt"
)

// Event is a change notification for one key. Deleted is true when the
// key was removed rather than rewritten.
type Event struct {
	Key     string
	Deleted bool
}

// Store is a durable key-value snapshot store shared by every running
// instance of the app, standing in for the browser's per-origin local
// storage. Values are whole serialized snapshots; there are no partial
// updates.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	// Set atomically replaces the value for key.
	Set(key string, value []byte) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(key string) error
	// Watch emits change events until ctx is cancelled. Delivery is
	// best-effort; consumers must keep a polling fallback.
	Watch(ctx context.Context) (<-chan Event, error)
	// Close releases watchers and connections.
	Close() error
}

// Config selects and configures the storage backend.
type Config struct {
	// Dir is the file backend's directory. Used when RedisURL is empty.
	Dir string
	// RedisURL selects the Redis backend when set.
	RedisURL string
}

// New creates the configured store: Redis when a URL is set, local
// files otherwise.
func New(cfg Config) (Store, error) {
	if cfg.RedisURL != "" {
		store, err := NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis storage: %w", err)
		}
		return store, nil
	}
	store, err := NewFileStore(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	return store, nil
}
