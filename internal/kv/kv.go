package kv

import "context"

// Store is a durable string key-value slot, the server-side counterpart
// of the browser's local storage. Two keys are in use: the guest session
// marker and the guest website collection.
type Store interface {
	// Get returns the value for key. The bool reports presence.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	Close() error
}
