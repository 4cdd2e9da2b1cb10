// Package store provides the string-keyed flat stores that hold the
// serialized collections. Backends are deliberately dumb: get/set/delete
// over full values, no partial updates, so total usage is computable by
// walking a small fixed key set.
package store

// Store is a synchronous string-keyed key-value store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any existing value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error

	// Keys returns every key currently stored, in unspecified order.
	Keys() ([]string, error)

	// Close releases backend resources.
	Close() error
}
