package cache

import "time"

// Cache holds market metadata between commands in a batch. Entries expire
// on their TTL; a miss means the caller refetches from the CLOB.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(key string) (interface{}, bool)

	// Set stores a value with the given TTL. The return mirrors the
	// backing store's accept/reject decision.
	Set(key string, value interface{}, ttl time.Duration) bool

	// Delete evicts a single key.
	Delete(key string)

	// Clear evicts everything.
	Clear()

	// Close releases the backing store's resources.
	Close()
}
