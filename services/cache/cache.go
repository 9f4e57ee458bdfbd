package cache

import (
	"time"
)

// CacheService stores short-lived markers such as the site cooldown.
// Values expire on their own, so there is no delete.
type CacheService interface {
	// Get returns ErrMiss when the key is absent or expired
	Get(key string) ([]byte, error)

	// Set stores value until expiration elapses
	Set(key string, value []byte, expiration time.Duration) error
}
