package interfaces

import "time"

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Cache is an expiring key/value store. Implementations must be safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool) // returns value and found flag; expired entries are evicted
	Set(key string, val []byte, ttl time.Duration)
	Delete(key string)
}
