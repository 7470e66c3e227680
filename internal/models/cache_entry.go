package models

import "time"

// CacheEntry is the envelope stored by byte-oriented cache backends
type CacheEntry struct {
	Data      []byte `json:"data"`
	CreatedAt int64  `json:"created_at"` // unix millis
	ExpiresAt int64  `json:"expires_at"` // unix millis
}

// NewCacheEntry builds an entry that expires ttl after now
func NewCacheEntry(data []byte, now time.Time, ttl time.Duration) CacheEntry {
	return CacheEntry{
		Data:      data,
		CreatedAt: now.UnixMilli(),
		ExpiresAt: now.Add(ttl).UnixMilli(),
	}
}

// IsExpired reports whether the entry is past its expiry at the given time
func (e CacheEntry) IsExpired(now time.Time) bool {
	return now.UnixMilli() > e.ExpiresAt
}
