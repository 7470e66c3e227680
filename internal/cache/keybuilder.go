package cache

import (
	"crypto/md5"
	"fmt"
	"net/url"

	"starwars-gateway/internal/interfaces"
)

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates a cache key for an upstream GET.
//
// Without query parameters the key is the resource URL itself, so documents referenced
// by URL from other documents share entries with direct lookups. Parameters are
// canonicalised by url.Values.Encode (sorted by key) and hashed.
func (kb *KeyBuilderImpl) Build(resourceURL string, params url.Values) string {
	if len(params) == 0 {
		return resourceURL
	}

	hasher := md5.New()
	hasher.Write([]byte(params.Encode()))

	return fmt.Sprintf("%s|%x", resourceURL, hasher.Sum(nil))
}
