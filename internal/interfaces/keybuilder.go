package interfaces

import "net/url"

// KeyBuilder derives cache keys for upstream requests
type KeyBuilder interface {
	Build(resourceURL string, params url.Values) string
}
