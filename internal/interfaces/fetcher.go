package interfaces

import (
	"context"
	"net/url"

	"starwars-gateway/internal/models"
)

//go:generate mockgen -package=mock -source=fetcher.go -destination=mock/fetcher.go

// Fetcher retrieves a single upstream document. ref may be a path relative to the
// upstream base URL or an absolute URL taken from another document.
type Fetcher interface {
	Fetch(ctx context.Context, ref string, params url.Values) (models.Document, error)
	ResolveURL(ref string) string
}
