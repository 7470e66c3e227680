package catalog

import "errors"

var (
	// ErrFilmNotFound is returned when upstream does not know the film, or the id is not
	// a plausible film id
	ErrFilmNotFound = errors.New("film not found")

	// ErrUpstreamUnavailable covers every upstream failure other than a missing film
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInternal marks payloads the gateway cannot interpret
	ErrInternal = errors.New("internal error")
)
