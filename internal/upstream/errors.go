package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable covers transport failures: DNS, refused connections, timeouts
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrMalformed marks a response or reference that could not be used as a document
	ErrMalformed = errors.New("malformed upstream payload")
)

// Error is returned when the upstream answered but the answer is unusable: a status
// >= 400, or a body that is not a JSON object. Body is kept for logs only.
type Error struct {
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err carries an upstream 404
func IsNotFound(err error) bool {
	var upstreamErr *Error
	return errors.As(err, &upstreamErr) && upstreamErr.Status == http.StatusNotFound
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
