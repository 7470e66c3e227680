package metrics

// ErrorCategory represents a categorized outcome of an upstream request
type ErrorCategory string

const (
	// NoError indicates a successful request
	NoError ErrorCategory = "none"

	// NetworkError indicates network-related issues (timeouts, connection resets, DNS)
	NetworkError ErrorCategory = "network_error"

	// HTTPError indicates the upstream answered with a status >= 400
	HTTPError ErrorCategory = "http_error"

	// DecodeError indicates a 2xx response whose body was not a JSON object
	DecodeError ErrorCategory = "decode_error"

	// CanceledError indicates the caller gave up before the upstream answered
	CanceledError ErrorCategory = "canceled"
)
