package auth

import (
	"net/http"
	"strings"
)

// AccessTokenParam is the query parameter accepted as a last-resort token source
const AccessTokenParam = "access_token"

// bearerHeaders are checked in order. Some proxies in front of the gateway strip or
// rewrite Authorization, so the frontend also sends the token in the X- variants.
var bearerHeaders = []string{
	"Authorization",
	"X-User-Authorization",
	"X-Authorization",
	"X-Forwarded-Authorization",
}

// ExtractBearer returns the bearer token from the request headers, falling back to the
// access_token query parameter.
func ExtractBearer(r *http.Request) (string, bool) {
	for _, header := range bearerHeaders {
		if token, ok := parseBearer(r.Header.Get(header)); ok {
			return token, true
		}
	}

	if token := strings.TrimSpace(r.URL.Query().Get(AccessTokenParam)); token != "" {
		return token, true
	}

	return "", false
}

// parseBearer extracts the credentials of a "Bearer <token>" header value
func parseBearer(value string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(value), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
