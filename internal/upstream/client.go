package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"starwars-gateway/internal/config"
	"starwars-gateway/internal/interfaces"
	"starwars-gateway/internal/metrics"
	"starwars-gateway/internal/models"
)

const (
	maxBodySize   = 10 << 20
	maxLoggedBody = 1024
)

// Ensure Client implements interfaces.Fetcher
var _ interfaces.Fetcher = (*Client)(nil)

// Client performs single-attempt GETs against the upstream catalog
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for the configured base URL
func NewClient(cfg *config.UpstreamConfig, logger *zap.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid upstream base URL %q", cfg.BaseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ResolveURL turns a reference into an absolute URL. Absolute references, such as
// character URLs embedded in film documents, are returned unchanged.
func (c *Client) ResolveURL(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	return c.baseURL + "/" + strings.TrimLeft(ref, "/")
}

// Fetch GETs a single document. Failures are either *Error (the upstream answered with
// an error status or an unusable body) or wrap ErrUnavailable (no answer at all).
func (c *Client) Fetch(ctx context.Context, ref string, params url.Values) (models.Document, error) {
	category := metrics.NoError
	done := metrics.TimeUpstreamRequest()
	defer func() { done(category) }()

	target, err := url.Parse(c.ResolveURL(ref))
	if err != nil {
		category = metrics.DecodeError
		return nil, fmt.Errorf("invalid upstream reference %q: %w", ref, ErrMalformed)
	}
	if len(params) > 0 {
		query := target.Query()
		for key, values := range params {
			for _, v := range values {
				query.Add(key, v)
			}
		}
		target.RawQuery = query.Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			category = metrics.CanceledError
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		category = metrics.DecodeError
		return nil, fmt.Errorf("failed to create request: %w", ErrMalformed)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		category = metrics.NetworkError
		if errors.Is(ctx.Err(), context.Canceled) {
			category = metrics.CanceledError
		}
		c.logger.Debug("Upstream request failed", zap.String("url", target.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		category = metrics.NetworkError
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrUnavailable, err)
	}

	c.logger.Debug("Upstream response",
		zap.String("url", target.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		category = metrics.HTTPError
		return nil, &Error{Status: resp.StatusCode, Body: truncate(body, maxLoggedBody)}
	}

	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		category = metrics.DecodeError
		return nil, &Error{Status: resp.StatusCode, Body: truncate(body, maxLoggedBody), Err: ErrMalformed}
	}

	return doc, nil
}
