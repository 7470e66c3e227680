package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"starwars-gateway/internal/config"
	"starwars-gateway/internal/interfaces"
	"starwars-gateway/internal/metrics"
	"starwars-gateway/internal/models"
	"starwars-gateway/internal/upstream"
)

const filmsPath = "/films/"

var filmIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Service aggregates upstream film and character documents behind a shared cache
type Service struct {
	fetcher    interfaces.Fetcher
	cache      interfaces.Cache
	keyBuilder interfaces.KeyBuilder
	ttl        config.CacheTTLConfig
	fanout     int
	logger     *zap.Logger

	group singleflight.Group
}

// NewService creates a catalog service
func NewService(
	fetcher interfaces.Fetcher,
	cache interfaces.Cache,
	keyBuilder interfaces.KeyBuilder,
	ttl config.CacheTTLConfig,
	fanout int,
	logger *zap.Logger,
) *Service {
	if fanout < 1 {
		fanout = 1
	}
	return &Service{
		fetcher:    fetcher,
		cache:      cache,
		keyBuilder: keyBuilder,
		ttl:        ttl,
		fanout:     fanout,
		logger:     logger,
	}
}

// fetchThrough returns the cached document for ref or fetches, prepares and caches it.
// Concurrent misses on one key share a single upstream call. Every caller decodes its
// own copy, so returned documents may be mutated freely.
func (s *Service) fetchThrough(
	ctx context.Context,
	resource models.Resource,
	ref string,
	ttl time.Duration,
	prepare func(models.Document),
) (models.Document, error) {
	key := s.keyBuilder.Build(s.fetcher.ResolveURL(ref), nil)

	if raw, found := s.cache.Get(key); found {
		doc, err := decodeDocument(raw)
		if err == nil {
			metrics.RecordCacheHit(string(resource))
			return doc, nil
		}
		s.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("catalog", "decode")
		s.cache.Delete(key)
	}
	metrics.RecordCacheMiss(string(resource))

	raw, err, shared := s.group.Do(key, func() (interface{}, error) {
		doc, err := s.fetcher.Fetch(ctx, ref, nil)
		if err != nil {
			return nil, err
		}
		if prepare != nil {
			prepare(doc)
		}

		encoded, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: encode %s: %w", ErrInternal, resource, err)
		}
		s.cache.Set(key, encoded, ttl)
		return encoded, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("Coalesced upstream fetch", zap.String("key", key))
	}

	doc, err := decodeDocument(raw.([]byte))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return doc, nil
}

// fetchFilm loads a single film, backfilling its id from the lookup id
func (s *Service) fetchFilm(ctx context.Context, filmID string) (models.Document, error) {
	if !filmIDPattern.MatchString(filmID) {
		return nil, ErrFilmNotFound
	}

	doc, err := s.fetchThrough(ctx, models.ResourceFilm, filmsPath+filmID+"/", s.ttl.Film, func(doc models.Document) {
		doc.BackfillID(filmID)
	})
	if err != nil {
		if upstream.IsNotFound(err) {
			return nil, ErrFilmNotFound
		}
		return nil, s.upstreamFailure("film", err)
	}
	return doc, nil
}

// upstreamFailure maps a fetch error to the catalog error space
func (s *Service) upstreamFailure(resource string, err error) error {
	if errors.Is(err, ErrInternal) {
		return err
	}
	s.logger.Warn("Upstream request failed", zap.String("resource", resource), zap.Error(err))
	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}

func decodeDocument(raw []byte) (models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("cached document is null")
	}
	return doc, nil
}
