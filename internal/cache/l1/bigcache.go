package l1

import (
	"context"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"starwars-gateway/internal/config"
	"starwars-gateway/internal/interfaces"
	"starwars-gateway/internal/metrics"
	"starwars-gateway/internal/models"
	"starwars-gateway/internal/scheduler"
)

const backendName = "bigcache"

// Ensure BigCache implements interfaces.Cache
var _ interfaces.Cache = (*BigCache)(nil)

// BigCache implements the expiring cache on top of BigCache.
//
// BigCache only knows a global life window, so every value is wrapped in a
// models.CacheEntry carrying its own expiry which is checked on read.
type BigCache struct {
	cache            *bigcache.BigCache
	logger           *zap.Logger
	now              func() time.Time
	cancel           context.CancelFunc
	metricsScheduler *scheduler.Job
}

// Option configures a BigCache
type Option func(*BigCache)

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(bc *BigCache) {
		bc.now = now
	}
}

// NewBigCache creates a new BigCache instance. lifeWindow should be the longest TTL the
// caller will use; BigCache drops anything older than that on its own.
func NewBigCache(bigcacheCfg *config.BigCacheConfig, lifeWindow time.Duration, logger *zap.Logger, opts ...Option) (*BigCache, error) {
	if lifeWindow <= 0 {
		lifeWindow = 10 * time.Minute
	}

	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.HardMaxCacheSize = bigcacheCfg.Size // Size in MB
	cfg.Shards = bigcacheCfg.Shards
	cfg.Verbose = false
	cfg.MaxEntrySize = 64 * 1024

	// One context governs both the bigcache cleanup loop and stats collection.
	ctx, cancel := context.WithCancel(context.Background())
	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		cancel()
		return nil, err
	}

	bc := &BigCache{
		cache:  cache,
		logger: logger,
		now:    time.Now,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(bc)
	}

	bc.startMetricsCollection(ctx, bigcacheCfg.StatsInterval)

	return bc, nil
}

// Get retrieves a live value from cache
func (bc *BigCache) Get(key string) ([]byte, bool) {
	data, err := bc.cache.Get(key)
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) {
			bc.logger.Warn("L1 cache get error", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		bc.logger.Warn("Failed to unmarshal L1 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(backendName, "decode")
		_ = bc.cache.Delete(key) // Remove corrupted entry
		return nil, false
	}

	if entry.IsExpired(bc.now()) {
		_ = bc.cache.Delete(key)
		return nil, false
	}

	return entry.Data, true
}

// Set stores value in cache with TTL. A non-positive ttl is ignored.
func (bc *BigCache) Set(key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(models.NewCacheEntry(val, bc.now(), ttl))
	if err != nil {
		bc.logger.Error("Failed to marshal cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(backendName, "encode")
		return
	}

	if err := bc.cache.Set(key, data); err != nil {
		bc.logger.Error("Failed to set cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(backendName, "write")
	}
}

// Delete removes entry from cache
func (bc *BigCache) Delete(key string) {
	_ = bc.cache.Delete(key)
}

// Len returns the number of stored entries, expired ones included
func (bc *BigCache) Len() int {
	return bc.cache.Len()
}

// Close stops metrics collection and releases the cache
func (bc *BigCache) Close() error {
	bc.stopMetricsCollection()
	bc.cancel()
	return bc.cache.Close()
}

// startMetricsCollection publishes stats now and then every interval until ctx ends
func (bc *BigCache) startMetricsCollection(ctx context.Context, interval time.Duration) {
	bc.metricsScheduler = scheduler.Start(ctx, "bigcache-stats", interval, func(context.Context) {
		bc.updateMetrics()
	}, bc.logger)

	bc.logger.Debug("Started L1 cache metrics collection", zap.Duration("interval", interval))
}

// stopMetricsCollection stops periodic metrics collection
func (bc *BigCache) stopMetricsCollection() {
	if bc.metricsScheduler != nil {
		bc.metricsScheduler.Stop()
		bc.logger.Debug("Stopped L1 cache metrics collection")
	}
}

// updateMetrics publishes entry count and capacity
func (bc *BigCache) updateMetrics() {
	metrics.UpdateCacheStats(backendName, int64(bc.cache.Len()), int64(bc.cache.Capacity()))
}
