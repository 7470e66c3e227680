package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"starwars-gateway/internal/auth"
	"starwars-gateway/internal/cache"
	"starwars-gateway/internal/cache/l1"
	"starwars-gateway/internal/cache/memory"
	"starwars-gateway/internal/cache/noop"
	"starwars-gateway/internal/catalog"
	"starwars-gateway/internal/config"
	"starwars-gateway/internal/httpserver"
	"starwars-gateway/internal/interfaces"
	"starwars-gateway/internal/upstream"
)

// configFileEnv names the optional YAML configuration file
const configFileEnv = "GATEWAY_CONFIG_FILE"

// CompositionRoot holds all application dependencies and wires them together in one place.
type CompositionRoot struct {
	// Configuration
	Config *config.Config
	Logger *zap.Logger

	// Components
	Cache      interfaces.Cache
	KeyBuilder interfaces.KeyBuilder
	Upstream   *upstream.Client

	// Services
	Auth       *auth.Service
	Catalog    *catalog.Service
	HTTPServer *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Bootstrap logger and configuration
// 2. Configured logger
// 3. Cache backend and upstream client
// 4. Auth and catalog services
// 5. HTTP server
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.initCache(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	if err := root.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	root.HTTPServer = httpserver.NewServer(&root.Config.Server, root.Catalog, root.Auth, root.Logger)

	return root, nil
}

// loadConfig loads configuration using a throwaway production logger, since the real
// logger depends on the loaded log settings
func (r *CompositionRoot) loadConfig() error {
	bootstrap, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = bootstrap.Sync() }()

	cfg, err := config.LoadConfig(os.Getenv(configFileEnv), bootstrap)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// initLogger builds the application logger from the log settings
func (r *CompositionRoot) initLogger() error {
	logger, err := newLogger(&r.Config.Log)
	if err != nil {
		return err
	}
	r.Logger = logger

	if r.Config.UsesDefaultSecret() {
		r.Logger.Warn("Using the built-in development JWT secret; set JWT_SECRET in production")
	}
	return nil
}

// initCache selects the cache backend
func (r *CompositionRoot) initCache() error {
	r.KeyBuilder = cache.NewKeyBuilder()

	cacheCfg := &r.Config.Cache
	switch cacheCfg.Backend {
	case "bigcache":
		bigCache, err := l1.NewBigCache(&cacheCfg.BigCache, cacheCfg.TTL.Max(), r.Logger)
		if err != nil {
			return err
		}
		r.Cache = bigCache
		r.Logger.Info("BigCache initialized", zap.Int("size_mb", cacheCfg.BigCache.Size))
	case "memory":
		r.Cache = memory.NewMemoryCache()
		r.Logger.Info("In-memory cache initialized")
	default:
		r.Cache = noop.NewNoOpCache()
		r.Logger.Info("Caching disabled")
	}
	return nil
}

// initServices initializes the upstream client and application services
func (r *CompositionRoot) initServices() error {
	client, err := upstream.NewClient(&r.Config.Upstream, r.Logger)
	if err != nil {
		return err
	}
	r.Upstream = client

	authCfg := r.Config.Auth
	credentials, err := auth.NewCredentials(authCfg.Username, authCfg.Password)
	if err != nil {
		return err
	}
	tokens := auth.NewTokenService(authCfg.JWTSecret, authCfg.TokenTTL, r.Logger)
	r.Auth = auth.NewService(credentials, tokens, r.Logger)

	r.Catalog = catalog.NewService(
		r.Upstream,
		r.Cache,
		r.KeyBuilder,
		r.Config.Cache.TTL,
		r.Config.Upstream.FanoutConcurrency,
		r.Logger,
	)

	r.Logger.Info("Services initialized",
		zap.String("upstream", r.Config.Upstream.BaseURL),
		zap.String("cache_backend", r.Config.Cache.Backend))
	return nil
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	if bigCache, ok := r.Cache.(*l1.BigCache); ok {
		if err := bigCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
		}
	}

	// Sync logger last so cleanup errors above are flushed
	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
			errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	return errors.Join(errs...)
}
