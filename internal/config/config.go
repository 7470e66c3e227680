package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is only suitable for local development. Production deployments must
// set JWT_SECRET or auth.jwt_secret.
const DefaultJWTSecret = "dev-secret-change-me"

// Config represents the main configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
}

type ServerConfig struct {
	Port            string        `yaml:"port" validate:"required,numeric"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	// Login attempts allowed per client IP per minute, 0 disables the limit
	LoginRateLimit int `yaml:"login_rate_limit" validate:"min=0"`
}

type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	// Politeness limit towards the public catalog, 0 disables it
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"min=0"`
	Burst             int     `yaml:"burst" validate:"min=0"`
	// Parallel character lookups per film
	FanoutConcurrency int `yaml:"fanout_concurrency" validate:"min=1"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" validate:"required"`
	TokenTTL  time.Duration `yaml:"token_ttl" validate:"gt=0"`
	Username  string        `yaml:"username" validate:"required"`
	Password  string        `yaml:"password" validate:"required"`
}

type CacheConfig struct {
	Backend  string         `yaml:"backend" validate:"oneof=bigcache memory none"`
	TTL      CacheTTLConfig `yaml:"ttl"`
	BigCache BigCacheConfig `yaml:"bigcache"`
}

type CacheTTLConfig struct {
	FilmList  time.Duration `yaml:"film_list" validate:"min=0"`
	Film      time.Duration `yaml:"film" validate:"min=0"`
	Character time.Duration `yaml:"character" validate:"min=0"`
}

// Max returns the longest configured TTL
func (t CacheTTLConfig) Max() time.Duration {
	longest := t.FilmList
	for _, ttl := range []time.Duration{t.Film, t.Character} {
		if ttl > longest {
			longest = ttl
		}
	}
	return longest
}

type BigCacheConfig struct {
	Size          int           `yaml:"size" validate:"min=1"` // MB
	Shards        int           `yaml:"shards" validate:"min=1"`
	StatsInterval time.Duration `yaml:"stats_interval" validate:"gt=0"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			LoginRateLimit:  10,
		},
		Log: LogConfig{
			Level: "info",
		},
		Upstream: UpstreamConfig{
			BaseURL:           "https://swapi.dev/api",
			Timeout:           15 * time.Second,
			Burst:             1,
			FanoutConcurrency: 8,
		},
		Auth: AuthConfig{
			JWTSecret: DefaultJWTSecret,
			TokenTTL:  time.Hour,
			Username:  "admin",
			Password:  "admin",
		},
		Cache: CacheConfig{
			Backend: "bigcache",
			TTL: CacheTTLConfig{
				FilmList:  60 * time.Second,
				Film:      300 * time.Second,
				Character: 300 * time.Second,
			},
			BigCache: BigCacheConfig{
				Size:          64,
				Shards:        64,
				StatsInterval: 30 * time.Second,
			},
		},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file at
// configPath and environment overrides, in that order.
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	config := Default()

	if configPath != "" {
		logger.Info("Loading configuration", zap.String("path", configPath))
		if err := config.decodeFile(configPath); err != nil {
			return nil, err
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func (c *Config) decodeFile(configPath string) error {
	file, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode YAML config: %w", err)
	}
	return nil
}

// applyEnv overrides selected settings from the environment
func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Upstream.BaseURL = strings.TrimRight(getEnv("SWAPI_BASE_URL", c.Upstream.BaseURL), "/")
	c.Log.Level = strings.ToLower(getEnv("LOG_LEVEL", c.Log.Level))
	c.Cache.Backend = strings.ToLower(getEnv("CACHE_BACKEND", c.Cache.Backend))
}

// Validate checks field constraints
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

// UsesDefaultSecret reports whether the insecure development secret is in use
func (c *Config) UsesDefaultSecret() bool {
	return c.Auth.JWTSecret == DefaultJWTSecret
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
