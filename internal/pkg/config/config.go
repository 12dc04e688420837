// Package config loads service configuration from a YAML file, an optional .env file
// and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store names accepted by Config.Store.
const (
	StoreSpanner = "spanner"
	StoreMemory  = "memory"
)

// Config holds the pricing service configuration.
type Config struct {
	// Store selects where rates and rules come from: "spanner" or "memory".
	Store       string `yaml:"store"`
	CatalogFile string `yaml:"catalog_file"`

	Spanner SpannerConfig `yaml:"spanner"`
	GRPC    ServerConfig  `yaml:"grpc"`
	HTTP    ServerConfig  `yaml:"http"`
	Pricing PricingConfig `yaml:"pricing"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
}

// SpannerConfig locates the catalog database.
type SpannerConfig struct {
	Database string `yaml:"database"`
}

// ServerConfig configures a listener.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// PricingConfig tunes price computation.
type PricingConfig struct {
	LookupTimeout     time.Duration `yaml:"lookup_timeout"`
	Retries           int           `yaml:"retries"`
	RetryInitial      time.Duration `yaml:"retry_initial"`
	RetryMax          time.Duration `yaml:"retry_max"`
	BatchConcurrency  int           `yaml:"batch_concurrency"`
	PromotionsEnabled bool          `yaml:"promotions_enabled"`
}

// CacheConfig tunes the provider snapshot cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Store:       StoreSpanner,
		CatalogFile: "catalog.yaml",
		Spanner: SpannerConfig{
			// Local development with the emulator
			Database: "projects/test-project/instances/dev-instance/databases/pricing-db",
		},
		GRPC: ServerConfig{Port: "9090"},
		HTTP: ServerConfig{Port: "8080"},
		Pricing: PricingConfig{
			LookupTimeout:     2 * time.Second,
			Retries:           1,
			RetryInitial:      50 * time.Millisecond,
			RetryMax:          500 * time.Millisecond,
			BatchConcurrency:  8,
			PromotionsEnabled: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    1024,
			TTL:     30 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path (a missing file leaves the defaults), then loads
// .env if present and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Spanner.Database, "SPANNER_DATABASE")
	setString(&c.GRPC.Port, "GRPC_PORT")
	setString(&c.HTTP.Port, "HTTP_PORT")
	setString(&c.Store, "PRICING_STORE")
	setString(&c.CatalogFile, "PRICING_CATALOG")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("PRICING_PROMOTIONS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PRICING_PROMOTIONS_ENABLED: %w", err)
		}
		c.Pricing.PromotionsEnabled = b
	}
	return nil
}

// Validate rejects unusable settings.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSpanner:
		if c.Spanner.Database == "" {
			return errors.New("spanner.database is required for the spanner store")
		}
	case StoreMemory:
		if c.CatalogFile == "" {
			return errors.New("catalog_file is required for the memory store")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.Pricing.Retries < 0 {
		return errors.New("pricing.retries cannot be negative")
	}
	if c.Pricing.BatchConcurrency <= 0 {
		return errors.New("pricing.batch_concurrency must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
