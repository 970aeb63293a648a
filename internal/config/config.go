// Package config holds the service configuration. Values are layered:
// defaults, then an optional YAML file, then ARTICLES_* environment
// variables. Command line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const EnvPrefix = "ARTICLES_"

const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

type HTTPSection struct {
	Addr         string        `yaml:"addr"`
	DiagAddr     string        `yaml:"diag_addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that sets those headers.
	TrustProxy bool `yaml:"trust_proxy"`
}

type PaginationSection struct {
	PerPage int `yaml:"per_page"`
}

type StoreSection struct {
	// Driver is either "badger" or "postgres".
	Driver      string `yaml:"driver"`
	BadgerPath  string `yaml:"badger_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// RateLimitSection configures per-client request limiting. RPS of zero
// disables it.
type RateLimitSection struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type LogSection struct {
	Development bool `yaml:"development"`
}

type Config struct {
	HTTP       HTTPSection       `yaml:"http"`
	Pagination PaginationSection `yaml:"pagination"`
	Store      StoreSection      `yaml:"store"`
	RateLimit  RateLimitSection  `yaml:"ratelimit"`
	Log        LogSection        `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPSection{
			Addr:         ":3333",
			DiagAddr:     ":9999",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Pagination: PaginationSection{PerPage: 15},
		Store: StoreSection{
			Driver:      DriverBadger,
			BadgerPath:  "./data/articles",
			PostgresDSN: "host=localhost port=5432 user=postgres password=postgres dbname=articles sslmode=disable",
		},
		RateLimit: RateLimitSection{RPS: 0, Burst: 20},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.HTTP.Addr = getEnv(EnvPrefix+"ADDR", c.HTTP.Addr)
	c.HTTP.DiagAddr = getEnv(EnvPrefix+"DIAG_ADDR", c.HTTP.DiagAddr)
	c.Store.Driver = getEnv(EnvPrefix+"STORE", c.Store.Driver)
	c.Store.BadgerPath = getEnv(EnvPrefix+"BADGER_PATH", c.Store.BadgerPath)
	c.Store.PostgresDSN = getEnv(EnvPrefix+"POSTGRES_DSN", c.Store.PostgresDSN)
	c.HTTP.TrustProxy = getEnvBool(EnvPrefix+"TRUST_PROXY", c.HTTP.TrustProxy)
	c.Log.Development = getEnvBool(EnvPrefix+"LOG_DEV", c.Log.Development)

	var err error
	if c.Pagination.PerPage, err = getEnvInt(EnvPrefix+"PER_PAGE", c.Pagination.PerPage); err != nil {
		return err
	}
	if c.RateLimit.Burst, err = getEnvInt(EnvPrefix+"RATELIMIT_BURST", c.RateLimit.Burst); err != nil {
		return err
	}
	if v := os.Getenv(EnvPrefix + "RATELIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sRATELIMIT_RPS %q: %w", EnvPrefix, v, err)
		}
		c.RateLimit.RPS = rps
	}

	return nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr must not be empty"))
	}
	if strings.TrimSpace(c.HTTP.DiagAddr) == "" {
		errs = append(errs, errors.New("http.diag_addr must not be empty"))
	}
	if c.Pagination.PerPage < 1 {
		errs = append(errs, fmt.Errorf("pagination.per_page must be positive, got %d", c.Pagination.PerPage))
	}
	switch c.Store.Driver {
	case DriverBadger:
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("store.postgres_dsn must be set for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be %q or %q, got %q", DriverBadger, DriverPostgres, c.Store.Driver))
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("ratelimit.rps must not be negative"))
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("ratelimit.burst must be positive when rate limiting is enabled"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}

	return value, nil
}
