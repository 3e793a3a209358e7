// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory, if present, is loaded into the
// process environment first, so every env:"..." override below can also
// live there during local development.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage backends understood by cmd/hostel-api.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StorageBackend selects the record store: sqlite, redis or memory.
	StorageBackend string `yaml:"storage_backend" env:"STORAGE_BACKEND" env-default:"sqlite"`

	// StoragePath is the filesystem path to the SQLite .db file.
	// Only read when StorageBackend is "sqlite".
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`

	Redis      Redis      `yaml:"redis"`
	StoreRetry StoreRetry `yaml:"store_retry"`
	Fees       Fees       `yaml:"fees"`

	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
}

// Redis holds the connection settings for the redis backend.
type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	// Prefix namespaces the collection keys, e.g. "hostel:".
	Prefix string `yaml:"prefix" env:"REDIS_PREFIX" env-default:"hostel:"`
}

// StoreRetry configures the backoff applied to transient store failures.
type StoreRetry struct {
	Attempts  int           `yaml:"attempts" env:"STORE_RETRY_ATTEMPTS" env-default:"4"`
	BaseDelay time.Duration `yaml:"base_delay" env:"STORE_RETRY_BASE_DELAY" env-default:"50ms"`
}

// Fees holds settings for the fee jobs.
type Fees struct {
	// OverdueSweep is a cron spec; empty disables the sweep.
	OverdueSweep string `yaml:"overdue_sweep" env:"FEES_OVERDUE_SWEEP" env-default:"@hourly"`
}

// Validate checks cross-field constraints cleanenv's tags can't express.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendSQLite:
		if c.StoragePath == "" {
			return errors.New("storage_path is required for the sqlite backend")
		}
	case BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown storage_backend %q", c.StorageBackend)
	}
	return nil
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to fatal on failure: if
// this returns, the config is valid.
func MustLoad() *Config {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("cannot read .env: %s", err)
	}

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return cfg
}

// Load parses the YAML file at path, applies env overrides and runs
// Validate.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
