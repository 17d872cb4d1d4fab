// Package config defines service configuration and how it is loaded.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and env vars on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/draftrank/internal/adapters/repository"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, receives a copy of every log line.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// StoreBackend selects the item store: memory, json, sqlite or dynamodb.
	StoreBackend string `koanf:"store_backend"`

	JSONPath   string `koanf:"json_path"`
	SQLitePath string `koanf:"sqlite_path"`

	DynamoTable     string `koanf:"dynamo_table"`
	DynamoPartition string `koanf:"dynamo_partition"`
	DynamoRegion    string `koanf:"dynamo_region"`
	DynamoEndpoint  string `koanf:"dynamo_endpoint"`

	// Teams lists the teams /generate samples from, in response order.
	Teams []string `koanf:"teams"`

	// SampleSeed seeds the quintile sampler. Zero seeds from the clock.
	SampleSeed int64 `koanf:"sample_seed"`

	// DedupeSize bounds the idempotency-key cache of /save.
	DedupeSize int `koanf:"dedupe_size"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFile:         "logs/app.log",
		Addr:            ":5000",
		StoreBackend:    "json",
		JSONPath:        "data/items.json",
		SQLitePath:      "data/items.db",
		DynamoTable:     "Items",
		DynamoPartition: "items",
		Teams:           []string{"A", "B"},
		DedupeSize:      10_000,
	}
}

var validBackends = map[string]bool{"memory": true, "json": true, "sqlite": true, "dynamodb": true}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate checks the invariants the rest of the service relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	backend := strings.ToLower(c.StoreBackend)
	if !validBackends[backend] {
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	switch {
	case backend == "json" && strings.TrimSpace(c.JSONPath) == "":
		return fmt.Errorf("%w: json_path is required for the json backend", ErrInvalidConfig)
	case backend == "sqlite" && strings.TrimSpace(c.SQLitePath) == "":
		return fmt.Errorf("%w: sqlite_path is required for the sqlite backend", ErrInvalidConfig)
	case backend == "dynamodb" && strings.TrimSpace(c.DynamoTable) == "":
		return fmt.Errorf("%w: dynamo_table is required for the dynamodb backend", ErrInvalidConfig)
	}
	if len(c.Teams) == 0 {
		return fmt.Errorf("%w: at least one team is required", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Teams))
	for _, t := range c.Teams {
		if strings.TrimSpace(t) == "" || seen[t] {
			return fmt.Errorf("%w: teams must be unique and non-empty", ErrInvalidConfig)
		}
		seen[t] = true
	}
	if c.DedupeSize < 0 {
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Store returns the repository settings selected by c.
func (c *Config) Store() repository.Config {
	return repository.Config{
		Backend:    c.StoreBackend,
		JSONPath:   c.JSONPath,
		SQLitePath: c.SQLitePath,
		Dynamo: repository.DynamoConfig{
			Table:     c.DynamoTable,
			Partition: c.DynamoPartition,
			Region:    c.DynamoRegion,
			Endpoint:  c.DynamoEndpoint,
		},
	}
}
