// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

// Package config loads and validates the service configuration from
// layered sources: built-in defaults, an optional YAML file, and
// environment variables, in ascending precedence.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/skillscout/internal/logging"
	"github.com/tomtom215/skillscout/internal/recommend"
	"github.com/tomtom215/skillscout/internal/recommend/llm"
	"github.com/tomtom215/skillscout/internal/store"
)

// Config is the complete service configuration. Sections owned by other
// packages are composed rather than mirrored so defaults cannot drift.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Logging   logging.Config   `koanf:"logging"`
	Store     store.Config     `koanf:"store"`
	Recommend recommend.Config `koanf:"recommend"`
	LLM       llm.Config       `koanf:"llm"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host" validate:"required"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"gt=0"`

	// Pagination bounds for list endpoints.
	DefaultPageSize int `koanf:"default_page_size" validate:"min=1"`
	MaxPageSize     int `koanf:"max_page_size" validate:"min=1"`
}

// defaultConfig returns the built-in defaults, overridden by config file
// and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8470,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Logging:   logging.DefaultConfig(),
		Store:     store.Config{Path: "/data/skillscout"},
		Recommend: recommend.DefaultConfig(),
		LLM:       llm.DefaultConfig(),
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if c.Server.MaxPageSize < c.Server.DefaultPageSize {
		return fmt.Errorf("server: max_page_size %d below default_page_size %d",
			c.Server.MaxPageSize, c.Server.DefaultPageSize)
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if c.Recommend.PeerStrategy == recommend.PeerStrategyLLM && c.LLM.APIKey == "" {
		return fmt.Errorf("llm: api_key required for peer_strategy %q", c.Recommend.PeerStrategy)
	}
	return nil
}
