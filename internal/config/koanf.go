// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/skillscout/config.yaml",
	"/etc/skillscout/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces this service's environment variables.
const envPrefix = "SKILLSCOUT_"

// Load builds the configuration from layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file
//  3. Environment variables: highest priority, SKILLSCOUT_ prefixed
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first readable config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envKeyMappings resolves variables whose koanf path cannot be derived by
// splitting on the first underscore (nested sections, multi-word keys).
var envKeyMappings = map[string]string{
	"server_rate_limit_reqs":        "server.rate_limit_reqs",
	"server_rate_limit_window":      "server.rate_limit_window",
	"server_cors_origins":           "server.cors_origins",
	"server_default_page_size":      "server.default_page_size",
	"server_max_page_size":          "server.max_page_size",
	"store_in_memory":               "store.in_memory",
	"recommend_top_n_content":       "recommend.top_n_content",
	"recommend_default_k":           "recommend.default_k",
	"recommend_fetch_timeout":       "recommend.fetch_timeout",
	"recommend_peer_strategy":       "recommend.peer_strategy",
	"recommend_knncf_neighbors":     "recommend.knncf.neighbors",
	"recommend_knncf_min_neighbors": "recommend.knncf.min_neighbors",
	"recommend_svd_factors":         "recommend.svd.factors",
	"recommend_svd_epochs":          "recommend.svd.epochs",
	"recommend_svd_learning_rate":   "recommend.svd.learning_rate",
	"recommend_svd_reg":             "recommend.svd.reg",
	"recommend_svd_seed":            "recommend.svd.seed",
	"llm_base_url":                  "llm.base_url",
	"llm_api_key":                   "llm.api_key",
}

// envTransform maps SKILLSCOUT_SERVER_PORT to server.port, consulting the
// explicit table first.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if mapped, ok := envKeyMappings[key]; ok {
		return mapped
	}
	if i := strings.Index(key, "_"); i > 0 {
		return key[:i] + "." + key[i+1:]
	}
	return key
}
