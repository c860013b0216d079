// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

// Package main is the entry point for the Skillscout server application.
//
// Skillscout recommends courses and study peers to students based on their
// skill profiles and interaction history. It serves a REST API backed by an
// embedded BadgerDB store, with three recommendation strategies:
//
//   - Content matching: keyword overlap between a user's skills/interests
//     and the course catalog
//   - Peer matching: K-nearest-neighbour search over profile vectors, with
//     an optional LLM-backed strategy that falls back to KNN on failure
//   - Skill prediction: collaborative filtering (user-based KNN and SVD
//     matrix factorization) over implicit ratings derived from interaction
//     counts and skill breadth
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading from defaults, config file, and
//     environment variables (Koanf v2)
//  2. Store: embedded BadgerDB holding profiles, students, and the catalog
//  3. LLM client: optional Gemini-backed peer recommender with a circuit
//     breaker (only when recommend.peer_strategy is "llm")
//  4. Recommendation engine: lazily trains its models from the store
//  5. HTTP server: Chi router under a suture supervision tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables with the SKILLSCOUT_ prefix
//   - Config file (config.yaml, or the path in CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Closes the store so Badger can flush its value log
//
// # Example Usage
//
// Development with an in-memory store:
//
//	export SKILLSCOUT_STORE_IN_MEMORY=true
//	export SKILLSCOUT_LOG_LEVEL=debug
//	./skillscout
//
// Production with the LLM peer strategy:
//
//	export SKILLSCOUT_STORE_PATH=/data/skillscout
//	export SKILLSCOUT_RECOMMEND_PEER_STRATEGY=llm
//	export SKILLSCOUT_LLM_API_KEY=your-gemini-api-key
//	./skillscout
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/skillscout/internal/api"
	"github.com/tomtom215/skillscout/internal/config"
	"github.com/tomtom215/skillscout/internal/logging"
	"github.com/tomtom215/skillscout/internal/recommend"
	"github.com/tomtom215/skillscout/internal/recommend/llm"
	"github.com/tomtom215/skillscout/internal/store"
	"github.com/tomtom215/skillscout/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)

	logging.Info().
		Str("store_path", cfg.Store.Path).
		Bool("in_memory", cfg.Store.InMemory).
		Str("peer_strategy", cfg.Recommend.PeerStrategy).
		Msg("Configuration loaded")

	st, err := store.Open(cfg.Store, logging.WithComponent("store"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	logging.Info().Msg("Store opened successfully")

	deps := recommend.Deps{
		Profiles: st,
		Contents: st,
		Students: st,
		Logger:   logging.WithComponent("recommend"),
	}
	if cfg.Recommend.PeerStrategy == recommend.PeerStrategyLLM {
		deps.Peers = llm.NewClient(cfg.LLM, logging.WithComponent("llm"))
		logging.Info().
			Str("model", cfg.LLM.Model).
			Msg("LLM peer recommender enabled")
	}

	engine, err := recommend.NewEngine(cfg.Recommend, deps)
	if err != nil {
		if closeErr := st.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing store")
		}
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	handlers := api.NewHandlers(engine, st, cfg.Server.DefaultPageSize, cfg.Server.MaxPageSize)
	router := api.NewRouter(handlers, api.RouterConfig{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
		Timeout:         cfg.Server.Timeout,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The slog adapter bridges zerolog to slog for sutureslog compatibility
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddDataService(supervisor.NewStoreService(st))
	tree.AddAPIService(supervisor.NewHTTPService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
