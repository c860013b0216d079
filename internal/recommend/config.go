// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package recommend

import (
	"fmt"
	"time"
)

// Peer strategy names accepted by Config.PeerStrategy.
const (
	PeerStrategyKNN = "knn"
	PeerStrategyLLM = "llm"
)

// Config controls the recommendation engine. Zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// TopNContent caps the content recommendation list length.
	TopNContent int `koanf:"top_n_content"`

	// DefaultK is the peer neighbor count used when a request does not
	// specify one.
	DefaultK int `koanf:"default_k"`

	// FetchTimeout bounds each backing-store read issued by the engine.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// PeerStrategy selects the peer recommendation path: "knn" ranks by
	// profile-vector cosine similarity locally, "llm" delegates to the
	// configured language-model recommender with KNN as fallback.
	PeerStrategy string `koanf:"peer_strategy"`

	// KNNCF configures the neighborhood collaborative-filtering model.
	KNNCF KNNCFConfig `koanf:"knncf"`

	// SVD configures the latent-factor model.
	SVD SVDConfig `koanf:"svd"`
}

// KNNCFConfig holds the user-based neighborhood model parameters.
type KNNCFConfig struct {
	// Neighbors is the maximum neighborhood size consulted per prediction.
	Neighbors int `koanf:"neighbors"`

	// MinNeighbors is the minimum number of usable neighbors before the
	// model falls back to the global mean.
	MinNeighbors int `koanf:"min_neighbors"`
}

// SVDConfig holds the stochastic gradient descent parameters for the
// latent-factor model.
type SVDConfig struct {
	Factors      int     `koanf:"factors"`
	Epochs       int     `koanf:"epochs"`
	LearningRate float64 `koanf:"learning_rate"`
	Reg          float64 `koanf:"reg"`
	Seed         int64   `koanf:"seed"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		TopNContent:  10,
		DefaultK:     5,
		FetchTimeout: 10 * time.Second,
		PeerStrategy: PeerStrategyKNN,
		KNNCF: KNNCFConfig{
			Neighbors:    40,
			MinNeighbors: 1,
		},
		SVD: SVDConfig{
			Factors:      100,
			Epochs:       20,
			LearningRate: 0.005,
			Reg:          0.02,
			Seed:         1,
		},
	}
}

// Validate checks the configuration for values that would make the engine
// misbehave rather than merely perform badly.
func (c Config) Validate() error {
	if c.TopNContent < 1 {
		return fmt.Errorf("top_n_content must be >= 1, got %d", c.TopNContent)
	}
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be >= 1, got %d", c.DefaultK)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	switch c.PeerStrategy {
	case PeerStrategyKNN, PeerStrategyLLM:
	default:
		return fmt.Errorf("peer_strategy must be %q or %q, got %q",
			PeerStrategyKNN, PeerStrategyLLM, c.PeerStrategy)
	}
	if c.KNNCF.Neighbors < 1 {
		return fmt.Errorf("knncf.neighbors must be >= 1, got %d", c.KNNCF.Neighbors)
	}
	if c.KNNCF.MinNeighbors < 1 {
		return fmt.Errorf("knncf.min_neighbors must be >= 1, got %d", c.KNNCF.MinNeighbors)
	}
	if c.SVD.Factors < 1 {
		return fmt.Errorf("svd.factors must be >= 1, got %d", c.SVD.Factors)
	}
	if c.SVD.Epochs < 1 {
		return fmt.Errorf("svd.epochs must be >= 1, got %d", c.SVD.Epochs)
	}
	if c.SVD.LearningRate <= 0 {
		return fmt.Errorf("svd.learning_rate must be positive, got %g", c.SVD.LearningRate)
	}
	if c.SVD.Reg < 0 {
		return fmt.Errorf("svd.reg must be non-negative, got %g", c.SVD.Reg)
	}
	return nil
}
