// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package algorithms

import (
	"context"
	"math/rand"
	"sort"

	"github.com/tomtom215/skillscout/internal/recommend/ratings"
)

// SVDConfig contains the gradient descent hyperparameters.
type SVDConfig struct {
	// Factors is the latent dimensionality.
	Factors int

	// Epochs is the number of full passes over the ratings.
	Epochs int

	// LearningRate is the SGD step size.
	LearningRate float64

	// Reg is the L2 regularization strength applied to biases and factors.
	Reg float64

	// Seed seeds factor initialization and per-epoch shuffling, making
	// training reproducible.
	Seed int64
}

// DefaultSVDConfig returns default latent-factor configuration.
func DefaultSVDConfig() SVDConfig {
	return SVDConfig{
		Factors:      100,
		Epochs:       20,
		LearningRate: 0.005,
		Reg:          0.02,
		Seed:         1,
	}
}

// SVD implements a Funk-style matrix factorization over implicit skill
// ratings, fit by stochastic gradient descent on
//
//	pred(u, s) = mean + bu[u] + bs[s] + pu[u] . qs[s]
//
// Predictions are clipped to [0, 5]. Unknown users or skills contribute
// only the terms that exist, degrading to the global mean when both sides
// are unknown.
type SVD struct {
	BaseModel
	config SVDConfig

	userIndex  map[string]int
	skillIndex map[string]int
	skills     []string

	mean        float64
	userBias    []float64
	skillBias   []float64
	userFactor  [][]float64
	skillFactor [][]float64
}

// NewSVD creates a new latent-factor model.
func NewSVD(cfg SVDConfig) *SVD {
	if cfg.Factors <= 0 {
		cfg.Factors = 100
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = 20
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.005
	}
	if cfg.Reg < 0 {
		cfg.Reg = 0.02
	}

	return &SVD{
		BaseModel: NewBaseModel("svd"),
		config:    cfg,
	}
}

// Fit runs SGD over the ratings. Cancellation is honored between epochs;
// an aborted fit leaves the previous trained state intact.
func (m *SVD) Fit(ctx context.Context, rs []ratings.Rating) error {
	m.acquireFitLock()
	defer m.releaseFitLock()

	userIndex := make(map[string]int)
	skillIndex := make(map[string]int)
	for _, r := range rs {
		if _, ok := userIndex[r.UserID]; !ok {
			userIndex[r.UserID] = len(userIndex)
		}
		if _, ok := skillIndex[r.Skill]; !ok {
			skillIndex[r.Skill] = len(skillIndex)
		}
	}

	rng := rand.New(rand.NewSource(m.config.Seed))
	f := m.config.Factors

	userBias := make([]float64, len(userIndex))
	skillBias := make([]float64, len(skillIndex))
	userFactor := initFactors(rng, len(userIndex), f)
	skillFactor := initFactors(rng, len(skillIndex), f)
	mean := globalMean(rs)

	order := rng.Perm(len(rs))
	lr, reg := m.config.LearningRate, m.config.Reg

	for epoch := 0; epoch < m.config.Epochs; epoch++ {
		if contextCancelled(ctx) {
			return ctx.Err()
		}
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		for _, idx := range order {
			r := rs[idx]
			ui := userIndex[r.UserID]
			si := skillIndex[r.Skill]

			pu, qs := userFactor[ui], skillFactor[si]
			var dot float64
			for k := 0; k < f; k++ {
				dot += pu[k] * qs[k]
			}
			err := r.Score - (mean + userBias[ui] + skillBias[si] + dot)

			userBias[ui] += lr * (err - reg*userBias[ui])
			skillBias[si] += lr * (err - reg*skillBias[si])
			for k := 0; k < f; k++ {
				puk, qsk := pu[k], qs[k]
				pu[k] += lr * (err*qsk - reg*puk)
				qs[k] += lr * (err*puk - reg*qsk)
			}
		}
	}

	skills := make([]string, len(skillIndex))
	for s, i := range skillIndex {
		skills[i] = s
	}
	sort.Strings(skills)

	m.userIndex = userIndex
	m.skillIndex = skillIndex
	m.skills = skills
	m.mean = mean
	m.userBias = userBias
	m.skillBias = skillBias
	m.userFactor = userFactor
	m.skillFactor = skillFactor
	m.markTrained()
	return nil
}

// Predict estimates the rating userID would assign to skill, clipped to
// [0, 5].
func (m *SVD) Predict(userID, skill string) (float64, error) {
	m.acquirePredictLock()
	defer m.releasePredictLock()

	if !m.trained {
		return 0, ErrNotTrained
	}

	pred := m.mean
	ui, knownUser := m.userIndex[userID]
	si, knownSkill := m.skillIndex[skill]

	if knownUser {
		pred += m.userBias[ui]
	}
	if knownSkill {
		pred += m.skillBias[si]
	}
	if knownUser && knownSkill {
		pu, qs := m.userFactor[ui], m.skillFactor[si]
		for k := range pu {
			pred += pu[k] * qs[k]
		}
	}

	if pred < 0 {
		pred = 0
	}
	if pred > 5 {
		pred = 5
	}
	return pred, nil
}

// Skills returns the skill identifiers seen during training, sorted.
func (m *SVD) Skills() []string {
	m.acquirePredictLock()
	defer m.releasePredictLock()
	return m.skills
}

// initFactors draws n factor vectors from a small normal distribution.
func initFactors(rng *rand.Rand, n, f int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		vec := make([]float64, f)
		for k := range vec {
			vec[k] = rng.NormFloat64() * 0.1
		}
		out[i] = vec
	}
	return out
}
