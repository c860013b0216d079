// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package algorithms

import (
	"context"
	"sort"

	"github.com/tomtom215/skillscout/internal/recommend/ratings"
)

// KNNCFConfig contains configuration for the neighborhood model.
type KNNCFConfig struct {
	// Neighbors is the maximum neighborhood size consulted per prediction.
	// Typical range: 20-100.
	Neighbors int

	// MinNeighbors is the minimum number of usable neighbors. Below it the
	// prediction falls back to the global mean.
	MinNeighbors int
}

// DefaultKNNCFConfig returns default neighborhood configuration.
func DefaultKNNCFConfig() KNNCFConfig {
	return KNNCFConfig{
		Neighbors:    40,
		MinNeighbors: 1,
	}
}

// neighbor is a similar user with their similarity score.
type neighbor struct {
	id         string
	similarity float64
}

// KNNCF implements user-based collaborative filtering over implicit skill
// ratings.
//
// For a target user u and skill s:
//
//	score(u, s) = sum_{v in N(u,s)} sim(u, v) * r(v, s) / sum_{v in N(u,s)} sim(u, v)
//
// where N(u, s) is the set of up to Neighbors users most similar to u that
// have rated s, restricted to positive similarity. When the neighborhood is
// smaller than MinNeighbors, or u is unknown, the global mean is returned.
type KNNCF struct {
	BaseModel
	config KNNCFConfig

	// userVectors stores per-user sparse rating vectors (skill -> score).
	userVectors map[string]map[string]float64

	// skillUsers stores which users rated each skill.
	skillUsers map[string][]string

	mean float64
}

// NewKNNCF creates a new user-based neighborhood model.
func NewKNNCF(cfg KNNCFConfig) *KNNCF {
	if cfg.Neighbors <= 0 {
		cfg.Neighbors = 40
	}
	if cfg.MinNeighbors <= 0 {
		cfg.MinNeighbors = 1
	}

	return &KNNCF{
		BaseModel:   NewBaseModel("knncf"),
		config:      cfg,
		userVectors: make(map[string]map[string]float64),
		skillUsers:  make(map[string][]string),
	}
}

// Fit builds the user vectors and skill inverted index.
func (m *KNNCF) Fit(ctx context.Context, rs []ratings.Rating) error {
	m.acquireFitLock()
	defer m.releaseFitLock()

	if contextCancelled(ctx) {
		return ctx.Err()
	}

	vectors := make(map[string]map[string]float64)
	skillUsers := make(map[string][]string)

	for _, r := range rs {
		vec, ok := vectors[r.UserID]
		if !ok {
			vec = make(map[string]float64)
			vectors[r.UserID] = vec
		}
		if _, seen := vec[r.Skill]; !seen {
			skillUsers[r.Skill] = append(skillUsers[r.Skill], r.UserID)
		}
		vec[r.Skill] = r.Score
	}

	// Deterministic neighborhood order regardless of input order.
	for skill := range skillUsers {
		sort.Strings(skillUsers[skill])
	}

	m.userVectors = vectors
	m.skillUsers = skillUsers
	m.mean = globalMean(rs)
	m.markTrained()
	return nil
}

// Predict estimates the rating userID would assign to skill.
func (m *KNNCF) Predict(userID, skill string) (float64, error) {
	m.acquirePredictLock()
	defer m.releasePredictLock()

	if !m.trained {
		return 0, ErrNotTrained
	}

	target, ok := m.userVectors[userID]
	if !ok {
		return m.mean, nil
	}

	raters := m.skillUsers[skill]
	neighbors := make([]neighbor, 0, len(raters))
	for _, id := range raters {
		if id == userID {
			continue
		}
		sim := sparseCosine(target, m.userVectors[id])
		if sim > 0 {
			neighbors = append(neighbors, neighbor{id: id, similarity: sim})
		}
	}

	if len(neighbors) < m.config.MinNeighbors {
		return m.mean, nil
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].similarity > neighbors[j].similarity
	})
	if len(neighbors) > m.config.Neighbors {
		neighbors = neighbors[:m.config.Neighbors]
	}

	var num, den float64
	for _, n := range neighbors {
		num += n.similarity * m.userVectors[n.id][skill]
		den += n.similarity
	}
	if den == 0 {
		return m.mean, nil
	}
	return num / den, nil
}

// Skills returns the skill identifiers seen during training, sorted.
func (m *KNNCF) Skills() []string {
	m.acquirePredictLock()
	defer m.releasePredictLock()

	skills := make([]string, 0, len(m.skillUsers))
	for s := range m.skillUsers {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return skills
}
