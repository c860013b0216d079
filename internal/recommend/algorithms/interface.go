// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

// Package algorithms implements the trained collaborative-filtering models.
//
// Both models consume the implicit (user, skill, score) ratings produced by
// the ratings package:
//
//   - KNNCF: user-based neighborhood model, cosine similarity over sparse
//     rating vectors, weighted-average prediction with global-mean fallback
//   - SVD: Funk-style latent factor model fit by stochastic gradient descent
//
// # Thread Safety
//
// All models are safe for concurrent use. Fit acquires an exclusive lock
// while prediction uses a shared lock.
package algorithms

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/tomtom215/skillscout/internal/recommend/ratings"
)

// ErrNotTrained is returned by predictions against a model that has not
// been fit yet.
var ErrNotTrained = errors.New("model not trained")

// Model is a trainable rating predictor over (user, skill) pairs.
type Model interface {
	// Name returns the model identifier.
	Name() string

	// Fit trains the model on the given ratings, replacing any prior state.
	Fit(ctx context.Context, rs []ratings.Rating) error

	// IsTrained reports whether Fit has completed at least once.
	IsTrained() bool

	// Predict estimates the rating user userID would assign to skill.
	// Unknown users and skills degrade toward the global mean rather
	// than erroring; only an untrained model errors.
	Predict(userID, skill string) (float64, error)

	// Skills returns the skill identifiers seen during training.
	Skills() []string
}

// BaseModel provides common state and locking for all models.
type BaseModel struct {
	name      string
	trained   bool
	version   int
	lastFitAt time.Time
	mu        sync.RWMutex
}

// NewBaseModel creates a new base model with the given name.
func NewBaseModel(name string) BaseModel {
	return BaseModel{name: name}
}

// Name returns the model identifier.
func (b *BaseModel) Name() string {
	return b.name
}

// IsTrained reports whether the model has been fit.
func (b *BaseModel) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// Version returns the fit generation, incremented on every Fit.
func (b *BaseModel) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LastFitAt returns when the model was last fit.
func (b *BaseModel) LastFitAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastFitAt
}

// markTrained updates the trained state.
// Must be called while holding the fit lock (acquireFitLock).
func (b *BaseModel) markTrained() {
	b.trained = true
	b.version++
	b.lastFitAt = time.Now()
}

// acquireFitLock acquires the exclusive training lock.
func (b *BaseModel) acquireFitLock() {
	b.mu.Lock()
}

// releaseFitLock releases the exclusive training lock.
func (b *BaseModel) releaseFitLock() {
	b.mu.Unlock()
}

// acquirePredictLock acquires the shared prediction lock.
func (b *BaseModel) acquirePredictLock() {
	b.mu.RLock()
}

// releasePredictLock releases the shared prediction lock.
func (b *BaseModel) releasePredictLock() {
	b.mu.RUnlock()
}

// sparseCosine computes cosine similarity between two sparse rating vectors.
func sparseCosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller map for the dot product.
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, normA, normB float64
	for k, va := range a {
		normA += va * va
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// globalMean returns the mean score over all ratings, 0 for an empty set.
func globalMean(rs []ratings.Rating) float64 {
	if len(rs) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rs {
		sum += r.Score
	}
	return sum / float64(len(rs))
}

// contextCancelled checks if the context has been canceled.
func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Ensure all models implement the interface.
var (
	_ Model = (*KNNCF)(nil)
	_ Model = (*SVD)(nil)
)
