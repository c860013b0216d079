// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

// Package evaluate runs k-fold cross-validation over rating predictors.
//
// The package deliberately defines its own Model interface rather than
// importing one: anything that can fit ratings and predict scores can be
// evaluated, including test doubles.
package evaluate

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/tomtom215/skillscout/internal/recommend/ratings"
)

// Model is a trainable rating predictor under evaluation.
type Model interface {
	Name() string
	Fit(ctx context.Context, rs []ratings.Rating) error
	Predict(userID, skill string) (float64, error)
}

// Scores holds the pooled error metrics for one model across all folds.
type Scores struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
}

// Report is the evaluation outcome. Either Models is populated or Err
// carries a human-readable reason the evaluation could not run; the JSON
// shape mirrors that, omitting whichever side is empty.
type Report struct {
	Models map[string]Scores `json:"models,omitempty"`
	Err    string            `json:"error,omitempty"`
}

// Options controls the cross-validation run.
type Options struct {
	// Folds is the number of partitions. Capped at the rating count.
	Folds int

	// Seed drives the shuffle that assigns ratings to folds.
	Seed int64
}

// DefaultOptions returns the standard 5-fold setup.
func DefaultOptions() Options {
	return Options{Folds: 5, Seed: 1}
}

// errNoRatings is the report error for an empty or unusable rating set.
const errNoRatings = "no valid ratings data available"

// CrossValidate shuffles the ratings once, partitions them into folds, and
// for each fold fits every model on the remainder and predicts the held-out
// ratings. Errors are pooled across folds before computing RMSE and MAE,
// both rounded to two decimals.
//
// Fewer than two ratings cannot be split and yield a Report with Err set.
// A model that fails to fit or predict aborts with a real error: that is an
// engineering failure, not a data condition.
func CrossValidate(ctx context.Context, models []Model, rs []ratings.Rating, opts Options) (Report, error) {
	if len(rs) < 2 {
		return Report{Err: errNoRatings}, nil
	}
	if opts.Folds < 2 {
		opts.Folds = 2
	}
	if opts.Folds > len(rs) {
		opts.Folds = len(rs)
	}

	shuffled := make([]ratings.Rating, len(rs))
	copy(shuffled, rs)
	rng := rand.New(rand.NewSource(opts.Seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	folds := partition(shuffled, opts.Folds)

	out := make(map[string]Scores, len(models))
	for _, model := range models {
		var sqSum, absSum float64
		var n int

		for i := range folds {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}

			train := concatExcept(folds, i)
			if err := model.Fit(ctx, train); err != nil {
				return Report{}, fmt.Errorf("fit %s fold %d: %w", model.Name(), i, err)
			}
			for _, r := range folds[i] {
				pred, err := model.Predict(r.UserID, r.Skill)
				if err != nil {
					return Report{}, fmt.Errorf("predict %s fold %d: %w", model.Name(), i, err)
				}
				diff := pred - r.Score
				sqSum += diff * diff
				absSum += math.Abs(diff)
				n++
			}
		}

		out[model.Name()] = Scores{
			RMSE: round2(math.Sqrt(sqSum / float64(n))),
			MAE:  round2(absSum / float64(n)),
		}
	}

	return Report{Models: out}, nil
}

// partition splits rs into k contiguous folds of near-equal size.
func partition(rs []ratings.Rating, k int) [][]ratings.Rating {
	folds := make([][]ratings.Rating, k)
	base, extra := len(rs)/k, len(rs)%k
	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < extra {
			size++
		}
		folds[i] = rs[start : start+size]
		start += size
	}
	return folds
}

// concatExcept joins all folds but the one at skip.
func concatExcept(folds [][]ratings.Rating, skip int) []ratings.Rating {
	var total int
	for i, f := range folds {
		if i != skip {
			total += len(f)
		}
	}
	out := make([]ratings.Rating, 0, total)
	for i, f := range folds {
		if i != skip {
			out = append(out, f...)
		}
	}
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
