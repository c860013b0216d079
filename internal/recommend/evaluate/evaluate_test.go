// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package evaluate

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/skillscout/internal/recommend/ratings"
)

// constantModel predicts a fixed score regardless of input.
type constantModel struct {
	name  string
	score float64
	fits  int
}

func (m *constantModel) Name() string { return m.name }

func (m *constantModel) Fit(_ context.Context, _ []ratings.Rating) error {
	m.fits++
	return nil
}

func (m *constantModel) Predict(_, _ string) (float64, error) {
	return m.score, nil
}

// failingModel always fails to fit.
type failingModel struct{}

func (failingModel) Name() string                                { return "failing" }
func (failingModel) Fit(context.Context, []ratings.Rating) error { return errors.New("boom") }
func (failingModel) Predict(string, string) (float64, error)     { return 0, nil }

func fourRatings(score float64) []ratings.Rating {
	return []ratings.Rating{
		{UserID: "u1", Skill: "go", Score: score},
		{UserID: "u2", Skill: "go", Score: score},
		{UserID: "u3", Skill: "sql", Score: score},
		{UserID: "u4", Skill: "sql", Score: score},
	}
}

func TestCrossValidateEmptyRatings(t *testing.T) {
	report, err := CrossValidate(context.Background(), nil, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("CrossValidate() error = %v", err)
	}
	if report.Err != "no valid ratings data available" {
		t.Errorf("report.Err = %q", report.Err)
	}
	if report.Models != nil {
		t.Errorf("report.Models = %v, want nil", report.Models)
	}
}

func TestCrossValidateExactPredictorScoresZero(t *testing.T) {
	m := &constantModel{name: "const", score: 3}
	report, err := CrossValidate(context.Background(), []Model{m}, fourRatings(3), DefaultOptions())
	if err != nil {
		t.Fatalf("CrossValidate() error = %v", err)
	}

	scores, ok := report.Models["const"]
	if !ok {
		t.Fatalf("report.Models missing const: %v", report.Models)
	}
	if scores.RMSE != 0 || scores.MAE != 0 {
		t.Errorf("scores = %+v, want zero error", scores)
	}
}

func TestCrossValidateKnownError(t *testing.T) {
	// Constant 2 against constant truth 3: every prediction is off by
	// exactly 1, so RMSE = MAE = 1 regardless of fold assignment.
	m := &constantModel{name: "const", score: 2}
	report, err := CrossValidate(context.Background(), []Model{m}, fourRatings(3), DefaultOptions())
	if err != nil {
		t.Fatalf("CrossValidate() error = %v", err)
	}

	scores := report.Models["const"]
	if scores.RMSE != 1 || scores.MAE != 1 {
		t.Errorf("scores = %+v, want RMSE=1 MAE=1", scores)
	}
}

func TestCrossValidateFoldsCappedAtRatingCount(t *testing.T) {
	m := &constantModel{name: "const", score: 3}
	opts := Options{Folds: 5, Seed: 1}

	// Four ratings, five requested folds: expect four fits.
	if _, err := CrossValidate(context.Background(), []Model{m}, fourRatings(3), opts); err != nil {
		t.Fatalf("CrossValidate() error = %v", err)
	}
	if m.fits != 4 {
		t.Errorf("model fit %d times, want 4", m.fits)
	}
}

func TestCrossValidateFitFailureIsAnError(t *testing.T) {
	_, err := CrossValidate(context.Background(), []Model{failingModel{}}, fourRatings(3), DefaultOptions())
	if err == nil {
		t.Fatal("CrossValidate() succeeded with failing model")
	}
}

func TestCrossValidateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &constantModel{name: "const", score: 3}
	if _, err := CrossValidate(ctx, []Model{m}, fourRatings(3), DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("CrossValidate() error = %v, want context.Canceled", err)
	}
}
