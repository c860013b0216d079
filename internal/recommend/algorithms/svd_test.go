// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package algorithms

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestSVDPredictUntrained(t *testing.T) {
	m := NewSVD(DefaultSVDConfig())
	if _, err := m.Predict("u1", "go"); !errors.Is(err, ErrNotTrained) {
		t.Fatalf("Predict() error = %v, want ErrNotTrained", err)
	}
}

func TestSVDPredictionsBounded(t *testing.T) {
	m := NewSVD(DefaultSVDConfig())
	rs := testRatings()
	if err := m.Fit(context.Background(), rs); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	for _, r := range rs {
		got, err := m.Predict(r.UserID, r.Skill)
		if err != nil {
			t.Fatalf("Predict(%s, %s) error = %v", r.UserID, r.Skill, err)
		}
		if got < 0 || got > 5 {
			t.Errorf("Predict(%s, %s) = %v, outside [0, 5]", r.UserID, r.Skill, got)
		}
	}
}

func TestSVDFitsObservedRatings(t *testing.T) {
	cfg := DefaultSVDConfig()
	cfg.Factors = 10
	cfg.Epochs = 200

	m := NewSVD(cfg)
	rs := testRatings()
	if err := m.Fit(context.Background(), rs); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// With enough epochs on a tiny dataset the model should reconstruct
	// observed ratings to within a loose tolerance.
	for _, r := range rs {
		got, err := m.Predict(r.UserID, r.Skill)
		if err != nil {
			t.Fatalf("Predict(%s, %s) error = %v", r.UserID, r.Skill, err)
		}
		if math.Abs(got-r.Score) > 1.0 {
			t.Errorf("Predict(%s, %s) = %v, want near %v", r.UserID, r.Skill, got, r.Score)
		}
	}
}

func TestSVDDeterministicWithSeed(t *testing.T) {
	cfg := DefaultSVDConfig()
	cfg.Factors = 5
	cfg.Epochs = 10

	a, b := NewSVD(cfg), NewSVD(cfg)
	if err := a.Fit(context.Background(), testRatings()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if err := b.Fit(context.Background(), testRatings()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pa, _ := a.Predict("u1", "rust")
	pb, _ := b.Predict("u1", "rust")
	if pa != pb {
		t.Errorf("same seed produced different predictions: %v vs %v", pa, pb)
	}
}

func TestSVDUnknownPairDegradesToMean(t *testing.T) {
	m := NewSVD(DefaultSVDConfig())
	rs := testRatings()
	if err := m.Fit(context.Background(), rs); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	var sum float64
	for _, r := range rs {
		sum += r.Score
	}
	mean := sum / float64(len(rs))

	got, err := m.Predict("nobody", "nothing")
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if math.Abs(got-mean) > 1e-9 {
		t.Errorf("Predict(nobody, nothing) = %v, want global mean %v", got, mean)
	}
}

func TestSVDSkillsSorted(t *testing.T) {
	m := NewSVD(DefaultSVDConfig())
	if err := m.Fit(context.Background(), testRatings()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	want := []string{"go", "python", "rust", "sql"}
	if got := m.Skills(); !reflect.DeepEqual(got, want) {
		t.Errorf("Skills() = %v, want %v", got, want)
	}
}

func TestSVDFitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewSVD(DefaultSVDConfig())
	if err := m.Fit(ctx, testRatings()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Fit() error = %v, want context.Canceled", err)
	}
	if m.IsTrained() {
		t.Error("model trained despite cancelled fit")
	}
}
