// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package recommend

import (
	"math"
	"testing"
)

func testUsers() map[string]UserProfile {
	return map[string]UserProfile{
		"u1": {ID: "u1", Name: "Ada", Skills: TagList{"go", "sql"}},
		"u2": {ID: "u2", Name: "Ben", Skills: TagList{"go"}},
		"u3": {ID: "u3", Name: "Cam", Skills: TagList{"painting"}},
	}
}

func TestNearestPeersRanksBySimilarity(t *testing.T) {
	peers := nearestPeers("u1", testUsers(), 2)
	if len(peers) != 2 {
		t.Fatalf("got %d peers, want 2", len(peers))
	}
	if peers[0].ID != "u2" {
		t.Errorf("closest peer = %s, want u2", peers[0].ID)
	}
	if peers[1].ID != "u3" {
		t.Errorf("second peer = %s, want u3", peers[1].ID)
	}

	// u1 and u2 share "go": similarity 1/sqrt(2).
	want := 1 / math.Sqrt2
	if math.Abs(peers[0].Similarity-want) > 1e-9 {
		t.Errorf("Similarity = %f, want %f", peers[0].Similarity, want)
	}
	// u3 shares nothing.
	if peers[1].Similarity != 0 {
		t.Errorf("disjoint peer similarity = %f, want 0", peers[1].Similarity)
	}
}

func TestNearestPeersTieBreaksOnID(t *testing.T) {
	users := map[string]UserProfile{
		"u1": {ID: "u1", Skills: TagList{"go"}},
		"u3": {ID: "u3", Skills: TagList{"go"}},
		"u2": {ID: "u2", Skills: TagList{"go"}},
	}

	peers := nearestPeers("u1", users, 2)
	if len(peers) != 2 {
		t.Fatalf("got %d peers, want 2", len(peers))
	}
	if peers[0].ID != "u2" || peers[1].ID != "u3" {
		t.Errorf("tie order = %s, %s, want u2, u3", peers[0].ID, peers[1].ID)
	}
}

func TestNearestPeersClampsK(t *testing.T) {
	peers := nearestPeers("u1", testUsers(), 50)
	if len(peers) != 2 {
		t.Errorf("got %d peers, want 2 (all candidates)", len(peers))
	}
}

func TestNearestPeersEmptyCases(t *testing.T) {
	if got := nearestPeers("ghost", testUsers(), 3); got != nil {
		t.Errorf("unknown target got %v, want nil", got)
	}
	if got := nearestPeers("u1", testUsers(), 0); got != nil {
		t.Errorf("k=0 got %v, want nil", got)
	}

	tagless := map[string]UserProfile{
		"u1": {ID: "u1"},
		"u2": {ID: "u2"},
	}
	if got := nearestPeers("u1", tagless, 3); got != nil {
		t.Errorf("empty vocabulary got %v, want nil", got)
	}
}

func TestNearestPeersTaglessTarget(t *testing.T) {
	// The target has no tags even though other users do; a zero-vector
	// target must not be matched against anyone.
	users := map[string]UserProfile{
		"u1": {ID: "u1", Name: "cold start"},
		"u2": {ID: "u2", Skills: TagList{"go"}},
		"u3": {ID: "u3", Skills: TagList{"sql"}},
	}
	if got := nearestPeers("u1", users, 2); got != nil {
		t.Errorf("tagless target got %v, want nil", got)
	}
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 1}, []float64{1, 1}, 0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 1},
		{"partial overlap", []float64{1, 1}, []float64{1, 0}, 1 - 1/math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineDistance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineDistance = %f, want %f", got, tt.want)
			}
		})
	}
}
