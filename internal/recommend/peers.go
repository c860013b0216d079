// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package recommend

import (
	"math"
	"sort"
)

// peerNeighbor is an internal scored candidate during KNN selection.
type peerNeighbor struct {
	id       string
	distance float64
}

// nearestPeers runs the profile-similarity KNN strategy.
//
// The vocabulary is built over ALL users (target included) so the target's
// tags contribute dimensions. Every other user is a candidate, vectorized
// against that vocabulary and ranked by cosine distance ascending; ties
// break on user ID for determinism. The effective k is min(k, candidates).
//
// Empty results, not errors: unknown or tagless target, empty vocabulary,
// no candidates, or k < 1.
func nearestPeers(targetID string, users map[string]UserProfile, k int) []PeerRecommendation {
	if k < 1 {
		return nil
	}
	target, ok := users[targetID]
	if !ok || !target.HasTags() {
		return nil
	}

	vocab := BuildVocabulary(users)
	if vocab.Len() == 0 {
		return nil
	}

	targetVec := vocab.Vectorize(&target)

	neighbors := make([]peerNeighbor, 0, len(users)-1)
	for id, u := range users {
		if id == targetID {
			continue
		}
		vec := vocab.Vectorize(&u)
		neighbors = append(neighbors, peerNeighbor{
			id:       id,
			distance: cosineDistance(targetVec, vec),
		})
	}
	if len(neighbors) == 0 {
		return nil
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].distance != neighbors[j].distance {
			return neighbors[i].distance < neighbors[j].distance
		}
		return neighbors[i].id < neighbors[j].id
	})

	if k > len(neighbors) {
		k = len(neighbors)
	}

	recs := make([]PeerRecommendation, 0, k)
	for _, n := range neighbors[:k] {
		u := users[n.id]
		recs = append(recs, PeerRecommendation{
			ID:          u.ID,
			Name:        u.Name,
			Bio:         u.Bio,
			Skills:      u.Skills,
			Interests:   u.Interests,
			Communities: u.Communities,
			PhotoURL:    u.PhotoURL,
			Similarity:  1 - n.distance,
		})
	}
	return recs
}

// cosineDistance returns 1 - cosine similarity between two equal-length
// vectors. A zero vector on either side yields distance 1 (no shared
// signal), which sorts cold-start candidates last without special-casing.
func cosineDistance(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
