// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package recommend

import "sort"

// Vocabulary is the sorted, deduplicated set of all tag strings observed
// across all users at computation time. It is rebuilt on every similarity
// request; the lexicographic ordering keeps vector indices stable within a
// single computation. Two separate computations must not assume index
// agreement.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// BuildVocabulary collects the lowercased union of skills, interests and
// communities over all given profiles.
func BuildVocabulary(users map[string]UserProfile) Vocabulary {
	seen := make(map[string]struct{})
	for _, u := range users {
		for _, tag := range u.Tags() {
			seen[tag] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for t := range seen {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}

	return Vocabulary{terms: terms, index: index}
}

// Len returns the vocabulary size.
func (v Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns the ordered term list. Callers must not mutate it.
func (v Vocabulary) Terms() []string {
	return v.terms
}

// Vectorize turns a profile's tag set into a binary feature vector indexed
// by vocabulary position: vector[i] = 1 iff the profile holds terms[i].
// Tags absent from the vocabulary are silently dropped; that lossiness is
// intentional when the vocabulary is stale relative to the profile.
func (v Vocabulary) Vectorize(p *UserProfile) []float64 {
	vec := make([]float64, len(v.terms))
	for _, tag := range p.Tags() {
		if i, ok := v.index[tag]; ok {
			vec[i] = 1
		}
	}
	return vec
}
