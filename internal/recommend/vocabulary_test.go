// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package recommend

import (
	"reflect"
	"testing"
)

func TestBuildVocabulary(t *testing.T) {
	users := map[string]UserProfile{
		"u1": {Skills: TagList{"Go", "SQL"}, Interests: TagList{"databases"}},
		"u2": {Skills: TagList{"go"}, Communities: TagList{"Gophers"}},
	}

	vocab := BuildVocabulary(users)

	// Lowercased, deduplicated, sorted.
	want := []string{"databases", "go", "gophers", "sql"}
	if got := vocab.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}
	if vocab.Len() != 4 {
		t.Errorf("Len() = %d, want 4", vocab.Len())
	}
}

func TestBuildVocabularyEmpty(t *testing.T) {
	vocab := BuildVocabulary(nil)
	if vocab.Len() != 0 {
		t.Errorf("Len() = %d, want 0", vocab.Len())
	}
}

func TestVectorize(t *testing.T) {
	users := map[string]UserProfile{
		"u1": {Skills: TagList{"go", "sql"}},
		"u2": {Skills: TagList{"python"}},
	}
	vocab := BuildVocabulary(users)

	// Terms: [go python sql]
	p := users["u1"]
	want := []float64{1, 0, 1}
	if got := vocab.Vectorize(&p); !reflect.DeepEqual(got, want) {
		t.Errorf("Vectorize(u1) = %v, want %v", got, want)
	}
}

func TestVectorizeIsIdempotent(t *testing.T) {
	users := map[string]UserProfile{
		"u1": {Skills: TagList{"go", "sql"}, Interests: TagList{"databases"}},
		"u2": {Skills: TagList{"python"}},
	}
	vocab := BuildVocabulary(users)

	p := users["u1"]
	first := vocab.Vectorize(&p)
	second := vocab.Vectorize(&p)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated vectorization differs: %v vs %v", first, second)
	}
}

func TestVectorizeDropsUnknownTags(t *testing.T) {
	vocab := BuildVocabulary(map[string]UserProfile{
		"u1": {Skills: TagList{"go"}},
	})

	stale := UserProfile{Skills: TagList{"go", "rust"}}
	want := []float64{1}
	if got := vocab.Vectorize(&stale); !reflect.DeepEqual(got, want) {
		t.Errorf("Vectorize with out-of-vocabulary tag = %v, want %v", got, want)
	}
}
