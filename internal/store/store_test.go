// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skillscout/internal/recommend"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	profile := recommend.UserProfile{
		ID:     "u1",
		Name:   "Ada",
		Skills: recommend.TagList{"go", "sql"},
	}
	if err := s.PutProfile(ctx, profile); err != nil {
		t.Fatalf("PutProfile() error = %v", err)
	}

	got, found, err := s.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if !found {
		t.Fatal("GetProfile() found = false")
	}
	if got.Name != "Ada" || len(got.Skills) != 2 {
		t.Errorf("GetProfile() = %+v", got)
	}
}

func TestGetProfileMissingIsNotAnError(t *testing.T) {
	s := openTestStore(t)

	_, found, err := s.GetProfile(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if found {
		t.Error("GetProfile() found = true for missing id")
	}
}

func TestPutProfileEmptyID(t *testing.T) {
	s := openTestStore(t)
	if err := s.PutProfile(context.Background(), recommend.UserProfile{}); err == nil {
		t.Fatal("PutProfile() accepted empty id")
	}
}

func TestListProfiles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"u1", "u2", "u3"} {
		if err := s.PutProfile(ctx, recommend.UserProfile{ID: id, Name: id}); err != nil {
			t.Fatalf("PutProfile(%s) error = %v", id, err)
		}
	}

	got, err := s.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("ListProfiles() returned %d profiles, want 3", len(got))
	}
	if got["u2"].Name != "u2" {
		t.Errorf("profile u2 = %+v", got["u2"])
	}
}

func TestCatalogRoundTripBothShapes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "list shape", raw: `[{"title":"Go Basics","category":"programming"}]`},
		{name: "mapping shape", raw: `{"c1":{"title":"Go Basics","category":"programming"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.PutCatalog(ctx, []byte(tt.raw)); err != nil {
				t.Fatalf("PutCatalog() error = %v", err)
			}
			got, err := s.GetCatalog(ctx)
			if err != nil {
				t.Fatalf("GetCatalog() error = %v", err)
			}
			if string(got) != tt.raw {
				t.Errorf("GetCatalog() = %s, want stored bytes unchanged", got)
			}
		})
	}
}

func TestPutCatalogRejectsBadShape(t *testing.T) {
	s := openTestStore(t)
	if err := s.PutCatalog(context.Background(), []byte(`"just a string"`)); err == nil {
		t.Fatal("PutCatalog() accepted a scalar document")
	}
}

func TestGetCatalogEmptyStore(t *testing.T) {
	s := openTestStore(t)
	raw, err := s.GetCatalog(context.Background())
	if err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if raw != nil {
		t.Errorf("GetCatalog() = %s, want nil", raw)
	}
}

func TestStudentsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	records := []recommend.StudentRecord{
		{ID: "s1", Name: "Ada", SkillsRaw: `['go']`, Interactions: 80},
		{ID: "s2", Name: "Ben", SkillsRaw: `[]`, Interactions: 20},
	}
	if err := s.PutStudents(ctx, records); err != nil {
		t.Fatalf("PutStudents() error = %v", err)
	}

	got, err := s.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListStudents() returned %d rows, want 2", len(got))
	}
	if got[0].ID != "s1" || got[0].SkillsRaw != `['go']` || got[0].Interactions != 80 {
		t.Errorf("row 0 = %+v", got[0])
	}
}

func TestSnapshotVersionBumpsOnWrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	v0, err := s.SnapshotVersion(ctx)
	if err != nil {
		t.Fatalf("SnapshotVersion() error = %v", err)
	}
	if v0 != 0 {
		t.Errorf("fresh store version = %d, want 0", v0)
	}

	if err := s.PutProfile(ctx, recommend.UserProfile{ID: "u1"}); err != nil {
		t.Fatalf("PutProfile() error = %v", err)
	}
	if err := s.PutCatalog(ctx, []byte(`[]`)); err != nil {
		t.Fatalf("PutCatalog() error = %v", err)
	}

	v2, err := s.SnapshotVersion(ctx)
	if err != nil {
		t.Fatalf("SnapshotVersion() error = %v", err)
	}
	if v2 != 2 {
		t.Errorf("version after two writes = %d, want 2", v2)
	}
}
