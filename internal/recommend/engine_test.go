// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skillscout/internal/recommend/ratings"
)

// fakeStore implements ProfileStore, ContentStore, StudentSource and
// Snapshotter in memory.
type fakeStore struct {
	profiles map[string]UserProfile
	catalog  []byte
	students []ratings.Student
	snapshot uint64

	profileErr error
	catalogErr error
	studentErr error

	listStudentCalls int
}

func (f *fakeStore) GetProfile(_ context.Context, id string) (UserProfile, bool, error) {
	if f.profileErr != nil {
		return UserProfile{}, false, f.profileErr
	}
	p, ok := f.profiles[id]
	return p, ok, nil
}

func (f *fakeStore) ListProfiles(_ context.Context) (map[string]UserProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profiles, nil
}

func (f *fakeStore) GetCatalog(_ context.Context) ([]byte, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeStore) ListStudents(_ context.Context) ([]ratings.Student, error) {
	f.listStudentCalls++
	if f.studentErr != nil {
		return nil, f.studentErr
	}
	return f.students, nil
}

func (f *fakeStore) SnapshotVersion(_ context.Context) (uint64, error) {
	return f.snapshot, nil
}

// studentsOnly hides the Snapshotter method of the underlying store.
type studentsOnly struct {
	s *fakeStore
}

func (s studentsOnly) ListStudents(ctx context.Context) ([]ratings.Student, error) {
	return s.s.ListStudents(ctx)
}

// fakePeers is a scriptable PeerRecommender.
type fakePeers struct {
	recs  []PeerRecommendation
	err   error
	calls int
}

func (f *fakePeers) RecommendPeers(_ context.Context, _ string, _ map[string]UserProfile, _ []ContentItem, _ int) ([]PeerRecommendation, error) {
	f.calls++
	return f.recs, f.err
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: testUsers(),
		catalog: []byte(`[
			{"title": "Go for Backend Engineers", "category": "programming", "description": "Build services in Go", "rating": 4.8},
			{"title": "Watercolor Painting", "category": "art", "description": "Painting fundamentals", "rating": 4.9},
			{"title": "SQL Mastery", "category": "databases", "description": "Advanced SQL querying", "rating": 4.5}
		]`),
		students: []ratings.Student{
			{ID: "u1", Name: "Ada", SkillsRaw: "['go', 'sql']", Interactions: 60},
			{ID: "u2", Name: "Ben", SkillsRaw: "['go', 'sql', 'rust']", Interactions: 100},
			{ID: "u3", Name: "Cam", SkillsRaw: "['python']", Interactions: 30},
		},
		snapshot: 1,
	}
}

func testEngineConfig() Config {
	cfg := DefaultConfig()
	// Small latent model keeps the tests fast.
	cfg.SVD.Factors = 5
	cfg.SVD.Epochs = 5
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, deps Deps) *Engine {
	t.Helper()
	deps.Logger = zerolog.Nop()
	e, err := NewEngine(cfg, deps)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngineValidation(t *testing.T) {
	st := newFakeStore()

	if _, err := NewEngine(Config{}, Deps{Profiles: st, Contents: st, Students: st}); err == nil {
		t.Error("zero config accepted")
	}
	if _, err := NewEngine(testEngineConfig(), Deps{Profiles: st}); err == nil {
		t.Error("missing stores accepted")
	}

	cfg := testEngineConfig()
	cfg.PeerStrategy = PeerStrategyLLM
	if _, err := NewEngine(cfg, Deps{Profiles: st, Contents: st, Students: st}); err == nil {
		t.Error("llm strategy without recommender accepted")
	}
}

func TestRecommendContent(t *testing.T) {
	st := newFakeStore()
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})

	recs, err := e.RecommendContent(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RecommendContent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Title != "Go for Backend Engineers" {
		t.Errorf("first recommendation = %q", recs[0].Title)
	}
}

func TestRecommendContentDegrades(t *testing.T) {
	st := newFakeStore()
	st.profileErr = errors.New("store down")
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})

	recs, err := e.RecommendContent(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RecommendContent should degrade, got error: %v", err)
	}
	if recs != nil {
		t.Errorf("got %v, want nil", recs)
	}
}

func TestRecommendContentBadCatalogDegrades(t *testing.T) {
	st := newFakeStore()
	st.catalog = []byte(`"not a catalog"`)
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})

	recs, err := e.RecommendContent(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RecommendContent: %v", err)
	}
	if recs != nil {
		t.Errorf("got %v, want nil", recs)
	}
}

func TestRecommendPeersDefaultK(t *testing.T) {
	st := newFakeStore()
	cfg := testEngineConfig()
	cfg.DefaultK = 1
	e := newTestEngine(t, cfg, Deps{Profiles: st, Contents: st, Students: st})

	peers, err := e.RecommendPeers(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("RecommendPeers: %v", err)
	}
	if len(peers) != 1 {
		t.Fatalf("got %d peers, want 1 (default k)", len(peers))
	}
	if peers[0].ID != "u2" {
		t.Errorf("peer = %s, want u2", peers[0].ID)
	}
}

func TestRecommendPeersRemoteStrategy(t *testing.T) {
	st := newFakeStore()
	remote := &fakePeers{recs: []PeerRecommendation{{ID: "u3", Name: "Cam"}}}
	cfg := testEngineConfig()
	cfg.PeerStrategy = PeerStrategyLLM
	e := newTestEngine(t, cfg, Deps{Profiles: st, Contents: st, Students: st, Peers: remote})

	peers, err := e.RecommendPeers(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("RecommendPeers: %v", err)
	}
	if remote.calls != 1 {
		t.Errorf("remote recommender called %d times, want 1", remote.calls)
	}
	if len(peers) != 1 || peers[0].ID != "u3" {
		t.Errorf("peers = %v, want the remote result", peers)
	}
}

func TestRecommendPeersFallsBackToLocal(t *testing.T) {
	st := newFakeStore()
	remote := &fakePeers{err: errors.New("model offline")}
	cfg := testEngineConfig()
	cfg.PeerStrategy = PeerStrategyLLM
	e := newTestEngine(t, cfg, Deps{Profiles: st, Contents: st, Students: st, Peers: remote})

	peers, err := e.RecommendPeers(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("RecommendPeers: %v", err)
	}
	if len(peers) != 1 || peers[0].ID != "u2" {
		t.Errorf("peers = %v, want local KNN result u2", peers)
	}
}

func TestRecommendBySkills(t *testing.T) {
	st := newFakeStore()
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})

	matches, err := e.RecommendBySkills(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RecommendBySkills: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("no student matches")
	}

	// u1 already holds go and sql; predicted skills are python and rust.
	// u2 holds rust with the highest interaction count, so it ranks first.
	if matches[0].UserID != "u2" || matches[0].Skill != "rust" {
		t.Errorf("first match = %s/%s, want u2/rust", matches[0].UserID, matches[0].Skill)
	}
	if matches[0].Score != 1.0 {
		t.Errorf("Score = %f, want 1.0", matches[0].Score)
	}
	for _, m := range matches {
		if m.UserID == "u1" {
			t.Error("target user recommended to themselves")
		}
		if m.Skill == "go" || m.Skill == "sql" {
			t.Errorf("held skill %s recommended", m.Skill)
		}
	}
}

func TestRecommendByLatentFactors(t *testing.T) {
	st := newFakeStore()
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})

	scores, err := e.RecommendByLatentFactors(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RecommendByLatentFactors: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d skills, want 2 (python, rust)", len(scores))
	}
	for _, s := range scores {
		if s.Skill != "python" && s.Skill != "rust" {
			t.Errorf("unexpected skill %q", s.Skill)
		}
		if s.Score < 0 || s.Score > 5 {
			t.Errorf("score %f for %s out of [0, 5]", s.Score, s.Skill)
		}
	}
}

func TestTopStudents(t *testing.T) {
	st := newFakeStore()
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})

	top, err := e.TopStudents(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopStudents: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("got %d students, want 2", len(top))
	}
	if top[0].ID != "u2" || top[1].ID != "u1" {
		t.Errorf("order = %s, %s, want u2, u1", top[0].ID, top[1].ID)
	}
}

func TestTopStudentsDefaultCount(t *testing.T) {
	st := newFakeStore()
	st.students = nil
	for i := 0; i < 9; i++ {
		st.students = append(st.students, ratings.Student{
			ID:           string(rune('a' + i)),
			Name:         "student",
			SkillsRaw:    "['go']",
			Interactions: 10 * (i + 1),
		})
	}
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})

	top, err := e.TopStudents(context.Background(), 0)
	if err != nil {
		t.Fatalf("TopStudents: %v", err)
	}
	if len(top) != 6 {
		t.Errorf("got %d students for unspecified count, want 6", len(top))
	}
	if top[0].Interactions != 90 {
		t.Errorf("top interactions = %d, want 90", top[0].Interactions)
	}
}

func TestTrainingMemoizedBySnapshot(t *testing.T) {
	st := newFakeStore()
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})
	ctx := context.Background()

	if _, err := e.RecommendByLatentFactors(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.RecommendBySkills(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if st.listStudentCalls != 1 {
		t.Errorf("ListStudents called %d times, want 1 (memoized)", st.listStudentCalls)
	}

	// A data change bumps the snapshot and triggers retraining.
	st.snapshot = 2
	if _, err := e.RecommendByLatentFactors(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if st.listStudentCalls != 2 {
		t.Errorf("ListStudents called %d times after snapshot bump, want 2", st.listStudentCalls)
	}
}

func TestRetrainWithoutSnapshotter(t *testing.T) {
	st := newFakeStore()
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: studentsOnly{st}})
	ctx := context.Background()

	if _, err := e.RecommendByLatentFactors(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.RecommendByLatentFactors(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if st.listStudentCalls != 1 {
		t.Errorf("ListStudents called %d times, want 1", st.listStudentCalls)
	}

	e.Retrain()
	if _, err := e.RecommendByLatentFactors(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if st.listStudentCalls != 2 {
		t.Errorf("ListStudents called %d times after Retrain, want 2", st.listStudentCalls)
	}
}

func TestRecommendBySkillsDegradesOnBadData(t *testing.T) {
	st := newFakeStore()
	st.students[1].SkillsRaw = "not a list"
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})

	matches, err := e.RecommendBySkills(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RecommendBySkills should degrade, got error: %v", err)
	}
	if matches != nil {
		t.Errorf("got %v, want nil", matches)
	}
}

func TestEvaluate(t *testing.T) {
	st := newFakeStore()
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})

	report, err := e.Evaluate(context.Background())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if report.Err != "" {
		t.Fatalf("Report.Err = %q", report.Err)
	}
	for _, name := range []string{"knncf", "svd"} {
		if _, ok := report.Models[name]; !ok {
			t.Errorf("report missing model %q", name)
		}
	}
}

func TestEvaluateUnusableRatings(t *testing.T) {
	st := newFakeStore()
	st.students[0].SkillsRaw = "garbage"
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})

	report, err := e.Evaluate(context.Background())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if report.Err != "no valid ratings data available" {
		t.Errorf("Report.Err = %q", report.Err)
	}
}

func TestTrainingRatingsStrict(t *testing.T) {
	st := newFakeStore()
	st.students[0].SkillsRaw = "garbage"
	e := newTestEngine(t, testEngineConfig(), Deps{Profiles: st, Contents: st, Students: st})

	_, err := e.TrainingRatings(context.Background())
	if !errors.Is(err, ratings.ErrParse) {
		t.Errorf("error = %v, want ratings.ErrParse", err)
	}
}
