// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skillscout/internal/metrics"
	"github.com/tomtom215/skillscout/internal/recommend/algorithms"
	"github.com/tomtom215/skillscout/internal/recommend/evaluate"
	"github.com/tomtom215/skillscout/internal/recommend/ratings"
)

// ProfileStore supplies user profiles.
type ProfileStore interface {
	// GetProfile returns the profile and whether it exists. A missing
	// profile is not an error.
	GetProfile(ctx context.Context, id string) (UserProfile, bool, error)

	// ListProfiles returns all profiles keyed by user ID.
	ListProfiles(ctx context.Context) (map[string]UserProfile, error)
}

// ContentStore supplies the raw catalog document. The engine normalizes
// the list-or-mapping shape itself.
type ContentStore interface {
	GetCatalog(ctx context.Context) ([]byte, error)
}

// StudentSource supplies the tabular student dataset the training path
// consumes.
type StudentSource interface {
	ListStudents(ctx context.Context) ([]ratings.Student, error)
}

// Snapshotter is optionally implemented by stores that can report a
// monotonically increasing data version. When available, the engine skips
// retraining while the version is unchanged.
type Snapshotter interface {
	SnapshotVersion(ctx context.Context) (uint64, error)
}

// PeerRecommender is an alternative peer recommendation strategy, typically
// remote. Implemented by the llm package.
type PeerRecommender interface {
	RecommendPeers(ctx context.Context, targetID string, users map[string]UserProfile, catalog []ContentItem, k int) ([]PeerRecommendation, error)
}

// Deps are the engine's collaborators. Profiles, Contents and Students are
// required; Peers is consulted only under the "llm" strategy.
type Deps struct {
	Profiles ProfileStore
	Contents ContentStore
	Students StudentSource
	Peers    PeerRecommender
	Logger   zerolog.Logger
}

// Engine orchestrates all recommendation strategies.
//
// The request-time strategies (content matching, peer KNN) recompute from
// store state on every call. The trained strategies (skill CF, latent
// factors) train lazily and memoize the fitted models against the student
// source's snapshot version when it exposes one.
//
// Degradation: data-shape problems and unavailable collaborators produce
// empty results with a logged warning; only genuinely broken requests
// surface errors.
type Engine struct {
	cfg    Config
	deps   Deps
	logger zerolog.Logger

	trainMu        sync.Mutex
	knncf          *algorithms.KNNCF
	svd            *algorithms.SVD
	students       []ratings.Student
	trained        bool
	trainedVersion uint64
}

// NewEngine creates an engine. The configuration is validated here so a bad
// deployment fails at startup, not on the first request.
func NewEngine(cfg Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if deps.Profiles == nil || deps.Contents == nil || deps.Students == nil {
		return nil, errors.New("engine: profile, content and student stores are required")
	}
	if cfg.PeerStrategy == PeerStrategyLLM && deps.Peers == nil {
		return nil, errors.New("engine: llm peer strategy configured without a recommender")
	}

	return &Engine{
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger.With().Str("component", "engine").Logger(),
	}, nil
}

// RecommendContent returns up to TopNContent catalog items matching the
// user's skills and interests. Unknown users, tagless profiles and broken
// catalogs all yield an empty list.
func (e *Engine) RecommendContent(ctx context.Context, userID string) ([]Recommendation, error) {
	start := time.Now()
	defer func() { metrics.ObserveRecommendation("content", time.Since(start)) }()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	profile, ok, err := e.deps.Profiles.GetProfile(ctx, userID)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("profile fetch failed")
		return nil, nil
	}
	if !ok || !profile.HasTags() {
		return nil, nil
	}

	raw, err := e.deps.Contents.GetCatalog(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("catalog fetch failed")
		return nil, nil
	}
	catalog, err := NormalizeCatalog(raw)
	if err != nil {
		e.logger.Warn().Err(err).Msg("catalog unusable")
		return nil, nil
	}

	return matchContent(&profile, catalog, e.cfg.TopNContent), nil
}

// RecommendPeers returns up to k similar users. k < 1 selects the
// configured default. The "llm" strategy falls back to the local KNN when
// the remote recommender fails or returns nothing.
func (e *Engine) RecommendPeers(ctx context.Context, userID string, k int) ([]PeerRecommendation, error) {
	start := time.Now()
	defer func() { metrics.ObserveRecommendation("peers", time.Since(start)) }()

	if k < 1 {
		k = e.cfg.DefaultK
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	users, err := e.deps.Profiles.ListProfiles(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("profile list failed")
		return nil, nil
	}

	if e.cfg.PeerStrategy == PeerStrategyLLM {
		if recs := e.remotePeers(ctx, userID, users, k); len(recs) > 0 {
			return recs, nil
		}
	}
	return nearestPeers(userID, users, k), nil
}

// remotePeers runs the remote strategy, returning nil on any failure so the
// caller falls through to the local one.
func (e *Engine) remotePeers(ctx context.Context, userID string, users map[string]UserProfile, k int) []PeerRecommendation {
	var catalog []ContentItem
	if raw, err := e.deps.Contents.GetCatalog(ctx); err == nil {
		// Catalog is advisory context for the model; a broken catalog must
		// not take the peer path down.
		catalog, _ = NormalizeCatalog(raw)
	}

	recs, err := e.deps.Peers.RecommendPeers(ctx, userID, users, catalog, k)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("remote peer strategy failed, using local")
		return nil
	}
	return recs
}

// RecommendBySkills recommends students via the neighborhood model: the
// target's highest-predicted unheld skills are looked up, and students
// holding those skills are returned scored by their normalized interaction
// count.
func (e *Engine) RecommendBySkills(ctx context.Context, userID string) ([]StudentMatch, error) {
	start := time.Now()
	defer func() { metrics.ObserveRecommendation("skills", time.Since(start)) }()

	if err := e.ensureTrained(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("training unavailable")
		return nil, nil
	}

	e.trainMu.Lock()
	model, students := e.knncf, e.students
	e.trainMu.Unlock()

	top := topPredictedSkills(model, userID, heldSkills(students, userID), e.cfg.TopNContent)
	if len(top) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(top))
	for _, s := range top {
		wanted[s.Skill] = struct{}{}
	}

	var matches []StudentMatch
	for _, st := range students {
		if st.ID == userID {
			continue
		}
		skills, err := ratings.ParseSkills(st.SkillsRaw)
		if err != nil {
			continue
		}
		for _, skill := range skills {
			if _, ok := wanted[skill]; ok {
				matches = append(matches, StudentMatch{
					UserID: st.ID,
					Name:   st.Name,
					Skill:  skill,
					Score:  float64(st.Interactions) / 100,
				})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].UserID < matches[j].UserID
	})
	if len(matches) > e.cfg.TopNContent {
		matches = matches[:e.cfg.TopNContent]
	}
	return matches, nil
}

// RecommendByLatentFactors returns the target's highest-predicted unheld
// skills from the latent-factor model.
func (e *Engine) RecommendByLatentFactors(ctx context.Context, userID string) ([]SkillScore, error) {
	start := time.Now()
	defer func() { metrics.ObserveRecommendation("latent", time.Since(start)) }()

	if err := e.ensureTrained(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("training unavailable")
		return nil, nil
	}

	e.trainMu.Lock()
	model, students := e.svd, e.students
	e.trainMu.Unlock()

	return topPredictedSkills(model, userID, heldSkills(students, userID), e.cfg.TopNContent), nil
}

// defaultTopStudents is the popularity baseline size when the caller does
// not ask for a specific count. Smaller than the content list cap: the
// baseline is a teaser, not a ranking page.
const defaultTopStudents = 6

// TopStudents is the popularity baseline: students ranked by raw
// interaction count, ties broken by ID.
func (e *Engine) TopStudents(ctx context.Context, n int) ([]StudentRecord, error) {
	if n < 1 {
		n = defaultTopStudents
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	students, err := e.deps.Students.ListStudents(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("student list failed")
		return nil, nil
	}

	out := make([]StudentRecord, 0, len(students))
	for _, st := range students {
		out = append(out, StudentRecord{
			ID:           st.ID,
			Name:         st.Name,
			SkillsRaw:    st.SkillsRaw,
			Interactions: st.Interactions,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Interactions != out[j].Interactions {
			return out[i].Interactions > out[j].Interactions
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// TrainingRatings exposes the derived rating set, mainly for diagnostics.
// Unlike the recommendation paths this is strict: a malformed dataset is an
// error the caller should see.
func (e *Engine) TrainingRatings(ctx context.Context) ([]ratings.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	students, err := e.deps.Students.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("training ratings: %w", err)
	}
	return ratings.Build(students)
}

// Evaluate cross-validates fresh model instances on the current rating set.
// The engine's serving models are untouched.
func (e *Engine) Evaluate(ctx context.Context) (evaluate.Report, error) {
	start := time.Now()
	defer func() { metrics.ObserveEvaluation(time.Since(start)) }()

	rs, err := e.TrainingRatings(ctx)
	if err != nil {
		if errors.Is(err, ratings.ErrParse) {
			e.logger.Warn().Err(err).Msg("ratings unusable for evaluation")
			return evaluate.Report{Err: "no valid ratings data available"}, nil
		}
		return evaluate.Report{}, err
	}

	models := []evaluate.Model{
		algorithms.NewKNNCF(algorithms.KNNCFConfig{
			Neighbors:    e.cfg.KNNCF.Neighbors,
			MinNeighbors: e.cfg.KNNCF.MinNeighbors,
		}),
		algorithms.NewSVD(algorithms.SVDConfig{
			Factors:      e.cfg.SVD.Factors,
			Epochs:       e.cfg.SVD.Epochs,
			LearningRate: e.cfg.SVD.LearningRate,
			Reg:          e.cfg.SVD.Reg,
			Seed:         e.cfg.SVD.Seed,
		}),
	}
	return evaluate.CrossValidate(ctx, models, rs, evaluate.DefaultOptions())
}

// Retrain forces model retraining on next use.
func (e *Engine) Retrain() {
	e.trainMu.Lock()
	e.trained = false
	e.trainMu.Unlock()
}

// ensureTrained lazily fits both models. When the student source reports a
// snapshot version, training is skipped while the version is unchanged;
// otherwise the first successful fit is reused until Retrain.
func (e *Engine) ensureTrained(ctx context.Context) error {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	var version uint64
	snap, hasSnap := e.deps.Students.(Snapshotter)
	if hasSnap {
		v, err := snap.SnapshotVersion(ctx)
		if err != nil {
			return fmt.Errorf("snapshot version: %w", err)
		}
		version = v
	}

	if e.trained && (!hasSnap || version == e.trainedVersion) {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	students, err := e.deps.Students.ListStudents(fetchCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("student list: %w", err)
	}
	rs, err := ratings.Build(students)
	if err != nil {
		return fmt.Errorf("build ratings: %w", err)
	}

	start := time.Now()
	knncf := algorithms.NewKNNCF(algorithms.KNNCFConfig{
		Neighbors:    e.cfg.KNNCF.Neighbors,
		MinNeighbors: e.cfg.KNNCF.MinNeighbors,
	})
	svd := algorithms.NewSVD(algorithms.SVDConfig{
		Factors:      e.cfg.SVD.Factors,
		Epochs:       e.cfg.SVD.Epochs,
		LearningRate: e.cfg.SVD.LearningRate,
		Reg:          e.cfg.SVD.Reg,
		Seed:         e.cfg.SVD.Seed,
	})
	if err := knncf.Fit(ctx, rs); err != nil {
		return fmt.Errorf("fit knncf: %w", err)
	}
	if err := svd.Fit(ctx, rs); err != nil {
		return fmt.Errorf("fit svd: %w", err)
	}
	metrics.ObserveTraining(time.Since(start))

	e.knncf = knncf
	e.svd = svd
	e.students = students
	e.trained = true
	e.trainedVersion = version

	e.logger.Info().
		Int("ratings", len(rs)).
		Int("students", len(students)).
		Uint64("snapshot", version).
		Dur("took", time.Since(start)).
		Msg("models trained")
	return nil
}

// topPredictedSkills ranks the model's known skills for the user, excluding
// already-held skills, highest prediction first.
func topPredictedSkills(m algorithms.Model, userID string, held map[string]struct{}, n int) []SkillScore {
	skills := m.Skills()
	scored := make([]SkillScore, 0, len(skills))
	for _, skill := range skills {
		if _, ok := held[skill]; ok {
			continue
		}
		score, err := m.Predict(userID, skill)
		if err != nil {
			return nil
		}
		scored = append(scored, SkillScore{Skill: skill, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// heldSkills returns the target student's parsed skill set. Unparseable or
// missing rows mean no exclusions.
func heldSkills(students []ratings.Student, userID string) map[string]struct{} {
	held := make(map[string]struct{})
	for _, st := range students {
		if st.ID != userID {
			continue
		}
		skills, err := ratings.ParseSkills(st.SkillsRaw)
		if err != nil {
			return held
		}
		for _, s := range skills {
			held[s] = struct{}{}
		}
		break
	}
	return held
}
