// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package api

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/skillscout/internal/logging"
	"github.com/tomtom215/skillscout/internal/recommend"
	"github.com/tomtom215/skillscout/internal/recommend/ratings"
	"github.com/tomtom215/skillscout/internal/store"
)

// maxBodyBytes caps request bodies on write endpoints.
const maxBodyBytes = 8 << 20

// Handlers implements the HTTP endpoints against the engine and store.
type Handlers struct {
	engine *recommend.Engine
	store  *store.Store

	defaultPageSize int
	maxPageSize     int
}

// NewHandlers creates the handler set.
func NewHandlers(engine *recommend.Engine, st *store.Store, defaultPageSize, maxPageSize int) *Handlers {
	return &Handlers{
		engine:          engine,
		store:           st,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// RecommendContent handles GET /api/v1/recommendations/content/{userID}.
func (h *Handlers) RecommendContent(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	recs, err := h.engine.RecommendContent(r.Context(), userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "content recommendation failed")
		return
	}
	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// RecommendPeers handles GET /api/v1/recommendations/peers/{userID}?k=N.
func (h *Handlers) RecommendPeers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "k must be a positive integer")
			return
		}
		k = v
	}

	recs, err := h.engine.RecommendPeers(r.Context(), userID, k)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "peer recommendation failed")
		return
	}
	if recs == nil {
		recs = []recommend.PeerRecommendation{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// RecommendSkills handles GET /api/v1/recommendations/skills/{userID}.
func (h *Handlers) RecommendSkills(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	matches, err := h.engine.RecommendBySkills(r.Context(), userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "skill recommendation failed")
		return
	}
	if matches == nil {
		matches = []recommend.StudentMatch{}
	}
	respondJSON(w, http.StatusOK, matches)
}

// RecommendLatent handles GET /api/v1/recommendations/latent/{userID}.
func (h *Handlers) RecommendLatent(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	scores, err := h.engine.RecommendByLatentFactors(r.Context(), userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "latent factor recommendation failed")
		return
	}
	if scores == nil {
		scores = []recommend.SkillScore{}
	}
	respondJSON(w, http.StatusOK, scores)
}

// TopStudents handles GET /api/v1/students/top?n=N.
func (h *Handlers) TopStudents(w http.ResponseWriter, r *http.Request) {
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "n must be a positive integer")
			return
		}
		n = v
	}

	students, err := h.engine.TopStudents(r.Context(), n)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "top students failed")
		return
	}
	if students == nil {
		students = []recommend.StudentRecord{}
	}
	respondJSON(w, http.StatusOK, students)
}

// Evaluate handles GET /api/v1/evaluation. The report's own error field
// carries data-quality problems; HTTP errors are reserved for engine
// failures.
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.Evaluate(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Err(err).Msg("evaluation failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "evaluation failed")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// GetUser handles GET /api/v1/users/{userID}.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	profile, found, err := h.store.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "profile fetch failed")
		return
	}
	if !found {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// upsertUserRequest is the profile update payload. Tag fields accept either
// a JSON array or a serialized list string; the latter is parsed leniently.
type upsertUserRequest struct {
	Name                 string          `json:"name"`
	Bio                  string          `json:"bio"`
	PhotoURL             string          `json:"photo_url"`
	Skills               json.RawMessage `json:"skills"`
	Interests            json.RawMessage `json:"interests"`
	Communities          json.RawMessage `json:"communities"`
	InteractionCount     *int            `json:"interaction_count"`
	InteractedContentIDs []string        `json:"interacted_content_ids"`
}

// UpsertUser handles PUT /api/v1/users/{userID}. Fields absent from the
// payload keep their stored values; present fields replace them.
func (h *Handlers) UpsertUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req upsertUserRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body")
		return
	}

	profile, _, err := h.store.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "profile fetch failed")
		return
	}
	profile.ID = userID

	if req.Name != "" {
		profile.Name = req.Name
	}
	if req.Bio != "" {
		profile.Bio = req.Bio
	}
	if req.PhotoURL != "" {
		profile.PhotoURL = req.PhotoURL
	}
	if req.InteractionCount != nil {
		profile.InteractionCount = *req.InteractionCount
	}
	if req.InteractedContentIDs != nil {
		profile.InteractedContentIDs = req.InteractedContentIDs
	}

	for _, f := range []struct {
		raw json.RawMessage
		dst *recommend.TagList
	}{
		{req.Skills, &profile.Skills},
		{req.Interests, &profile.Interests},
		{req.Communities, &profile.Communities},
	} {
		if len(f.raw) == 0 {
			continue
		}
		tags, err := decodeTagField(f.raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed tag list")
			return
		}
		*f.dst = tags
	}

	if err := h.store.PutProfile(r.Context(), profile); err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "profile save failed")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// decodeTagField accepts a JSON array of scalars or a serialized list
// string ("['go', 'sql']", "go, sql").
func decodeTagField(raw json.RawMessage) (recommend.TagList, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return recommend.ParseTagList(s), nil
	}

	var tags recommend.TagList
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// ListContents handles GET /api/v1/contents?limit=N&offset=M.
func (h *Handlers) ListContents(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := h.pagination(w, r)
	if !ok {
		return
	}

	raw, err := h.store.GetCatalog(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "catalog fetch failed")
		return
	}
	items, err := recommend.NormalizeCatalog(raw)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "catalog unusable")
		return
	}

	// Browsing order is rating descending, same as the recommendation
	// lists; ties keep the catalog's relative order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Rating > items[j].Rating
	})

	total := len(items)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]recommend.Recommendation, 0, end-offset)
	for _, item := range items[offset:end] {
		page = append(page, recommend.Recommendation{
			ID:          item.ID,
			Title:       item.Title,
			Category:    item.Category,
			Description: item.Description,
			Link:        item.Link,
			EmbedLink:   recommend.EmbedLink(item.Link),
			Rating:      item.Rating,
		})
	}

	respondPage(w, page, PaginationMeta{
		Total:   total,
		Count:   len(page),
		Offset:  offset,
		Limit:   limit,
		HasMore: end < total,
	})
}

// PutContents handles PUT /api/v1/contents with a raw catalog document.
func (h *Handlers) PutContents(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	raw, err := io.ReadAll(body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "unreadable body")
		return
	}

	if err := h.store.PutCatalog(r.Context(), raw); err != nil {
		if errors.Is(err, recommend.ErrDataFormat) || errors.Is(err, recommend.ErrParse) {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "catalog must be a JSON list or mapping")
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "catalog save failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportStudents handles POST /api/v1/students/import with a CSV body.
// The dataset replaces matching rows and invalidates trained models.
func (h *Handlers) ImportStudents(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	students, err := ratings.LoadCSV(body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	records := make([]recommend.StudentRecord, 0, len(students))
	for _, st := range students {
		records = append(records, recommend.StudentRecord{
			ID:           st.ID,
			Name:         st.Name,
			SkillsRaw:    st.SkillsRaw,
			Interactions: st.Interactions,
		})
	}

	if err := h.store.PutStudents(r.Context(), records); err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "student save failed")
		return
	}
	h.engine.Retrain()

	respondJSON(w, http.StatusOK, map[string]int{"imported": len(records)})
}

// Healthz handles GET /healthz.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.SnapshotVersion(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeInternalError, "store unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pagination parses and bounds limit/offset query parameters.
func (h *Handlers) pagination(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	limit = h.defaultPageSize

	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "limit must be a positive integer")
			return 0, 0, false
		}
		limit = v
	}
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "offset must be a non-negative integer")
			return 0, 0, false
		}
		offset = v
	}
	return limit, offset, true
}
