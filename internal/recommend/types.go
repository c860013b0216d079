// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package recommend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// TagList is a set of categorical tags (skills, interests, communities).
// Ordering is irrelevant for matching; matching is case-insensitive.
//
// Collaborator documents occasionally carry non-string scalars in tag arrays
// (numeric skill codes, booleans from form builders). Decoding coerces those
// to their string form instead of failing the whole document.
type TagList []string

// UnmarshalJSON decodes a JSON array that may contain mixed scalar types.
// Non-scalar elements (nested arrays, objects, nulls) are dropped.
func (t *TagList) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("tag list: %w", err)
	}

	tags := make([]string, 0, len(raw))
	for _, v := range raw {
		switch s := v.(type) {
		case string:
			tags = append(tags, s)
		case float64:
			tags = append(tags, strconv.FormatFloat(s, 'f', -1, 64))
		case bool:
			tags = append(tags, strconv.FormatBool(s))
		}
	}

	*t = tags
	return nil
}

// Contains reports whether the list holds the tag, case-insensitively.
func (t TagList) Contains(tag string) bool {
	tag = strings.ToLower(tag)
	for _, v := range t {
		if strings.ToLower(v) == tag {
			return true
		}
	}
	return false
}

// UserProfile is a user record as supplied by the profile store.
//
// Profiles are created on first sign-in and mutated by profile updates;
// the core never deletes them.
type UserProfile struct {
	// ID is the opaque user identifier assigned by the collaborator.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Bio is free text.
	Bio string `json:"bio,omitempty"`

	// PhotoURL is the avatar location.
	PhotoURL string `json:"photo_url,omitempty"`

	// Skills, Interests and Communities are the categorical tag sets that
	// drive vectorization and keyword matching.
	Skills      TagList `json:"skills,omitempty"`
	Interests   TagList `json:"interests,omitempty"`
	Communities TagList `json:"communities,omitempty"`

	// InteractionCount is the number of recorded platform interactions.
	InteractionCount int `json:"interaction_count,omitempty"`

	// InteractedContentIDs lists catalog items the user has already engaged
	// with; they are excluded from content recommendations.
	InteractedContentIDs []string `json:"interacted_content_ids,omitempty"`
}

// Tags returns the lowercased union of skills, interests and communities.
func (p *UserProfile) Tags() []string {
	tags := make([]string, 0, len(p.Skills)+len(p.Interests)+len(p.Communities))
	for _, set := range []TagList{p.Skills, p.Interests, p.Communities} {
		for _, t := range set {
			tags = append(tags, strings.ToLower(t))
		}
	}
	return tags
}

// Keywords returns the lowercased union of skills and interests, the terms
// used for content keyword matching. Communities deliberately excluded:
// community names describe groups, not subject matter.
func (p *UserProfile) Keywords() []string {
	kw := make([]string, 0, len(p.Skills)+len(p.Interests))
	for _, set := range []TagList{p.Skills, p.Interests} {
		for _, t := range set {
			kw = append(kw, strings.ToLower(t))
		}
	}
	return kw
}

// HasTags reports whether the profile carries any tag at all. A profile
// without tags is a cold-start profile and yields empty recommendations.
func (p *UserProfile) HasTags() bool {
	return len(p.Skills)+len(p.Interests)+len(p.Communities) > 0
}

// interactedSet returns the interacted content IDs as a set.
func (p *UserProfile) interactedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.InteractedContentIDs))
	for _, id := range p.InteractedContentIDs {
		set[id] = struct{}{}
	}
	return set
}

// ContentItem is a catalog entry (course, video, article). Read-only from
// the core's perspective. Missing fields default to zero values so matching
// and sorting never fail on absent data.
type ContentItem struct {
	// ID is attached at normalization time: the storage key when the catalog
	// is a mapping, the positional index when it is a bare list. Positional
	// IDs are stable only within one snapshot.
	ID string `json:"id"`

	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Link        string  `json:"link,omitempty"`
	Rating      float64 `json:"rating"`
}

// NormalizeCatalog converts a raw catalog document into a flat item sequence.
//
// The backing store returns the contents node either as a JSON array or as a
// JSON object keyed by content ID. Both shapes are accepted here, once, at
// the boundary; nothing deeper in the pipeline branches on shape again.
// Array items get their position as ID; mapping values get their key, and
// the result is ordered by key so one snapshot is deterministic.
func NormalizeCatalog(raw []byte) ([]ContentItem, error) {
	raw = trimSpaceJSON(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		var items []ContentItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("catalog list: %w: %w", ErrParse, err)
		}
		for i := range items {
			if items[i].ID == "" {
				items[i].ID = strconv.Itoa(i)
			}
		}
		return items, nil

	case '{':
		var keyed map[string]ContentItem
		if err := json.Unmarshal(raw, &keyed); err != nil {
			return nil, fmt.Errorf("catalog mapping: %w: %w", ErrParse, err)
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		items := make([]ContentItem, 0, len(keyed))
		for _, k := range keys {
			item := keyed[k]
			item.ID = k
			items = append(items, item)
		}
		return items, nil

	default:
		return nil, fmt.Errorf("catalog: %w: neither list nor mapping", ErrDataFormat)
	}
}

func trimSpaceJSON(b []byte) []byte {
	return []byte(strings.TrimSpace(string(b)))
}

// Recommendation is a ranked content suggestion. Constructed fresh per
// request, never persisted by the core.
type Recommendation struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Link        string  `json:"link,omitempty"`
	EmbedLink   string  `json:"embed_link,omitempty"`
	Rating      float64 `json:"rating"`
}

// PeerRecommendation is a suggested peer with their public profile fields.
// Similarity is the cosine similarity to the requesting user when produced
// by the local strategy; remote strategies may leave it zero.
type PeerRecommendation struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Bio         string  `json:"bio,omitempty"`
	Skills      TagList `json:"skills,omitempty"`
	Interests   TagList `json:"interests,omitempty"`
	Communities TagList `json:"communities,omitempty"`
	PhotoURL    string  `json:"photo_url,omitempty"`
	Similarity  float64 `json:"similarity,omitempty"`
}

// SkillScore is a predicted (skill, score) pair from a latent-factor model.
type SkillScore struct {
	Skill string  `json:"skill"`
	Score float64 `json:"score"`
}

// StudentMatch is a student recommended because they hold a skill the model
// predicts the requesting user will want. Score is the holder's normalized
// interaction count.
type StudentMatch struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Skill  string  `json:"skill"`
	Score  float64 `json:"score"`
}

// StudentRecord is one row of the tabular student dataset consumed by the
// collaborative-filtering training path. SkillsRaw holds the serialized
// skills list exactly as ingested; parsing is the ratings builder's job and
// is strict there.
type StudentRecord struct {
	ID           string `json:"student_id"`
	Name         string `json:"name"`
	SkillsRaw    string `json:"skills"`
	Interactions int    `json:"interactions"`
}

// ParseTagList leniently parses a serialized tag list for the profile-update
// boundary. It accepts a JSON-ish list (single or double quotes) and falls
// back to comma splitting. Never fails: worst case the whole input becomes a
// single tag.
//
// This leniency is boundary-only; the ratings builder uses a strict parser
// because training data integrity is load-bearing.
func ParseTagList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		cleaned := strings.ReplaceAll(raw, "'", `"`)
		var tags TagList
		if err := json.Unmarshal([]byte(cleaned), &tags); err == nil {
			return tags
		}
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
