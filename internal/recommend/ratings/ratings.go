// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

// Package ratings derives implicit (user, skill, score) ratings from tabular
// student data. Training data integrity is load-bearing: a malformed skills
// column fails the whole build instead of silently skewing every model
// trained on it.
package ratings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ErrParse indicates a student row whose serialized skills column could not
// be decoded. The build treats this as fatal.
var ErrParse = errors.New("malformed skills column")

// Rating is one implicit observation: the score user UserID assigns to
// holding Skill, derived from their engagement level.
type Rating struct {
	UserID string  `json:"user_id"`
	Skill  string  `json:"skill"`
	Score  float64 `json:"score"`
}

// Student is one row of the tabular dataset: an identifier, a display name,
// a serialized skills list and a raw interaction count.
type Student struct {
	ID           string
	Name         string
	SkillsRaw    string
	Interactions int
}

// Score computes the implicit rating a student assigns to each of their
// skills. The engagement term clamps at 5; the skill-breadth multiplier
// does not, so a broad profile can score above 5. That is deliberate:
// downstream models clip predictions, not observations.
func Score(interactions, skillCount int) float64 {
	engagement := float64(interactions) / 100 * 5
	if engagement > 5 {
		engagement = 5
	}
	return engagement * (1 + float64(skillCount)/10)
}

// Build derives the rating set from student rows. Every held skill gets one
// rating at the student's score. Rows whose skills column fails to parse
// abort the whole build with an error wrapping ErrParse; rows with an empty
// skills list contribute nothing and are not an error.
func Build(students []Student) ([]Rating, error) {
	var out []Rating
	for _, s := range students {
		skills, err := ParseSkills(s.SkillsRaw)
		if err != nil {
			return nil, fmt.Errorf("student %s: %w", s.ID, err)
		}
		score := Score(s.Interactions, len(skills))
		for _, skill := range skills {
			out = append(out, Rating{UserID: s.ID, Skill: skill, Score: score})
		}
	}
	return out, nil
}

// ParseSkills strictly decodes a serialized skills list. Accepted forms are
// a JSON string array with double or single quotes, or an empty/blank value
// (no skills). Anything else is a parse error; no comma-splitting fallback
// here, unlike the lenient profile-update boundary.
func ParseSkills(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return nil, fmt.Errorf("%w: %q", ErrParse, raw)
	}

	cleaned := strings.ReplaceAll(raw, "'", `"`)
	var skills []string
	if err := json.Unmarshal([]byte(cleaned), &skills); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrParse, raw, err)
	}

	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
