// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

// Package llm implements the language-model peer recommendation strategy.
//
// The client speaks the generateContent wire shape: a prompt carrying the
// target user, the candidate pool and the course catalog, answered by a
// strict JSON object with a recommended_peers key. Model chatter around the
// JSON (markdown fences, prose) is tolerated; a response without valid JSON
// is a parse error and the caller falls back to the local strategy.
//
// All remote calls go through a circuit breaker so a degraded provider
// cannot stall every peer request for its full timeout.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/skillscout/internal/recommend"
)

// Config controls the remote recommender.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string `koanf:"base_url"`

	// Model is the model identifier appended to the generateContent path.
	Model string `koanf:"model"`

	// APIKey authenticates the request.
	APIKey string `koanf:"api_key"`

	// Timeout bounds each remote call.
	Timeout time.Duration `koanf:"timeout"`
}

// DefaultConfig returns the production defaults. APIKey has no default.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Model:   "gemini-2.0-flash",
		Timeout: 30 * time.Second,
	}
}

// Client is a peer recommender backed by a generateContent endpoint.
// It implements recommend.PeerRecommender.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

// NewClient creates a remote recommender.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "llm-recommender",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		logger:  logger.With().Str("component", "llm").Logger(),
	}
}

// generateContent wire shapes.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// peerAnswer is the JSON object the prompt instructs the model to return.
type peerAnswer struct {
	RecommendedPeers []string `json:"recommended_peers"`
}

// RecommendPeers asks the model for up to k peers for the target user.
//
// Unknown IDs in the answer are dropped, duplicates collapse to their first
// occurrence, and the target itself is never returned. Transport and breaker
// failures wrap recommend.ErrUnavailable; an answer without usable JSON
// wraps recommend.ErrParse.
func (c *Client) RecommendPeers(ctx context.Context, targetID string, users map[string]recommend.UserProfile, catalog []recommend.ContentItem, k int) ([]recommend.PeerRecommendation, error) {
	target, ok := users[targetID]
	if !ok || k < 1 {
		return nil, nil
	}

	prompt := buildPrompt(&target, users, catalog, k)

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.generate(ctx, prompt)
	})
	if err != nil {
		return nil, fmt.Errorf("llm peers: %w: %w", recommend.ErrUnavailable, err)
	}

	text, err := extractText(body)
	if err != nil {
		return nil, fmt.Errorf("llm peers: %w", err)
	}

	ids, err := parseAnswer(text)
	if err != nil {
		return nil, fmt.Errorf("llm peers: %w", err)
	}

	seen := make(map[string]struct{}, len(ids))
	recs := make([]recommend.PeerRecommendation, 0, k)
	for _, id := range ids {
		if id == targetID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		u, known := users[id]
		if !known {
			c.logger.Debug().Str("peer_id", id).Msg("model suggested unknown user")
			continue
		}
		recs = append(recs, recommend.PeerRecommendation{
			ID:          u.ID,
			Name:        u.Name,
			Bio:         u.Bio,
			Skills:      u.Skills,
			Interests:   u.Interests,
			Communities: u.Communities,
			PhotoURL:    u.PhotoURL,
		})
		if len(recs) == k {
			break
		}
	}
	return recs, nil
}

// generate performs one generateContent call and returns the raw response.
func (c *Client) generate(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// extractText pulls the first candidate text out of a generateContent
// response.
func extractText(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: response envelope: %v", recommend.ErrParse, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: response has no candidates", recommend.ErrParse)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// parseAnswer decodes the model's answer text into peer IDs, stripping
// markdown fences first.
func parseAnswer(text string) ([]string, error) {
	cleaned := stripFences(text)

	var answer peerAnswer
	if err := json.Unmarshal([]byte(cleaned), &answer); err != nil {
		return nil, fmt.Errorf("%w: answer: %v", recommend.ErrParse, err)
	}
	return answer.RecommendedPeers, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, and any prose before the first brace.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		return strings.TrimSpace(text)
	}
	if i := strings.Index(text, "{"); i > 0 {
		if j := strings.LastIndex(text, "}"); j > i {
			return text[i : j+1]
		}
	}
	return text
}

// buildPrompt renders the target profile, candidate pool and catalog into
// the instruction text. Users and catalog are rendered in sorted order so
// identical inputs produce identical prompts.
func buildPrompt(target *recommend.UserProfile, users map[string]recommend.UserProfile, catalog []recommend.ContentItem, k int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You match students with compatible peers on a learning platform.\n\n")
	fmt.Fprintf(&b, "Target student:\n")
	writeProfile(&b, target)

	b.WriteString("\nCandidate students:\n")
	ids := make([]string, 0, len(users))
	for id := range users {
		if id != target.ID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		u := users[id]
		writeProfile(&b, &u)
	}

	if len(catalog) > 0 {
		b.WriteString("\nAvailable courses:\n")
		for _, item := range catalog {
			fmt.Fprintf(&b, "- %s (%s): %s\n", item.Title, item.Category, truncate(item.Description, 120))
		}
	}

	fmt.Fprintf(&b, "\nPick up to %d candidates whose skills, interests and communities best complement the target student.\n", k)
	b.WriteString(`Respond with only a JSON object of the form {"recommended_peers": ["<id>", ...]} using candidate ids, most compatible first.`)
	return b.String()
}

func writeProfile(b *strings.Builder, u *recommend.UserProfile) {
	fmt.Fprintf(b, "- id=%s name=%q skills=%s interests=%s communities=%s\n",
		u.ID, u.Name,
		strings.Join(u.Skills, ","),
		strings.Join(u.Interests, ","),
		strings.Join(u.Communities, ","))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
