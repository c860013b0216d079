// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package recommend

import (
	"sort"
	"strings"
)

// matchContent implements content-based filtering over the catalog.
//
// The user's keyword set is the lowercased union of skills and interests.
// An item is included when any keyword appears as a substring of its
// lowercased category, description or title, and the item is not in the
// user's interacted set. Included items are ordered by rating descending
// with the catalog's relative order preserved on ties, then truncated.
//
// An empty keyword set or empty catalog yields nil: a valid "no data"
// result, not an error.
func matchContent(p *UserProfile, catalog []ContentItem, topN int) []Recommendation {
	keywords := p.Keywords()
	if len(keywords) == 0 || len(catalog) == 0 {
		return nil
	}

	interacted := p.interactedSet()

	matched := make([]ContentItem, 0, len(catalog))
	for _, item := range catalog {
		if _, seen := interacted[item.ID]; seen {
			continue
		}
		if matchesAnyKeyword(item, keywords) {
			matched = append(matched, item)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Rating > matched[j].Rating
	})

	if len(matched) > topN {
		matched = matched[:topN]
	}

	recs := make([]Recommendation, 0, len(matched))
	for _, item := range matched {
		recs = append(recs, Recommendation{
			ID:          item.ID,
			Title:       item.Title,
			Category:    item.Category,
			Description: item.Description,
			Link:        item.Link,
			EmbedLink:   EmbedLink(item.Link),
			Rating:      item.Rating,
		})
	}
	return recs
}

// matchesAnyKeyword tests keyword substring presence in the item's
// category, description or title.
func matchesAnyKeyword(item ContentItem, keywords []string) bool {
	category := strings.ToLower(item.Category)
	description := strings.ToLower(item.Description)
	title := strings.ToLower(item.Title)

	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(category, kw) ||
			strings.Contains(description, kw) ||
			strings.Contains(title, kw) {
			return true
		}
	}
	return false
}
