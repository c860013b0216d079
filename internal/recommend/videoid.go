// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package recommend

import "regexp"

// videoIDPattern tolerantly matches the known YouTube URL shapes
// (watch, embed, /v/, shortlink, nocookie) and captures the 11-character
// video identifier. Anchored at the start: the host must be a YouTube host.
var videoIDPattern = regexp.MustCompile(
	`^(?:https?://)?(?:www\.)?` +
		`(?:youtube|youtu|youtube-nocookie)\.(?:com|be)/` +
		`(?:watch\?v=|embed/|v/|.+\?v=)?([^&=%?]{11})`)

// ExtractVideoID returns the 11-character video identifier embedded in a
// URL, or "" when the URL is empty or matches no known shape. A missing
// identifier is not an error; the item simply gets no embeddable link.
func ExtractVideoID(url string) string {
	if url == "" {
		return ""
	}
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// EmbedLink builds an embeddable player URL from a content link, or ""
// when no video identifier can be extracted.
func EmbedLink(url string) string {
	id := ExtractVideoID(url)
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}
