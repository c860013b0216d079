// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package recommend

import "errors"

// Sentinel errors for the recommendation core.
//
// The boundary contract distinguishes three failure classes:
//
//   - Data-shape errors (ErrDataFormat): a collaborator handed us a payload
//     whose structure is wrong (e.g. catalog is neither a list nor a mapping).
//     Logged and degraded to an empty result.
//   - Parse errors (ErrParse): a serialized column or remote response could
//     not be decoded. The ratings path treats this as fatal for the whole
//     build; the LLM path degrades to empty.
//   - Unavailability (ErrUnavailable): a backing store or remote service is
//     not reachable. Always degraded to an empty result.
//
// Not-found conditions (unknown user, empty candidate pool, empty vocabulary)
// are NOT errors: they are valid empty results and no sentinel exists for them.
var (
	// ErrDataFormat indicates an unexpected shape where a list or mapping
	// was expected.
	ErrDataFormat = errors.New("unexpected data shape")

	// ErrParse indicates malformed serialized data.
	ErrParse = errors.New("malformed serialized data")

	// ErrUnavailable indicates a backing store or remote service failure.
	ErrUnavailable = errors.New("collaborator unavailable")
)
