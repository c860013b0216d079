// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

// Package recommend implements the course and peer recommendation core.
//
// The package owns the domain types (profiles, catalog items, tag lists),
// the two request-time strategies that need no training pass:
//
//   - content keyword matching: lowercased skill/interest terms matched as
//     substrings against catalog category, description and title, ranked by
//     rating, interacted items excluded;
//   - peer KNN: binary tag vectors over a vocabulary built from all users,
//     ranked by cosine distance;
//
// and the Engine, which wires those strategies to the backing stores and to
// the trained collaborative-filtering models in the algorithms subpackage.
//
// Degradation discipline: missing users, empty catalogs, empty vocabularies
// and unreachable collaborators all produce empty results, never panics.
// Only the ratings build path is strict, because malformed training data
// silently skews every downstream model.
//
// Subpackages:
//
//   - ratings: implicit rating derivation from tabular student data
//   - algorithms: trained models (user-based KNN-CF, Funk SVD)
//   - evaluate: k-fold cross-validation over the trained models
//   - llm: language-model peer recommender with circuit breaking
package recommend
