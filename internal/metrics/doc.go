// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

// Package metrics defines the Prometheus instrumentation for the service:
// recommendation request counts and latency per strategy, model training
// and evaluation runs, API endpoint latency, and document store activity.
//
// All collectors are registered on the default registry via promauto and
// exposed by the /metrics endpoint.
package metrics
