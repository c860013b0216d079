// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the router-level settings.
type RouterConfig struct {
	CORSOrigins     []string
	RateLimitReqs   int
	RateLimitWindow time.Duration
	Timeout         time.Duration
}

// NewRouter builds the service's HTTP handler.
func NewRouter(h *Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.Timeout(cfg.Timeout))
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(RateLimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))

	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/recommendations", func(r chi.Router) {
			r.With(Instrument("/recommendations/content")).
				Get("/content/{userID}", h.RecommendContent)
			r.With(Instrument("/recommendations/peers")).
				Get("/peers/{userID}", h.RecommendPeers)
			r.With(Instrument("/recommendations/skills")).
				Get("/skills/{userID}", h.RecommendSkills)
			r.With(Instrument("/recommendations/latent")).
				Get("/latent/{userID}", h.RecommendLatent)
		})

		r.With(Instrument("/students/top")).Get("/students/top", h.TopStudents)
		r.With(Instrument("/students/import")).Post("/students/import", h.ImportStudents)

		r.With(Instrument("/evaluation")).Get("/evaluation", h.Evaluate)

		r.Route("/users", func(r chi.Router) {
			r.With(Instrument("/users")).Get("/{userID}", h.GetUser)
			r.With(Instrument("/users")).Put("/{userID}", h.UpsertUser)
		})

		r.Route("/contents", func(r chi.Router) {
			r.With(Instrument("/contents")).Get("/", h.ListContents)
			r.With(Instrument("/contents")).Put("/", h.PutContents)
		})
	})

	return r
}
