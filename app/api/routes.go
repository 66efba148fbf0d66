package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouterConfig tunes NewRouter.
type RouterConfig struct {
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit float64
	Burst     int
	// Registry is served on /metrics when set.
	Registry *prometheus.Registry
}

// NewRouter mounts the API routes.
func NewRouter(h *Handlers, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(CorrelationIDMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(RateLimitMiddleware(NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)))
		}

		r.Route("/divisions/{division}", func(r chi.Router) {
			r.Get("/standings", h.HandleGetStandings)
			r.Get("/standings.xlsx", h.HandleExportStandings)
			r.Get("/standings.png", h.HandleStandingsChart)
			r.Post("/recompute", h.HandleRecompute)
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", h.HandleGetMatch)
			r.Post("/scorecard/preview", h.HandlePreviewScorecard)
		})
	})

	return r
}
