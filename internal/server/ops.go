// Package server exposes the health, readiness and metrics endpoints of the agent server.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voice-agent/internal/common/logger"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// StatsFunc returns session counters for /stats.
type StatsFunc func() map[string]int

type Ops struct {
	checks       map[string]Check
	stats        StatsFunc
	checkTimeout time.Duration
	logger       logger.Logger
	now          func() time.Time
}

func NewOps(log logger.Logger, stats StatsFunc) *Ops {
	return &Ops{
		checks:       make(map[string]Check),
		stats:        stats,
		checkTimeout: 2 * time.Second,
		logger:       log,
		now:          time.Now,
	}
}

// AddCheck registers a readiness check under name.
func (o *Ops) AddCheck(name string, c Check) {
	o.checks[name] = c
}

func (o *Ops) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", o.health)
	r.Get("/ready", o.ready)
	r.Get("/stats", o.sessionStats)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (o *Ops) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   o.now().Format(time.RFC3339),
	})
}

func (o *Ops) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), o.checkTimeout)
	defer cancel()

	names := make([]string, 0, len(o.checks))
	for name := range o.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := o.checks[name](ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			o.logger.Warn("readiness check failed", map[string]interface{}{
				"check": name,
				"error": err.Error(),
			})
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": results,
		"time":   o.now().Format(time.RFC3339),
	})
}

func (o *Ops) sessionStats(w http.ResponseWriter, _ *http.Request) {
	stats := map[string]int{}
	if o.stats != nil {
		stats = o.stats()
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
