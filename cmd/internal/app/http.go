package app

import (
	"net/http"
	"time"

	authapi "vrme/cmd/internal/auth/api"

	"github.com/go-chi/chi/v5"
)

const routeUnmatched = "unmatched"

func (a *App) routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(authapi.NotFound)
	r.MethodNotAllowed(authapi.MethodNotAllowed)

	r.Use(
		WithRequestID,
		WithSecurityHeaders,
		func(next http.Handler) http.Handler { return WithRequestLogging(next, a.log, a.metrics) },
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/readyz", a.handleReady)
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	a.auth.Register(r)
	return r
}

func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	if a.cfg.Readiness.RequireDB && a.db == nil {
		http.Error(w, "db not configured", http.StatusServiceUnavailable)
		return
	}

	if a.db != nil {
		if err := PingDB(r.Context(), a.db, 2*time.Second); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			a.log.Info("readyz.db.not_ready", "err", err)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready\n"))
}

// routePattern returns the matched chi pattern so metric labels stay bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return routeUnmatched
}
