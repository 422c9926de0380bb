// Package api provides HTTP router setup.
package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verifyyourcart/cartcheck/internal/config"
	"github.com/verifyyourcart/cartcheck/internal/database"
)

// NewRouter creates a new HTTP router with all routes configured.
// staticFS may be nil when no frontend is bundled.
func NewRouter(cfg *config.Config, engine Analyzer, store database.Store, staticFS fs.FS) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(engine, store)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		r.Get("/showcase", handler.ListShowcase)
		r.Get("/showcase/{name}", handler.GetShowcaseFile)

		r.Group(func(r chi.Router) {
			r.Use(AuditMiddleware(store))
			r.Use(RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute))

			r.Post("/analyze", handler.Analyze)
			r.Get("/audit", handler.GetAuditLogs)
		})
	})

	if cfg.Server.EnableUI {
		mountUI(r, staticFS)
	}

	return r
}

func mountUI(r chi.Router, staticFS fs.FS) {
	if staticFS != nil {
		if content, err := fs.Sub(staticFS, "static"); err == nil {
			if _, err := fs.Stat(content, "index.html"); err == nil {
				r.Handle("/*", http.FileServer(http.FS(content)))
				return
			}
		}
	}

	// Serve a simple placeholder if no static files
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Verify Your Cart</title></head>
<body>
    <h1>Verify Your Cart API</h1>
    <p><code>POST /api/v1/analyze</code> with body <code>{"url": "amazon.com/product..."}</code></p>
    <p><code>GET /api/v1/health</code> - Health check</p>
</body>
</html>`))
	})
}
