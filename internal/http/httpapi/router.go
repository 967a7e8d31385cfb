package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pixremix/server/internal/http/handlers"
	"github.com/pixremix/server/internal/infra"
	"github.com/pixremix/server/internal/middleware"
)

// NewRouter wires the HTTP surface: middleware chain first, then the
// versioned routes.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/assets", func(r chi.Router) {
		r.Get("/", app.ListAssets)
		r.Post("/enrich", app.Enrich)
		r.Post("/reingest", app.Reingest)
	})

	r.Post("/v1/remix", app.Remix)

	return r
}
