// internal/routes/routes.go
package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"authapi/internal/cache"
	"authapi/internal/config"
	"authapi/internal/handlers"
	"authapi/internal/logging"
	"authapi/internal/middleware"
)

func SetupRoutes(db *sql.DB, c cache.Cache, cfg *config.Config, log logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	base := handlers.NewBaseHandler(db, c)
	r.Get("/", base.Root)
	r.Get("/health", base.Health)

	RegisterSwaggerRoutes(r)

	r.Route("/api", func(r chi.Router) {
		RegisterAuthRoutes(r, db, c, cfg, log)
	})

	return r
}
