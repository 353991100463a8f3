package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		// Each simulate request drives a full oracle-backed run; cap
		// concurrent runs instead of queueing unbounded work.
		r.With(middleware.ThrottleBacklog(8, 16, 30*time.Second)).
			Post("/simulate", h.Simulate)

		r.Get("/audiences", h.ListAudiences)

		r.Get("/history", h.ListHistory)
		r.Get("/history/{id}", h.GetHistoryRun)
		r.Delete("/history", h.ClearHistory)
	})

	return r
}
