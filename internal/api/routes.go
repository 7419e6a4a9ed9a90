package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", HeaderUserID, HeaderSessionID, HeaderClientID},
		ExposedHeaders: []string{HeaderBucket},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", h.health.HandleHealth)
	r.Get("/health/live", h.health.HandleLiveness)
	r.Get("/health/ready", h.health.HandleReadiness)

	r.Route("/api", func(r chi.Router) {
		r.Use(identityMiddleware)

		r.Post("/chat", h.Chat)

		r.Route("/signals", func(r chi.Router) {
			r.Post("/", h.RecordSignal)
			r.Post("/analyze", h.AnalyzeSignal)
		})

		r.Route("/patterns", func(r chi.Router) {
			r.Get("/snapshot", h.PatternSnapshot)
			r.Get("/insights", h.PatternInsights)
			r.Get("/phase", h.PhaseCopy)
		})

		r.Route("/reflection", func(r chi.Router) {
			r.Post("/evaluate", h.EvaluateReflection)
			r.Post("/dismiss", h.DismissReflection)
			r.Post("/reset", h.ResetReflection)
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/mode", h.GetMode)
			r.Put("/mode", h.SetMode)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})

	return r
}
