package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/pitchlane/interview-platform/internal/http/middleware"
	"github.com/pitchlane/interview-platform/internal/interview"
	"github.com/pitchlane/interview-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	InterviewHandler *interview.Handler
	MetricsHandler   http.Handler

	AdminAuthSecret    string
	CORSAllowedOrigins []string

	// Per-IP rate limit on session creation. Zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.InterviewHandler.HealthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Route("/interviews", func(r chi.Router) {
			if cfg.RateLimitRPS > 0 {
				r.With(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)).Post("/", cfg.InterviewHandler.Start)
			} else {
				r.Post("/", cfg.InterviewHandler.Start)
			}
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", cfg.InterviewHandler.Status)
				r.Post("/responses", cfg.InterviewHandler.Submit)
				r.Post("/end", cfg.InterviewHandler.End)
			})
		})
	})

	// Admin routes (protected by HMAC JWT)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Route("/interviews/{sessionID}", func(r chi.Router) {
				r.Get("/", cfg.InterviewHandler.AdminGet)
				r.Delete("/", cfg.InterviewHandler.AdminDelete)
			})
		})
	}

	return r
}
