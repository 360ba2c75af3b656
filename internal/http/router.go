package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"

	"taskhub/internal/auth"
	"taskhub/internal/config"
	"taskhub/internal/httputil"
	"taskhub/internal/logging"
	"taskhub/internal/metrics"
	"taskhub/internal/task"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	authMiddleware *auth.Middleware,
	taskHandler *task.Handler,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(collector.Middleware)
	r.Use(middleware.Compress(5))

	// Public routes
	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)
	r.Handle("/metrics", metrics.Handler(gatherer))

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/me", authHandler.Me)
		})
	})

	// Task routes (all require authentication)
	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Put("/{id}", taskHandler.Update)
		r.Delete("/{id}", taskHandler.Delete)
	})

	return r
}

// handleRoot mirrors the root banner the existing client checks against
// @Summary      Root
// @Description  Liveness banner
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func handleRoot(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"message": "Server is running"}, http.StatusOK)
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
