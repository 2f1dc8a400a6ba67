// Package api provides the HTTP API server and handlers for the Taskdeck server.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taskdeckapp/taskdeck-server/internal/config"
	"github.com/taskdeckapp/taskdeck-server/internal/logger"
	"github.com/taskdeckapp/taskdeck-server/internal/ratelimit"
	"github.com/taskdeckapp/taskdeck-server/internal/store/sqlite"
)

// apiVersion is reported in the OpenAPI document and health responses.
const apiVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *sqlite.Store
	services    *Services
	router      *chi.Mux
	api         huma.API
	authLimiter *ratelimit.KeyedRateLimiter
	logger      *logger.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *sqlite.Store, services *Services, cfg *config.Config, log *logger.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:       st,
		services:    services,
		router:      router,
		authLimiter: newAuthRateLimiter(20, time.Minute, 10),
		logger:      log,
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(cfg.Server.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(s.authRateLimitMiddleware)
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig(cfg.Server.Name+" API", apiVersion)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerTaskRoutes()
	s.registerNoteRoutes()
	s.registerCollectionRoutes()
	s.registerTagRoutes()
	s.registerSearchRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// splitOrigins parses the comma-separated CORS origin list from config.
func splitOrigins(origins string) []string {
	if origins == "" {
		return []string{"*"}
	}
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
