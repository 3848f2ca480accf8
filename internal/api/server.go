// Package api provides the HTTP API server and handlers for PromptShelf.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/promptshelf/promptshelf-server/internal/logger"
	"github.com/promptshelf/promptshelf-server/internal/media/attachments"
	"github.com/promptshelf/promptshelf-server/internal/ratelimit"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

// Config holds the HTTP settings the server needs at construction.
type Config struct {
	CORSOrigins   []string
	SecureCookies bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        store.Store
	services     *Services
	uploads      *attachments.Storage
	loginLimiter *ratelimit.KeyedRateLimiter
	cfg          Config
	router       *chi.Mux
	api          huma.API
	log          *logger.Logger
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	st store.Store,
	services *Services,
	uploads *attachments.Storage,
	loginLimiter *ratelimit.KeyedRateLimiter,
	cfg Config,
	log *logger.Logger,
) *Server {
	s := &Server{
		store:        st,
		services:     services,
		uploads:      uploads,
		loginLimiter: loginLimiter,
		cfg:          cfg,
		router:       chi.NewRouter(),
		log:          log,
		logger:       log.Logger,
	}

	s.setupMiddleware()

	config := huma.DefaultConfig("PromptShelf API", "1.0.0")
	config.Info.Description = "Personal prompt library, knowledge base and AI response archive"
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer", BearerFormat: "PASETO"},
		"cookie": {Type: "apiKey", In: "cookie", Name: SessionCookieName},
	}
	s.api = humachi.New(s.router, config)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, used by tests and OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.log.RequestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(middleware.Compress(5, "application/json"))
	s.router.Use(s.limitLogin)
	s.router.Use(s.requireAuth)
}

func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerCategoryRoutes()
	s.registerTagRoutes()
	s.registerPlatformRoutes()
	s.registerPromptRoutes()
	s.registerResponseRoutes()
	s.registerKnowledgeRoutes()
	s.registerAttachmentRoutes()
	s.registerBackupRoutes()

	// Multipart upload is served by chi directly.
	s.router.Post("/api/attachments", s.handleUploadAttachment)

	// Stored files are public and read-only.
	uploads := s.uploadsHandler()
	s.router.Get("/uploads/*", uploads)
	s.router.Head("/uploads/*", uploads)
}

// uploadsHandler serves stored attachment files by bare name. Directory
// listings and nested paths are not found.
func (s *Server) uploadsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "*")
		if !s.uploads.Exists(name) {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, s.uploads.Path(name))
	}
}
