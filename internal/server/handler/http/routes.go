package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"notehub/internal/middleware"
	"notehub/internal/ratelimit"
)

// Pinger reports storage reachability for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter constructs the HTTP handler serving the notehub API.
//
// Routes:
//
//	GET  /api/health          → storage reachability check
//	POST /api/register        → authHandler.Register (rate limited)
//	POST /api/login           → authHandler.Login    (rate limited)
//	POST /api/refresh         → authHandler.Refresh
//	POST /api/logout          → authHandler.Logout
//	     /api/notes...        → notesHandler   (bearer token required)
//	     /api/folders...      → foldersHandler (bearer token required)
//	     /api/tags...         → tagsHandler    (bearer token required)
//
// Middleware chain: JSON content-type enforcement, request logging,
// then per-group rate limiting and bearer-token authentication.
func NewRouter(
	authHandler *AuthHandler,
	notesHandler *NotesHandler,
	foldersHandler *FoldersHandler,
	tagsHandler *TagsHandler,
	verifier middleware.TokenVerifier,
	limiter *ratelimit.Limiter,
	db Pinger,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			if err := db.PingContext(req.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "storage unreachable"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// Credential endpoints carry a per-client rate limit
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(limiter))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(verifier))

			r.Route("/notes", func(r chi.Router) {
				r.Post("/", notesHandler.Create)
				r.Get("/", notesHandler.List)
				r.Get("/{id}", notesHandler.Get)
				r.Put("/{id}", notesHandler.Update)
				r.Delete("/{id}", notesHandler.Delete)
			})

			r.Route("/folders", func(r chi.Router) {
				r.Post("/", foldersHandler.Create)
				r.Get("/", foldersHandler.List)
				r.Put("/{id}", foldersHandler.Rename)
				r.Delete("/{id}", foldersHandler.Delete)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Post("/", tagsHandler.Create)
				r.Get("/", tagsHandler.List)
				r.Put("/{id}", tagsHandler.Rename)
				r.Delete("/{id}", tagsHandler.Delete)
			})
		})
	})

	return r
}
