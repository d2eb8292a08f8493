package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avoronin/noteshare/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the noteshare API.
//
// Routes:
//
//	POST   /api/auth/register        → authHandler.Register
//	POST   /api/auth/login           → authHandler.Login
//	GET    /api/public/{token}       → publicHandler.Get (anonymous)
//	GET    /api/notes/{id}           → notesHandler.Get (optional auth)
//	GET    /api/notes                → notesHandler.List
//	POST   /api/notes                → notesHandler.Create
//	PUT    /api/notes/{id}           → notesHandler.Update
//	DELETE /api/notes/{id}           → notesHandler.Delete
//	POST   /api/notes/{id}/public    → notesHandler.Publish
//	DELETE /api/notes/{id}/public    → notesHandler.Unpublish
//	POST   /api/notes/{id}/share     → notesHandler.AddShare
//	DELETE /api/notes/{id}/share     → notesHandler.RemoveShare
//
// The by-id read runs behind OptionalAuth so anonymous requests reach
// the access evaluator as anonymous requesters; every other note route
// requires a valid bearer token.
func NewRouter(
	authHandler *AuthHandler,
	notesHandler *NotesHandler,
	publicHandler *PublicHandler,
	resolver middleware.TokenResolver,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/public/{token}", publicHandler.Get)

		// Read path open to anonymous requesters
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(resolver))
			r.Get("/notes/{id}", notesHandler.Get)
		})

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(resolver))
			r.Get("/notes", notesHandler.List)
			r.Post("/notes", notesHandler.Create)
			r.Put("/notes/{id}", notesHandler.Update)
			r.Delete("/notes/{id}", notesHandler.Delete)
			r.Post("/notes/{id}/public", notesHandler.Publish)
			r.Delete("/notes/{id}/public", notesHandler.Unpublish)
			r.Post("/notes/{id}/share", notesHandler.AddShare)
			r.Delete("/notes/{id}/share", notesHandler.RemoveShare)
		})
	})

	return r
}
