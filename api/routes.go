package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public surface, the auth flow, and the admin
// surface. Admin API routes sit behind the edge guard middleware; the
// handlers behind it re-check on their own.
func setupRoutes(r chi.Router, handlers *routeHandlers, guard guardMiddleware, adminDir string, startupTime time.Time) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", healthHandler(startupTime, guard.responder))

		r.Get("/api/projects", handlers.projectHandler.getAllProjects())
		r.Get("/api/projects/{projectID}", handlers.projectHandler.getProject())

		r.Post("/api/contact", handlers.contactHandler.submit())

		r.Get("/api/auth/signin", handlers.authHandler.signIn())
		r.Get("/api/auth/callback/google", handlers.authHandler.callback())
		r.Post("/api/auth/signout", handlers.authHandler.signOut())
		r.Get("/api/auth/session", handlers.authHandler.session())
	})

	// Authenticated (any signed-in user)
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(guard.requireSession)

		r.Get("/api/csrf", handlers.csrfHandler.issue())
		r.Post("/api/csrf/verify", handlers.csrfHandler.verify())
	})

	// Admin API — edge guard keyed on these routes, per-handler checks inside
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(guard.requireAdminAPI)

		r.Post("/api/projects", handlers.projectHandler.createProject())
		r.Put("/api/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/api/projects/{projectID}", handlers.projectHandler.deleteProject())

		r.Get("/api/contact/message", handlers.contactHandler.listMessages())
		r.Get("/api/contact/{messageID}", handlers.contactHandler.getMessage())
		r.Patch("/api/contact/{messageID}", handlers.contactHandler.markMessageRead())
		r.Delete("/api/contact/{messageID}", handlers.contactHandler.deleteMessage())

		r.Get("/api/users", handlers.userHandler.getAllUsers())
		r.Patch("/api/users/{email}/role", handlers.userHandler.updateUserRole())
	})

	// Admin pages — coarse path-prefix guard with redirect semantics
	r.Route("/admin", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(guard.requireAdminPage)

		fileServer := http.StripPrefix("/admin", http.FileServer(http.Dir(adminDir)))
		r.Handle("/*", fileServer)
		r.Handle("/", fileServer)
	})
}
