package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/storage"
)

// setupRoutes registers the public and authenticated API routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/", handlers.systemHandler.root())
		r.Get("/health", handlers.systemHandler.health())

		r.Post("/auth/register", handlers.authHandler.register())
		r.Post("/auth/login", handlers.authHandler.login())

		r.Post("/blog/{id}/clap", handlers.blogPostHandler.clapBlogPost())

		// Public reads, personalised when a token is sent
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.identify)

			r.Get("/blog", handlers.blogPostHandler.getAllBlogPosts())
			r.Get("/blog/{id}", handlers.blogPostHandler.getBlogPost())

			r.Get("/projects", handlers.projectHandler.getAllProjects())
			r.Get("/projects/{id}", handlers.projectHandler.getProject())
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Post("/blog", handlers.blogPostHandler.createBlogPost())
			r.Delete("/blog/{id}", handlers.blogPostHandler.deleteBlogPost())
			r.Post("/blog/{id}/comment", handlers.interactionHandler.addComment(models.BlogKind))
			r.Post("/blog/{id}/like", handlers.interactionHandler.toggleLike(models.BlogKind))

			r.Post("/projects", handlers.projectHandler.createProject())
			r.Delete("/projects/{id}", handlers.projectHandler.deleteProject())
			r.Post("/projects/{id}/comment", handlers.interactionHandler.addComment(models.ProjectKind))
			r.Post("/projects/{id}/like", handlers.interactionHandler.toggleLike(models.ProjectKind))
		})
	})
}

// setupUploadRoutes serves locally stored images
func setupUploadRoutes(r chi.Router, dir string) {
	fs := http.StripPrefix(storage.UploadsPath+"/", http.FileServer(http.Dir(dir)))
	r.Get(storage.UploadsPath+"/*", fs.ServeHTTP)
}
