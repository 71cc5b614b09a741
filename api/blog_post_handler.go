package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/services"
)

type blogPostHandler struct {
	responder      Responder
	logger         zerolog.Logger
	contentService *services.ContentService
	maxUploadBytes int64
}

func newBlogPostHandler(contentService *services.ContentService, maxUploadBytes int64) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		contentService: contentService,
		maxUploadBytes: maxUploadBytes,
	}
}

// getAllBlogPosts lists blog posts, newest first
// @Summary Get all blog posts
// @Description Lists blog posts with tags, comments and like state for the caller
// @Tags Blog Posts
// @Produce json
// @Param skip query int false "Number of posts to skip"
// @Param limit query int false "Maximum number of posts" default(100)
// @Success 200 {array} models.BlogPostView "Blog posts"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid skip or limit"
// @Router /blog [get]
func (h blogPostHandler) getAllBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit, err := parsePage(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		posts, err := h.contentService.ListBlogs(r.Context(), skip, limit, ctxGetUser(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, posts)
	}
}

// getBlogPost retrieves a specific blog post by ID
// @Summary Get blog post
// @Tags Blog Posts
// @Produce json
// @Param id path int true "Blog Post ID"
// @Success 200 {object} models.BlogPostView "Blog post"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog/{id} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseContentID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.contentService.GetBlog(r.Context(), id, ctxGetUser(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// createBlogPost creates a blog post from a multipart form
// @Summary Create blog post
// @Description Admin only. Tags are a comma separated list; the image is optional.
// @Tags Blog Posts
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param subtitle formData string false "Subtitle"
// @Param content formData string true "Content"
// @Param tags formData string false "Comma separated tags"
// @Param image formData file false "Cover image"
// @Success 200 {object} models.BlogPostView "Created blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden - Not an admin"
// @Router /blog [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, h.maxUploadBytes); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer cleanupForm(r)

		image, closeImage, err := formImage(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeImage()

		req := models.CreateBlogRequest{
			Title:    r.PostFormValue("title"),
			Subtitle: optionalFormValue(r, "subtitle"),
			Content:  r.PostFormValue("content"),
			Tags:     r.PostFormValue("tags"),
			Image:    image,
		}

		post, err := h.contentService.CreateBlog(r.Context(), req, ctxGetUser(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// clapBlogPost adds one clap to a post
// @Summary Clap for blog post
// @Tags Blog Posts
// @Produce json
// @Param id path int true "Blog Post ID"
// @Success 200 {object} models.ClapResult "Clap count"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog/{id}/clap [post]
func (h blogPostHandler) clapBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseContentID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.contentService.ClapBlog(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, result)
	}
}

// deleteBlogPost deletes a blog post by ID
// @Summary Delete blog post
// @Description Only the owner may delete a post. Comments, likes and tag links go with it.
// @Tags Blog Posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Blog Post ID"
// @Success 200 {object} MessageResponse "Success message"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog/{id} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseContentID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contentService.DeleteBlog(r.Context(), id, ctxGetUser(r.Context())); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, MessageResponse{Message: "Blog deleted successfully"})
	}
}
