package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/services"
)

// interactionHandler serves comments and likes. Each route is bound to one ContentKind.
type interactionHandler struct {
	responder          Responder
	logger             zerolog.Logger
	interactionService *services.InteractionService
}

func newInteractionHandler(interactionService *services.InteractionService) interactionHandler {
	logger := log.With().Str("handlerName", "interactionHandler").Logger()

	return interactionHandler{
		responder:          NewResponder(logger),
		logger:             logger,
		interactionService: interactionService,
	}
}

// addComment comments on a blog post or project
// @Summary Comment on content
// @Tags Interactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Param comment body models.CommentRequest true "Comment"
// @Success 200 {object} models.CommentView "Created comment"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not Found - Content not found"
// @Router /blog/{id}/comment [post]
// @Router /projects/{id}/comment [post]
func (h interactionHandler) addComment(kind models.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseContentID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req models.CommentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment, err := h.interactionService.AddComment(r.Context(), kind, id, req, ctxGetUser(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, comment)
	}
}

// toggleLike likes or unlikes a blog post or project for the caller
// @Summary Toggle like
// @Tags Interactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Success 200 {object} models.LikeResult "Like state after the toggle"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not Found - Content not found"
// @Router /blog/{id}/like [post]
// @Router /projects/{id}/like [post]
func (h interactionHandler) toggleLike(kind models.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseContentID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.interactionService.ToggleLike(r.Context(), kind, id, ctxGetUser(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, result)
	}
}
