package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/services"
)

type projectHandler struct {
	responder      Responder
	logger         zerolog.Logger
	contentService *services.ContentService
	maxUploadBytes int64
}

func newProjectHandler(contentService *services.ContentService, maxUploadBytes int64) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		contentService: contentService,
		maxUploadBytes: maxUploadBytes,
	}
}

// getAllProjects lists projects in creation order
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Param skip query int false "Number of projects to skip"
// @Param limit query int false "Maximum number of projects" default(100)
// @Success 200 {array} models.ProjectView "Projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit, err := parsePage(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.contentService.ListProjects(r.Context(), skip, limit, ctxGetUser(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.ProjectView "Project"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseContentID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.contentService.GetProject(r.Context(), id, ctxGetUser(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a project from a multipart form
// @Summary Create project
// @Tags Projects
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param project_url formData string false "Live URL"
// @Param github_url formData string false "Repository URL"
// @Param image formData file false "Cover image"
// @Success 200 {object} models.ProjectView "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 403 {object} ErrorResponse "Forbidden - Not an admin"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
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

		req := models.CreateProjectRequest{
			Title:       r.PostFormValue("title"),
			Description: r.PostFormValue("description"),
			ProjectURL:  optionalFormValue(r, "project_url"),
			GithubURL:   optionalFormValue(r, "github_url"),
			Image:       image,
		}

		project, err := h.contentService.CreateProject(r.Context(), req, ctxGetUser(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} MessageResponse "Success message"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseContentID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contentService.DeleteProject(r.Context(), id, ctxGetUser(r.Context())); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, MessageResponse{Message: "Project deleted successfully"})
	}
}
