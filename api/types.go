package api

import "github.com/rpupo63/portfolio-api/services"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authService        *services.AuthService
	authHandler        authHandler
	blogPostHandler    blogPostHandler
	projectHandler     projectHandler
	interactionHandler interactionHandler
	systemHandler      systemHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Not Found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"blog not found"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// MessageResponse carries a single human readable message
type MessageResponse struct {
	Message string `json:"message" example:"Blog deleted successfully"`
}
