package api

import (
	"errors"
	"time"

	"github.com/rpupo63/portfolio-api/auth"
	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/services"
)

// initializeHandlers builds the services and the handlers that front them
func initializeHandlers(database database.Database, r router) (*routeHandlers, error) {
	secret := config.GetString(r.config, "JWT_SECRET", "")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}
	if r.images == nil {
		return nil, errors.New("no image store configured")
	}

	tokenTTL := config.GetDuration(r.config, "ACCESS_TOKEN_EXPIRE_MINUTES", 30, time.Minute)
	authService := services.NewAuthService(database, auth.NewTokenIssuer(secret, tokenTTL))
	contentService := services.NewContentService(database, r.images)
	interactionService := services.NewInteractionService(database, r.notifier)

	maxUploadBytes := int64(config.GetInt(r.config, "MAX_UPLOAD_MB", 10)) << 20

	return &routeHandlers{
		authService:        authService,
		authHandler:        newAuthHandler(authService),
		blogPostHandler:    newBlogPostHandler(contentService, maxUploadBytes),
		projectHandler:     newProjectHandler(contentService, maxUploadBytes),
		interactionHandler: newInteractionHandler(interactionService),
		systemHandler:      newSystemHandler(database, r.startupTime),
	}, nil
}
