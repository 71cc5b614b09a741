package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/services"
)

type authHandler struct {
	responder   Responder
	logger      zerolog.Logger
	authService *services.AuthService
}

func newAuthHandler(authService *services.AuthService) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		authService: authService,
	}
}

// register creates a new account
// @Summary Register user
// @Description Creates an account. The username "admin" (any case) is granted admin rights.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body models.RegisterRequest true "Account data"
// @Success 200 {object} models.UserView "Created user"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid data or username/email taken"
// @Router /auth/register [post]
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.authService.Register(r.Context(), req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, models.NewUserView(*user))
	}
}

// login exchanges form credentials for a bearer token
// @Summary Log in
// @Description Checks username and password form fields and returns a bearer token
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} models.Token "Bearer token"
// @Failure 401 {object} ErrorResponse "Unauthorized - Incorrect username or password"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, maxJSONBodyBytes); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer cleanupForm(r)

		token, err := h.authService.Login(r.Context(), models.LoginRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		})
		if err != nil {
			if errs.IsUnauthenticated(err) {
				w.Header().Set("WWW-Authenticate", "Bearer")
			}
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, token)
	}
}
