package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-api/auth"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

// AuthService registers users, logs them in and resolves bearer tokens back to users.
type AuthService struct {
	db     database.Database
	tokens *auth.TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(db database.Database, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		db:     db,
		tokens: tokens,
		logger: log.With().Str("serviceName", "authService").Logger(),
	}
}

// Register creates a user. Duplicate usernames or emails, and any store failure on the
// way, are reported as conflicts.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, errs.NewValidationError(err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to hash password", err)
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		IsAdmin:        models.IsBootstrapAdmin(req.Username),
	}

	err = s.db.Transaction(ctx, func(tx database.Database) error {
		taken, err := tx.UserRepo().UsernameTaken(req.Username)
		if err != nil {
			return err
		}
		if taken {
			return errs.NewConflict("Username already registered")
		}

		taken, err = tx.UserRepo().EmailTaken(req.Email)
		if err != nil {
			return err
		}
		if taken {
			return errs.NewConflict("Email already registered")
		}

		return tx.UserRepo().Add(user)
	})
	if err != nil {
		if errs.IsConflict(err) {
			return nil, err
		}
		s.logger.Warn().Err(err).Str("username", req.Username).Msg("registration failed")
		return nil, errs.NewConflict("Registration failed. User may already exist.")
	}

	s.logger.Info().Uint("userID", user.ID).Bool("isAdmin", user.IsAdmin).Msg("user registered")
	return user, nil
}

// Login checks the credentials and issues a bearer token
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.Token, error) {
	if err := req.Validate(); err != nil {
		return nil, errs.NewValidationError(err)
	}

	badCredentials := errs.NewUnauthenticated("Incorrect username or password")

	user, err := s.db.WithContext(ctx).UserRepo().FindByUsername(req.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, badCredentials
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}

	ok, err := auth.CheckPassword(user.HashedPassword, req.Password)
	if err != nil {
		s.logger.Error().Err(err).Uint("userID", user.ID).Msg("stored password hash is unreadable")
		return nil, badCredentials
	}
	if !ok {
		return nil, badCredentials
	}

	token, err := s.tokens.Issue(user.Username, user.IsAdmin)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to issue token", err)
	}
	return &models.Token{AccessToken: token, TokenType: auth.TokenType}, nil
}

// Authenticate resolves a raw bearer token to the user it names
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	if rawToken == "" {
		return nil, errs.NewMissingTokenError()
	}

	claims, err := s.tokens.Parse(rawToken)
	if errors.Is(err, auth.ErrExpiredToken) {
		return nil, errs.NewExpiredTokenError()
	}
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}

	user, err := s.db.WithContext(ctx).UserRepo().FindByUsername(claims.Username())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewInvalidTokenError(err)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	return user, nil
}
