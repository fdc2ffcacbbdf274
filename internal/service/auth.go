// Package service implements the application logic on top of the store,
// auth, and catalog layers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paperlog/paperlog-server/internal/auth"
	"github.com/paperlog/paperlog-server/internal/domain"
	domainerrors "github.com/paperlog/paperlog-server/internal/errors"
	"github.com/paperlog/paperlog-server/internal/id"
	"github.com/paperlog/paperlog-server/internal/store"
	"github.com/paperlog/paperlog-server/internal/validation"
)

// AuthService handles user authentication (setup, login, token verification).
// Session management is delegated to SessionService.
type AuthService struct {
	store          *store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	validator      *validation.Validator
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		validator:      validator,
		logger:         logger,
	}
}

// SetupRequest contains the initial user creation data.
type SetupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"required"`
	IPAddress   string `json:"-"` // Extracted from request by handler
	UserAgent   string `json:"-"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"` // Extracted from request by handler
	UserAgent string `json:"-"`
}

// RefreshRequest contains the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IPAddress    string `json:"-"`
	UserAgent    string `json:"-"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Setup creates the first user and completes initial server configuration.
// This endpoint can only be used once, before any users exist.
func (s *AuthService) Setup(ctx context.Context, req SetupRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hasUsers, err := s.store.HasUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("check setup status: %w", err)
	}
	if hasUsers {
		return nil, domainerrors.AlreadyConfigured("server is already configured")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        req.Email,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		LastLoginAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Server setup complete",
			"user_id", userID,
			"email", user.Email,
		)
	}

	return &AuthResponse{
		User:            user.Sanitized(),
		SessionResponse: *sessionResp,
	}, nil
}

// Login authenticates a user and creates a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Don't leak whether email exists
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Log but don't fail login
		if s.logger != nil {
			s.logger.Warn("Failed to update last login time",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &AuthResponse{
		User:            user.Sanitized(),
		SessionResponse: *sessionResp,
	}, nil
}

// RefreshTokens generates new tokens using a refresh token.
// The old refresh token is invalidated (token rotation).
func (s *AuthService) RefreshTokens(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:            user.Sanitized(),
		SessionResponse: *sessionResp,
	}, nil
}

// Logout revokes the session holding a refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessionService.DeleteSessionByRefreshToken(ctx, refreshToken)
}

// VerifyAccessToken validates a token and returns the associated user.
// Used by authentication middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, domainerrors.Unauthorized("user not found")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}

// GetUser fetches a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user.Sanitized(), nil
}
