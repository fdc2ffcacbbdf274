package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paperlog/paperlog-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "setup",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/setup",
		Summary:     "Initial server setup",
		Description: "Creates the first user. Can only be called once.",
		Tags:        []string{"Authentication"},
	}, s.handleSetup)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns access and refresh tokens",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/refresh",
		Summary:     "Refresh tokens",
		Description: "Exchanges a refresh token for new tokens",
		Tags:        []string{"Authentication"},
	}, s.handleRefresh)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the session holding the refresh token",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)
}

// === DTOs ===

// SetupRequest is the request body for initial server setup.
type SetupRequest struct {
	Email       string `json:"email" doc:"Account email address"`
	Password    string `json:"password" doc:"Account password"`
	DisplayName string `json:"display_name" doc:"Name shown in the UI"`
}

// SetupInput wraps the setup request for Huma.
type SetupInput struct {
	Body          SetupRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
	UserAgent     string `header:"User-Agent"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" doc:"User email"`
	Password string `json:"password" doc:"User password"`
}

// LoginInput wraps the login request with headers for Huma.
type LoginInput struct {
	Body          LoginRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
	UserAgent     string `header:"User-Agent"`
}

// RefreshInput wraps the refresh request with headers for Huma.
type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" doc:"Refresh token"`
	}
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
	UserAgent     string `header:"User-Agent"`
}

// LogoutInput wraps the logout request for Huma.
type LogoutInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" doc:"Refresh token of the session to revoke"`
	}
}

// UserResponse contains user information in API responses.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Email       string    `json:"email" doc:"User email"`
	DisplayName string    `json:"display_name" doc:"Display name"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
	LastLoginAt time.Time `json:"last_login_at" doc:"Last login timestamp"`
}

// AuthResponse contains authentication tokens and user info.
type AuthResponse struct {
	AccessToken  string       `json:"access_token" doc:"PASETO access token"`
	RefreshToken string       `json:"refresh_token" doc:"Refresh token"`
	SessionID    string       `json:"session_id" doc:"Session identifier"`
	TokenType    string       `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresIn    int          `json:"expires_in" doc:"Token expiry in seconds"`
	User         UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// MessageOutput wraps a simple message response for Huma.
type MessageOutput struct {
	Body struct {
		Message string `json:"message" doc:"Success message"`
	}
}

// === Handlers ===

func (s *Server) handleSetup(ctx context.Context, input *SetupInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Setup(ctx, service.SetupRequest{
		Email:       input.Body.Email,
		Password:    input.Body.Password,
		DisplayName: input.Body.DisplayName,
		IPAddress:   extractIP(input.XForwardedFor, input.XRealIP),
		UserAgent:   input.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	ip := extractIP(input.XForwardedFor, input.XRealIP)
	if !s.loginLimiter.Allow(limiterKey(ip)) {
		if s.logger != nil {
			s.logger.Warn("Login rate limit exceeded", "ip", ip)
		}
		return nil, huma.Error429TooManyRequests("Too many login attempts. Please try again later.")
	}

	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:     input.Body.Email,
		Password:  input.Body.Password,
		IPAddress: ip,
		UserAgent: input.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.RefreshTokens(ctx, service.RefreshRequest{
		RefreshToken: input.Body.RefreshToken,
		IPAddress:    extractIP(input.XForwardedFor, input.XRealIP),
		UserAgent:    input.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*MessageOutput, error) {
	if err := s.services.Auth.Logout(ctx, input.Body.RefreshToken); err != nil {
		return nil, err
	}

	out := &MessageOutput{}
	out.Body.Message = "Logged out successfully"
	return out, nil
}

// === Helpers ===

func mapAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		SessionID:    resp.SessionID,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		User: UserResponse{
			ID:          resp.User.ID,
			Email:       resp.User.Email,
			DisplayName: resp.User.DisplayName,
			CreatedAt:   resp.User.CreatedAt,
			UpdatedAt:   resp.User.UpdatedAt,
			LastLoginAt: resp.User.LastLoginAt,
		},
	}
}

// limiterKey never lets an empty IP collapse all clients into one bucket.
func limiterKey(ip string) string {
	if ip == "" {
		return "local"
	}
	return ip
}
