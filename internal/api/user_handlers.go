package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerUserRoutes() {
	authed := huma.Middlewares{s.requireAuth}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-current-user",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Middlewares: authed,
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-sessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/sessions",
		Summary:     "List active sessions",
		Tags:        []string{"Users"},
		Middlewares: authed,
	}, s.handleListSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "revoke-sessions",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/me/sessions",
		Summary:     "Revoke all sessions",
		Description: "Logs the user out everywhere by deleting every session",
		Tags:        []string{"Users"},
		Middlewares: authed,
	}, s.handleRevokeSessions)
}

// UserOutput wraps a user profile for Huma.
type UserOutput struct {
	Body UserResponse
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	user, err := s.services.Auth.GetUser(ctx, getUserID(ctx))
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		LastLoginAt: user.LastLoginAt,
	}}, nil
}

// SessionResponse describes one active session without token material.
type SessionResponse struct {
	ID         string    `json:"id" doc:"Session identifier"`
	CreatedAt  time.Time `json:"created_at" doc:"Session creation time"`
	LastSeenAt time.Time `json:"last_seen_at" doc:"Last refresh or login time"`
	ExpiresAt  time.Time `json:"expires_at" doc:"Refresh token expiry"`
	IPAddress  string    `json:"ip_address,omitempty" doc:"Client IP at creation"`
	UserAgent  string    `json:"user_agent,omitempty" doc:"Client user agent"`
}

// SessionsOutput wraps the session list for Huma.
type SessionsOutput struct {
	Body struct {
		Sessions []SessionResponse `json:"sessions" doc:"Active sessions, storage order"`
	}
}

func (s *Server) handleListSessions(ctx context.Context, _ *struct{}) (*SessionsOutput, error) {
	sessions, err := s.services.Session.ListUserSessions(ctx, getUserID(ctx))
	if err != nil {
		return nil, err
	}

	out := &SessionsOutput{}
	out.Body.Sessions = make([]SessionResponse, len(sessions))
	for i, sess := range sessions {
		out.Body.Sessions[i] = SessionResponse{
			ID:         sess.ID,
			CreatedAt:  sess.CreatedAt,
			LastSeenAt: sess.LastSeenAt,
			ExpiresAt:  sess.ExpiresAt,
			IPAddress:  sess.IPAddress,
			UserAgent:  sess.UserAgent,
		}
	}
	return out, nil
}

func (s *Server) handleRevokeSessions(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.services.Session.DeleteAllUserSessions(ctx, getUserID(ctx)); err != nil {
		return nil, err
	}

	out := &MessageOutput{}
	out.Body.Message = "All sessions revoked"
	return out, nil
}
