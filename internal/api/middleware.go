package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyEmail  contextKey = "email"
)

// requireAuth validates the Bearer access token and attaches the user
// to the request context. Registered per-operation via Middlewares.
func (s *Server) requireAuth(ctx huma.Context, next func(huma.Context)) {
	authHeader := ctx.Header("Authorization")
	if authHeader == "" {
		s.writeUnauthorized(ctx, "Missing authorization header")
		return
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		s.writeUnauthorized(ctx, "Invalid authorization header format")
		return
	}

	user, claims, err := s.services.Auth.VerifyAccessToken(ctx.Context(), parts[1])
	if err != nil {
		s.writeUnauthorized(ctx, "Invalid or expired token")
		return
	}

	ctx = huma.WithValue(ctx, contextKeyUserID, user.ID)
	ctx = huma.WithValue(ctx, contextKeyEmail, claims.Email)

	next(ctx)
}

func (s *Server) writeUnauthorized(ctx huma.Context, message string) {
	if err := huma.WriteErr(s.api, ctx, http.StatusUnauthorized, message); err != nil && s.logger != nil {
		s.logger.Error("Failed to write error response", "error", err)
	}
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// getEmail extracts the authenticated user email from request context.
func getEmail(ctx context.Context) string {
	if email, ok := ctx.Value(contextKeyEmail).(string); ok {
		return email
	}
	return ""
}

// extractIP picks the client IP from forwarding headers, first hop wins.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		if i := strings.IndexByte(xForwardedFor, ','); i >= 0 {
			return strings.TrimSpace(xForwardedFor[:i])
		}
		return xForwardedFor
	}
	return xRealIP
}
