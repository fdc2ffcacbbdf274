package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlog/paperlog-server/internal/auth"
	domainerrors "github.com/paperlog/paperlog-server/internal/errors"
	"github.com/paperlog/paperlog-server/internal/store"
	"github.com/paperlog/paperlog-server/internal/validation"
)

const testAuthKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// setupAuthTest creates auth and session services backed by a temporary
// store.
func setupAuthTest(t *testing.T) (*AuthService, *SessionService, *store.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	tokenService, err := auth.NewTokenService(testAuthKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessionService := NewSessionService(s, tokenService, nil)
	authService := NewAuthService(s, tokenService, sessionService, validation.New(), nil)

	return authService, sessionService, s
}

func setupTestUser(t *testing.T, authService *AuthService) *AuthResponse {
	t.Helper()

	resp, err := authService.Setup(context.Background(), SetupRequest{
		Email:       "reader@example.com",
		Password:    "SecurePassword123",
		DisplayName: "Reader",
	})
	require.NoError(t, err)
	return resp
}

func TestAuthService_Setup(t *testing.T) {
	authService, _, _ := setupAuthTest(t)

	resp := setupTestUser(t, authService)

	assert.NotNil(t, resp.User)
	assert.Equal(t, "reader@example.com", resp.User.Email)
	assert.Equal(t, "Reader", resp.User.DisplayName)
	assert.NotEmpty(t, resp.User.ID)
	assert.Empty(t, resp.User.PasswordHash, "password hash must not leave the service")

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.SessionID)
}

func TestAuthService_Setup_OnlyOnce(t *testing.T) {
	authService, _, _ := setupAuthTest(t)

	setupTestUser(t, authService)

	_, err := authService.Setup(context.Background(), SetupRequest{
		Email:       "other@example.com",
		Password:    "AnotherPassword123",
		DisplayName: "Other",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAlreadyConfigured))
}

func TestAuthService_Setup_Validation(t *testing.T) {
	authService, _, _ := setupAuthTest(t)

	_, err := authService.Setup(context.Background(), SetupRequest{
		Email:       "not-an-email",
		Password:    "short",
		DisplayName: "",
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
}

func TestAuthService_Login(t *testing.T) {
	authService, _, _ := setupAuthTest(t)
	setupTestUser(t, authService)

	resp, err := authService.Login(context.Background(), LoginRequest{
		Email:    "reader@example.com",
		Password: "SecurePassword123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	authService, _, _ := setupAuthTest(t)
	setupTestUser(t, authService)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "reader@example.com", "WrongPassword123"},
		{"unknown email", "nobody@example.com", "SecurePassword123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Login(context.Background(), LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		})
	}
}

func TestAuthService_RefreshTokens_Rotation(t *testing.T) {
	authService, _, _ := setupAuthTest(t)
	setup := setupTestUser(t, authService)

	ctx := context.Background()

	refreshed, err := authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: setup.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, setup.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is dead after rotation
	_, err = authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: setup.RefreshToken,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired))

	// The rotated token still works
	_, err = authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: refreshed.RefreshToken,
	})
	require.NoError(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	authService, _, _ := setupAuthTest(t)
	setup := setupTestUser(t, authService)

	ctx := context.Background()

	require.NoError(t, authService.Logout(ctx, setup.RefreshToken))

	_, err := authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: setup.RefreshToken,
	})
	require.Error(t, err)

	// Logging out twice is a no-op
	require.NoError(t, authService.Logout(ctx, setup.RefreshToken))
}

func TestAuthService_VerifyAccessToken(t *testing.T) {
	authService, _, _ := setupAuthTest(t)
	setup := setupTestUser(t, authService)

	ctx := context.Background()

	user, claims, err := authService.VerifyAccessToken(ctx, setup.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, setup.User.ID, user.ID)
	assert.Equal(t, setup.User.ID, claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)

	_, _, err = authService.VerifyAccessToken(ctx, "v4.local.garbage")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
}
