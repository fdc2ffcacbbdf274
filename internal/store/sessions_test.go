package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlog/paperlog-server/internal/domain"
)

func testSession(id, userID, tokenHash string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        now.Add(24 * time.Hour),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
}

func TestCreateSession_AndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session := testSession("session-1", "user-1", "hash-1")
	require.NoError(t, s.CreateSession(ctx, session))

	got, err := s.GetSession(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "hash-1", got.RefreshTokenHash)
}

func TestGetSession_Expired(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session := testSession("session-1", "user-1", "hash-1")
	session.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, s.CreateSession(ctx, session))

	_, err := s.GetSession(ctx, "session-1")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestGetSessionByRefreshToken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, testSession("session-1", "user-1", "hash-1")))

	got, err := s.GetSessionByRefreshToken(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.ID)

	_, err = s.GetSessionByRefreshToken(ctx, "unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUpdateSession_TokenRotation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session := testSession("session-1", "user-1", "hash-old")
	require.NoError(t, s.CreateSession(ctx, session))

	session.RefreshTokenHash = "hash-new"
	require.NoError(t, s.UpdateSession(ctx, session))

	got, err := s.GetSessionByRefreshToken(ctx, "hash-new")
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.ID)

	// Old token index must be gone.
	_, err = s.GetSessionByRefreshToken(ctx, "hash-old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, testSession("session-1", "user-1", "hash-1")))

	require.NoError(t, s.DeleteSession(ctx, "session-1"))
	require.NoError(t, s.DeleteSession(ctx, "session-1"))

	_, err := s.GetSession(ctx, "session-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListUserSessions_SkipsExpired(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, testSession("session-1", "user-1", "hash-1")))

	expired := testSession("session-2", "user-1", "hash-2")
	expired.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, s.CreateSession(ctx, expired))

	require.NoError(t, s.CreateSession(ctx, testSession("session-3", "user-2", "hash-3")))

	sessions, err := s.ListUserSessions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "session-1", sessions[0].ID)
}

func TestDeleteAllUserSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, testSession("session-1", "user-1", "hash-1")))
	require.NoError(t, s.CreateSession(ctx, testSession("session-2", "user-1", "hash-2")))

	require.NoError(t, s.DeleteAllUserSessions(ctx, "user-1"))

	sessions, err := s.ListUserSessions(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
