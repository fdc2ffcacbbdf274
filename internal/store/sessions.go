package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/paperlog/paperlog-server/internal/domain"
)

const (
	sessionPrefix        = "session:"
	sessionByUserPrefix  = "idx:sessions:user:"  // For listing user sessions
	sessionByTokenPrefix = "idx:sessions:token:" // For refresh token lookups
)

var (
	// ErrSessionNotFound is returned when a session cannot be found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when using an expired session.
	ErrSessionExpired = errors.New("session expired")
)

// CreateSession creates a new user session.
func (s *Store) CreateSession(_ context.Context, session *domain.Session) error {
	key := []byte(sessionPrefix + session.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check session exists: %w", err)
	}
	if exists {
		return ErrAlreadyExists.WithMessage("session already exists")
	}

	tokenKey := []byte(sessionByTokenPrefix + session.RefreshTokenHash)
	userIndexKey := []byte(sessionByUserPrefix + session.UserID + ":" + session.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		// Refresh token index
		if err := txn.Set(tokenKey, []byte(session.ID)); err != nil {
			return err
		}

		// User index for listing sessions
		return txn.Set(userIndexKey, []byte{})
	})
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(_ context.Context, id string) (*domain.Session, error) {
	key := []byte(sessionPrefix + id)

	var session domain.Session
	if err := s.get(key, &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// GetSessionByRefreshToken retrieves a session by its refresh token hash.
// Used during the token refresh flow.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	tokenKey := []byte(sessionByTokenPrefix + tokenHash)

	var sessionID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			sessionID = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("lookup session by token: %w", err)
	}

	return s.GetSession(ctx, sessionID)
}

// UpdateSession updates an existing session (token rotation, last seen).
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	key := []byte(sessionPrefix + session.ID)

	// Old session needed for token index maintenance
	oldSession, err := s.GetSession(ctx, session.ID)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		// Rotate token index if the token changed
		if oldSession.RefreshTokenHash != session.RefreshTokenHash {
			oldTokenKey := []byte(sessionByTokenPrefix + oldSession.RefreshTokenHash)
			if err := txn.Delete(oldTokenKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			newTokenKey := []byte(sessionByTokenPrefix + session.RefreshTokenHash)
			if err := txn.Set(newTokenKey, []byte(session.ID)); err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteSession deletes a session (logout). Idempotent.
func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	key := []byte(sessionPrefix + sessionID)

	// Get session data (even if expired) to clean up indexes
	var session domain.Session
	if err := s.get(key, &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Already gone
		}
		return fmt.Errorf("get session for deletion: %w", err)
	}

	tokenKey := []byte(sessionByTokenPrefix + session.RefreshTokenHash)
	userIndexKey := []byte(sessionByUserPrefix + session.UserID + ":" + sessionID)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key); err != nil {
			return err
		}

		if err := txn.Delete(tokenKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Delete(userIndexKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		return nil
	})
}

// ListUserSessions returns all active sessions for a user.
func (s *Store) ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error) {
	prefix := []byte(sessionByUserPrefix + userID + ":")
	var sessions []*domain.Session

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false // Only keys needed

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			// Key format: idx:sessions:user:userID:sessionID
			key := string(it.Item().Key())
			sessionID := key[strings.LastIndex(key, ":")+1:]

			session, err := s.GetSession(ctx, sessionID)
			if err != nil {
				if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrSessionNotFound) {
					continue // Skip expired/missing sessions
				}
				return err
			}

			sessions = append(sessions, session)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}

	return sessions, nil
}

// DeleteAllUserSessions removes all sessions for a user. Used when a
// password changes to force re-authentication on all devices.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	sessions, err := s.ListUserSessions(ctx, userID)
	if err != nil {
		return fmt.Errorf("list sessions for deletion: %w", err)
	}

	for _, session := range sessions {
		if err := s.DeleteSession(ctx, session.ID); err != nil {
			return fmt.Errorf("delete session %s: %w", session.ID, err)
		}
	}

	return nil
}
