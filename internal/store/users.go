package store

import (
	"context"
	"errors"
	"strings"

	"github.com/paperlog/paperlog-server/internal/domain"
)

var (
	// ErrUserNotFound is returned when a user cannot be found by ID or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when the email is already in use.
	ErrEmailExists = errors.New("email already in use")
)

// CreateUser creates a new user account.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	err := s.Users.Create(ctx, user.ID, user)
	if errors.Is(err, ErrAlreadyExists) {
		return ErrEmailExists
	}
	return err
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// GetUserByEmail retrieves a user by email address (case-insensitive).
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "email", email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateUser updates an existing user.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()
	err := s.Users.Update(ctx, user.ID, user)
	if errors.Is(err, ErrNotFound) {
		return ErrUserNotFound
	}
	if errors.Is(err, ErrAlreadyExists) {
		return ErrEmailExists
	}
	return err
}

// HasUsers reports whether any user account exists. Used by the
// first-run setup flow.
func (s *Store) HasUsers(ctx context.Context) (bool, error) {
	return s.Users.Any(ctx)
}

// normalizeEmail normalizes an email address for consistent lookups.
// Lowercases and trims whitespace.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
