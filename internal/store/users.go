package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"order-api/internal/models"
	"order-api/internal/util"
)

// GetUserByEmail retrieves a user by email, returning nil when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserEmailExists checks whether a user with the email already exists.
func (s *Store) UserEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email)
	return exists, err
}

// CreateUser hashes the password and inserts a new user. The returned user
// never carries the password hash.
func (s *Store) CreateUser(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := util.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	var user models.User
	query := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, created_at, updated_at`

	if err := s.db.GetContext(ctx, &user, query, name, email, hash); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}
