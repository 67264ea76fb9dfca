package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"order-api/internal/models"
	"order-api/internal/util"
)

// CreateSession issues a new opaque token for the user. Token uniqueness is
// enforced by the storage constraint, no collision retry.
func (s *Store) CreateSession(ctx context.Context, userID int64) (*models.Session, error) {
	token, err := util.NewSessionToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.sessionTTL)

	var session models.Session
	query := `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING user_id, token, created_at, updated_at, expires_at`

	if err := s.db.GetContext(ctx, &session, query, userID, token, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &session, nil
}

// DeleteUserSessions deletes every session row for the user.
func (s *Store) DeleteUserSessions(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = $1", userID)
	return err
}

// GetSessionByToken returns the session only if the token exists and has not
// expired. Absent or expired tokens return nil without an error.
func (s *Store) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := s.db.GetContext(ctx, &session,
		"SELECT * FROM sessions WHERE token = $1 AND expires_at > NOW()", token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}
