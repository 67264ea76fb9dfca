package service

import (
	"context"
	"time"

	"order-api/internal/models"
	"order-api/internal/util"

	"go.uber.org/zap"
)

// SessionCache is the optional Redis fast path in front of the session store.
type SessionCache interface {
	CacheSession(ctx context.Context, token string, userID int64, ttl time.Duration) error
	LookupSession(ctx context.Context, token string) (int64, bool, error)
	RevokeUserSessions(ctx context.Context, userID int64) error
}

// SessionService issues, revokes and validates opaque bearer tokens. The
// database is the source of truth; the cache only ever shortens the hot path
// and every cache failure falls back to the store.
type SessionService struct {
	store  SessionStore
	cache  SessionCache
	logger *zap.Logger
}

// NewSessionService creates a new session service. cache may be nil.
func NewSessionService(store SessionStore, cache SessionCache) *SessionService {
	return &SessionService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Issue creates a new session for the user and returns its token.
func (s *SessionService) Issue(ctx context.Context, userID int64) (string, error) {
	session, err := s.store.CreateSession(ctx, userID)
	if err != nil {
		return "", err
	}

	util.SessionsIssuedTotal.Inc()

	if s.cache != nil {
		ttl := time.Until(session.ExpiresAt)
		if err := s.cache.CacheSession(ctx, session.Token, userID, ttl); err != nil {
			s.logger.Warn("Failed to cache session",
				zap.Int64("user_id", userID),
				zap.Error(err))
		}
	}

	return session.Token, nil
}

// RevokeAll deletes every session for the user, cache first. Validate trusts
// cache hits, so a failed cache revocation must fail the whole call: a stale
// entry would otherwise keep authenticating until its TTL runs out.
func (s *SessionService) RevokeAll(ctx context.Context, userID int64) error {
	if s.cache != nil {
		if err := s.cache.RevokeUserSessions(ctx, userID); err != nil {
			s.logger.Error("Failed to revoke cached sessions",
				zap.Int64("user_id", userID),
				zap.Error(err))
			return err
		}
	}

	if err := s.store.DeleteUserSessions(ctx, userID); err != nil {
		return err
	}

	util.SessionsRevokedTotal.Inc()
	return nil
}

// Validate resolves a token to its session, or nil when the token is unknown
// or expired. Cache entries expire together with the session, so a cache hit
// is always a valid session.
func (s *SessionService) Validate(ctx context.Context, token string) (*models.Session, error) {
	if s.cache != nil {
		userID, found, err := s.cache.LookupSession(ctx, token)
		if err != nil {
			s.logger.Warn("Session cache lookup failed, falling back to DB", zap.Error(err))
		} else if found {
			util.SessionCacheHitsTotal.Inc()
			return &models.Session{UserID: userID, Token: token}, nil
		}
		util.SessionCacheMissesTotal.Inc()
	}

	session, err := s.store.GetSessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.CacheSession(ctx, session.Token, session.UserID, time.Until(session.ExpiresAt)); err != nil {
			s.logger.Warn("Failed to backfill session cache", zap.Error(err))
		}
	}

	return session, nil
}
