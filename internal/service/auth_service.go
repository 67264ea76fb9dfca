package service

import (
	"context"
	"net/http"

	"order-api/internal/util"

	"go.uber.org/zap"
)

// SessionIssuer is the slice of session behaviour the auth use cases need.
type SessionIssuer interface {
	Issue(ctx context.Context, userID int64) (string, error)
	RevokeAll(ctx context.Context, userID int64) error
}

// AuthService handles registration and login
type AuthService struct {
	users    UserStore
	sessions SessionIssuer
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, sessions SessionIssuer) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   util.GetLogger(),
	}
}

// AuthResponse carries the public user fields plus the issued token. The id
// and password hash are never exposed.
type AuthResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// RegisterRequest represents a registration payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=60"`
}

// LoginRequest represents a login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Authenticate verifies credentials and issues a fresh session. Unknown email
// and wrong password fail identically so the response never reveals which
// case occurred.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*AuthResponse, *Error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Authenticate")
	defer span.End()

	util.LoginAttemptsTotal.Inc()

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, ErrInternal()
	}

	if user == nil {
		// Burn a comparison against the dummy hash so an unknown email
		// costs the same as a wrong password.
		util.CheckPassword(password, util.DummyPasswordHash)
		util.LoginFailuresTotal.Inc()
		return nil, NewError("Invalid Credentials", http.StatusUnauthorized)
	}

	if !util.CheckPassword(password, user.Password) {
		util.LoginFailuresTotal.Inc()
		return nil, NewError("Invalid Credentials", http.StatusUnauthorized)
	}

	if err := s.sessions.RevokeAll(ctx, user.ID); err != nil {
		s.logger.Error("Failed to revoke sessions", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, ErrInternal()
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to issue session", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, ErrInternal()
	}

	s.logger.Info("User authenticated", zap.Int64("user_id", user.ID))

	return &AuthResponse{Name: user.Name, Email: user.Email, Token: token}, nil
}

// Register creates a new user and logs them in immediately.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResponse, *Error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	exists, err := s.users.UserEmailExists(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email", zap.Error(err))
		return nil, ErrInternal()
	}

	if exists {
		return nil, NewError("email is already being used", http.StatusUnprocessableEntity)
	}

	user, err := s.users.CreateUser(ctx, name, email, password)
	if err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, ErrInternal()
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to issue session", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, ErrInternal()
	}

	util.UsersRegisteredTotal.Inc()
	s.logger.Info("User registered", zap.Int64("user_id", user.ID))

	return &AuthResponse{Name: user.Name, Email: user.Email, Token: token}, nil
}
