package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	users := newFakeUserStore()
	sessions := newFakeSessionIssuer()
	svc := NewAuthService(users, sessions)

	resp, svcErr := svc.Register(context.Background(), "John Doe", "john+doe@mail.com", "password")
	require.Nil(t, svcErr)

	assert.Equal(t, "John Doe", resp.Name)
	assert.Equal(t, "john+doe@mail.com", resp.Email)
	assert.NotEmpty(t, resp.Token)

	stored := users.users["john+doe@mail.com"]
	require.NotNil(t, stored)
	assert.Equal(t, "John Doe", stored.Name)

	// Exactly one session was issued for the new user.
	require.Len(t, sessions.issued[stored.ID], 1)
	assert.Equal(t, resp.Token, sessions.issued[stored.ID][0])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	sessions := newFakeSessionIssuer()
	svc := NewAuthService(users, sessions)

	_, svcErr := svc.Register(context.Background(), "John Doe", "john@mail.com", "password")
	require.Nil(t, svcErr)

	_, svcErr = svc.Register(context.Background(), "Impostor", "john@mail.com", "password2")
	require.NotNil(t, svcErr)
	assert.Equal(t, "email is already being used", svcErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, svcErr.Status)

	// No second user row.
	assert.Len(t, users.users, 1)
	assert.Equal(t, "John Doe", users.users["john@mail.com"].Name)
}

func TestAuthenticate(t *testing.T) {
	users := newFakeUserStore()
	sessions := newFakeSessionIssuer()
	svc := NewAuthService(users, sessions)

	reg, svcErr := svc.Register(context.Background(), "Jane Doe", "jane@mail.com", "password123")
	require.Nil(t, svcErr)

	userID := users.users["jane@mail.com"].ID

	resp, svcErr := svc.Authenticate(context.Background(), "jane@mail.com", "password123")
	require.Nil(t, svcErr)

	assert.Equal(t, "Jane Doe", resp.Name)
	assert.Equal(t, "jane@mail.com", resp.Email)
	assert.NotEmpty(t, resp.Token)
	assert.NotEqual(t, reg.Token, resp.Token)

	// Prior sessions were revoked and exactly one new token remains.
	assert.Equal(t, 1, sessions.revoked[userID])
	require.Len(t, sessions.issued[userID], 1)
	assert.Equal(t, resp.Token, sessions.issued[userID][0])
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	users := newFakeUserStore()
	sessions := newFakeSessionIssuer()
	svc := NewAuthService(users, sessions)

	_, svcErr := svc.Register(context.Background(), "Jane Doe", "jane@mail.com", "password123")
	require.Nil(t, svcErr)

	_, wrongPassword := svc.Authenticate(context.Background(), "jane@mail.com", "not-the-password")
	require.NotNil(t, wrongPassword)

	_, unknownEmail := svc.Authenticate(context.Background(), "nobody@mail.com", "password123")
	require.NotNil(t, unknownEmail)

	// Both causes must produce the exact same message and status.
	assert.Equal(t, "Invalid Credentials", wrongPassword.Message)
	assert.Equal(t, wrongPassword.Message, unknownEmail.Message)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Status)
	assert.Equal(t, wrongPassword.Status, unknownEmail.Status)
}
