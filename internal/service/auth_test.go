package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, "test-secret")
	ctx := context.Background()

	token, err := auth.Register(ctx, "Marie", "marie@example.com", "motdepasse123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "Marie", claims.Username)

	loginToken, err := auth.Login(ctx, "marie@example.com", "motdepasse123")
	require.NoError(t, err)
	loginClaims, err := auth.ValidateToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, loginClaims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := auth.Register(ctx, "Marie", "marie@example.com", "motdepasse123")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "Autre Marie", "marie@example.com", "autremotdepasse")
	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := auth.Register(ctx, "Marie", "marie@example.com", "motdepasse123")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "marie@example.com", "mauvais")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "inconnue@example.com", "motdepasse123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, "secret-a")
	ctx := context.Background()

	token, err := auth.Register(ctx, "Marie", "marie@example.com", "motdepasse123")
	require.NoError(t, err)

	other := NewAuthService(db, "secret-b")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
