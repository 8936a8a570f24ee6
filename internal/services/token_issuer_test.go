package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) (*TokenIssuer, *memUsers) {
	t.Helper()
	h := testHasher()
	users := newMemUsers(seededUser(h, "u1", "john.doe@example.com", "strongpass123"))
	return NewTokenIssuer(users, h, "test-secret", 5*time.Minute, 24*time.Hour), users
}

func TestObtainIssuesTypedTokens(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	pair, err := issuer.Obtain(context.Background(), "john.doe@EXAMPLE.com", "strongpass123")
	require.NoError(t, err)

	userID, err := issuer.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(pair.Refresh, claims)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, "u1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestObtainRejectsBadCredentials(t *testing.T) {
	issuer, users := newTestIssuer(t)
	ctx := context.Background()

	_, err := issuer.Obtain(ctx, "john.doe@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = issuer.Obtain(ctx, "nobody@example.com", "strongpass123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	users.byID["u1"].IsActive = false
	_, err = issuer.Obtain(ctx, "john.doe@example.com", "strongpass123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRefreshIssuesAccessToken(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	pair, err := issuer.Obtain(context.Background(), "john.doe@example.com", "strongpass123")
	require.NoError(t, err)

	access, err := issuer.Refresh(pair.Refresh)
	require.NoError(t, err)

	userID, err := issuer.ParseAccess(access)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	pair, err := issuer.Obtain(context.Background(), "john.doe@example.com", "strongpass123")
	require.NoError(t, err)

	_, err = issuer.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	expired, err := issuer.issue("u1", TokenTypeAccess, -time.Minute)
	require.NoError(t, err)
	_, err = issuer.ParseAccess(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenIssuer(nil, nil, "other-secret", time.Minute, time.Minute)
	foreign, err := other.issue("u1", TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	_, err = issuer.ParseAccess(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseAccess("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "John.Doe@example.com", NormalizeEmail("  John.Doe@EXAMPLE.com "))
	assert.Equal(t, "no-at-sign", NormalizeEmail("no-at-sign"))
}
