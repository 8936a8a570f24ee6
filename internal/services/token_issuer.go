package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/oops"

	"authapi/internal/models"
	"authapi/internal/repository"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims carried by both access and refresh tokens. TokenType keeps a
// refresh token from being accepted where an access token is expected.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
	UserID    string `json:"user_id"`
}

// TokenIssuer verifies credentials and issues signed HS256 token pairs.
type TokenIssuer struct {
	users      repository.UserRepository
	hasher     PasswordHasher
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(users repository.UserRepository, hasher PasswordHasher, secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		users:      users,
		hasher:     hasher,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Obtain checks email and password and returns a fresh token pair.
// Unknown emails, inactive accounts and wrong passwords are all reported
// as ErrAuthenticationFailed.
func (i *TokenIssuer) Obtain(ctx context.Context, email, password string) (models.TokenPair, error) {
	u, err := i.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.TokenPair{}, ErrAuthenticationFailed
		}
		return models.TokenPair{}, oops.Code("LOGIN_FAILED").With("operation", "GetByEmail").Wrap(err)
	}
	if !u.IsActive || !i.hasher.Verify(password, u.PasswordHash) {
		return models.TokenPair{}, ErrAuthenticationFailed
	}

	access, err := i.issue(u.ID, TokenTypeAccess, i.accessTTL)
	if err != nil {
		return models.TokenPair{}, oops.Code("LOGIN_FAILED").With("operation", "SignAccess").Wrap(err)
	}
	refresh, err := i.issue(u.ID, TokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return models.TokenPair{}, oops.Code("LOGIN_FAILED").With("operation", "SignRefresh").Wrap(err)
	}
	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (i *TokenIssuer) Refresh(refreshToken string) (string, error) {
	claims, err := i.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	access, err := i.issue(claims.UserID, TokenTypeAccess, i.accessTTL)
	if err != nil {
		return "", oops.Code("REFRESH_FAILED").With("operation", "SignAccess").Wrap(err)
	}
	return access, nil
}

// ParseAccess returns the user id of a valid access token.
func (i *TokenIssuer) ParseAccess(token string) (string, error) {
	claims, err := i.parse(token, TokenTypeAccess)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (i *TokenIssuer) issue(userID, tokenType string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
		UserID:    userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *TokenIssuer) parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NormalizeEmail lower-cases the domain part of an address and trims
// surrounding whitespace. The local part is kept as entered.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
