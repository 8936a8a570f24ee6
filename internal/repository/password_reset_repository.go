package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"authapi/internal/cache"
)

var ErrResetTokenNotFound = errors.New("reset token not found")

const resetKeyPrefix = "reset_"

// PasswordResetRepository keeps reset token -> user id mappings in the
// ephemeral cache. Entries expire on their own; a new token for a user
// does not invalidate earlier ones.
type PasswordResetRepository interface {
	Create(ctx context.Context, token string, userID string, ttl time.Duration) error
	GetUserID(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type passwordResetRepository struct {
	cache cache.Cache
}

func NewPasswordResetRepository(c cache.Cache) PasswordResetRepository {
	return &passwordResetRepository{cache: c}
}

// ResetKey returns the cache key a reset token is stored under.
func ResetKey(token string) string {
	return resetKeyPrefix + token
}

func (r *passwordResetRepository) Create(ctx context.Context, token string, userID string, ttl time.Duration) error {
	return r.cache.Set(ctx, ResetKey(token), userID, ttl)
}

func (r *passwordResetRepository) GetUserID(ctx context.Context, token string) (string, error) {
	userID, err := r.cache.Get(ctx, ResetKey(token))
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return "", ErrResetTokenNotFound
		}
		return "", err
	}
	// Account ids are UUIDs; anything else cannot name an account.
	if _, err := uuid.Parse(userID); err != nil {
		return "", ErrResetTokenNotFound
	}
	return userID, nil
}

func (r *passwordResetRepository) Delete(ctx context.Context, token string) error {
	return r.cache.Delete(ctx, ResetKey(token))
}
