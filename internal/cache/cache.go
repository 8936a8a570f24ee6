// Package cache provides the ephemeral key/value store used for
// short-lived records such as password reset tokens.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or has expired.
var ErrMiss = errors.New("cache: key not found")

// Cache is a key/value store with per-entry expiry. Expiry is enforced by
// the backing store; callers never sweep entries themselves.
type Cache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
