package services

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidResetToken    = errors.New("invalid or expired token")
	ErrAuthenticationFailed = errors.New("no active account found with the given credentials")
	ErrInvalidToken         = errors.New("token is invalid or expired")
)
