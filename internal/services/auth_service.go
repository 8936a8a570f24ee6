package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"authapi/internal/logging"
	"authapi/internal/models"
	"authapi/internal/repository"
	"authapi/internal/validation"
)

const DefaultResetTokenTTL = 600 * time.Second

// AuthService implements the registration, login and password reset
// flows. Requests are expected to be validated by the caller.
type AuthService struct {
	users    repository.UserRepository
	resets   repository.PasswordResetRepository
	hasher   PasswordHasher
	issuer   *TokenIssuer
	mailer   EmailSender
	resetTTL time.Duration
	log      logging.Logger
}

// NewAuthService wires the flows to their collaborators. mailer may be nil,
// in which case reset tokens are only returned to the caller.
func NewAuthService(
	users repository.UserRepository,
	resets repository.PasswordResetRepository,
	hasher PasswordHasher,
	issuer *TokenIssuer,
	mailer EmailSender,
	resetTTL time.Duration,
	log logging.Logger,
) *AuthService {
	if resetTTL <= 0 {
		resetTTL = DefaultResetTokenTTL
	}
	return &AuthService{
		users:    users,
		resets:   resets,
		hasher:   hasher,
		issuer:   issuer,
		mailer:   mailer,
		resetTTL: resetTTL,
		log:      log,
	}
}

// Register creates an account. A taken email is reported as a
// *validation.Error on the email field.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := NormalizeEmail(req.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, emailTakenError()
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, oops.Code("REGISTER_FAILED").With("operation", "GetByEmail").Wrap(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, oops.Code("REGISTER_FAILED").With("operation", "Hash").Wrap(err)
	}

	first, last := SplitFullName(strings.TrimSpace(req.FullName))
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    first,
		LastName:     last,
		PasswordHash: hash,
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, emailTakenError()
		}
		return nil, oops.Code("REGISTER_FAILED").With("operation", "Create").Wrap(err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error) {
	return s.issuer.Obtain(ctx, req.Email, req.Password)
}

func (s *AuthService) RefreshToken(ctx context.Context, req models.RefreshRequest) (string, error) {
	return s.issuer.Refresh(req.Refresh)
}

// ForgotPassword issues a reset token for the account with the given email
// and returns it. Earlier tokens for the same account stay valid until
// they expire or are used.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", oops.Code("RESET_REQUEST_FAILED").With("operation", "GetByEmail").Wrap(err)
	}

	token := uuid.NewString()
	if err := s.resets.Create(ctx, token, u.ID, s.resetTTL); err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").With("operation", "Create").Wrap(err)
	}
	s.log.Info(ctx, "reset token issued", "user_id", u.ID)

	if s.mailer != nil {
		if err := s.mailer.Send(u.Email, "Reset your password", resetEmailBody(token, s.resetTTL)); err != nil {
			s.log.Warn(ctx, "reset email not sent", "user_id", u.ID, "error", err)
		}
	}
	return token, nil
}

// ResetPassword sets a new password for the account the token points to
// and consumes the token. Unknown or expired tokens yield
// ErrInvalidResetToken with no account changed.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	userID, err := s.resets.GetUserID(ctx, req.Token)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			return ErrInvalidResetToken
		}
		return oops.Code("RESET_PASSWORD_FAILED").With("operation", "GetUserID").Wrap(err)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return oops.Code("RESET_PASSWORD_FAILED").With("operation", "Hash").Wrap(err)
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.consume(ctx, req.Token, userID)
			return ErrInvalidResetToken
		}
		return oops.Code("RESET_PASSWORD_FAILED").With("operation", "UpdatePasswordHash").Wrap(err)
	}

	s.consume(ctx, req.Token, userID)
	s.log.Info(ctx, "password reset", "user_id", userID)
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, oops.Code("PROFILE_FAILED").With("operation", "GetByID").Wrap(err)
	}
	return u, nil
}

// consume deletes a reset entry. The password change has already been
// committed at this point, so a failure is logged rather than returned.
func (s *AuthService) consume(ctx context.Context, token, userID string) {
	if err := s.resets.Delete(ctx, token); err != nil {
		s.log.Warn(ctx, "reset token not deleted", "user_id", userID, "error", err)
	}
}

// SplitFullName splits on the first space. "Jane" yields ("Jane", "").
func SplitFullName(fullName string) (first, last string) {
	first, last, _ = strings.Cut(fullName, " ")
	return first, last
}

func emailTakenError() error {
	return validation.NewFieldError("email", "user with this email already exists.")
}

func resetEmailBody(token string, ttl time.Duration) string {
	return fmt.Sprintf("Use this token to reset your password:\n\n%s\n\nThis token expires in %d minutes.", token, int(ttl.Minutes()))
}
