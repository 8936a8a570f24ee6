package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"authapi/internal/logging"
	"authapi/internal/models"
	"authapi/internal/repository"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*models.User
	err  error
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{byID: map[string]*models.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type memResets struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
}

func newMemResets() *memResets {
	return &memResets{entries: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memResets) Create(ctx context.Context, token string, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[token] = userID
	m.ttls[token] = ttl
	return nil
}

func (m *memResets) GetUserID(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.entries[token]; ok {
		return id, nil
	}
	return "", repository.ErrResetTokenNotFound
}

func (m *memResets) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, token)
	return nil
}

type recordingMailer struct {
	to, subject, body string
	err               error
}

func (r *recordingMailer) Send(to, subject, body string) error {
	r.to, r.subject, r.body = to, subject, body
	return r.err
}

var errBoom = errors.New("boom")

func testHasher() *BcryptHasher { return NewBcryptHasher(bcrypt.MinCost) }

func seededUser(h PasswordHasher, id, email, password string) *models.User {
	hash, err := h.Hash(password)
	if err != nil {
		panic(err)
	}
	return &models.User{ID: id, Email: email, FirstName: "John", LastName: "Doe", PasswordHash: hash, IsActive: true}
}

func newTestService(users *memUsers, resets *memResets, mailer EmailSender) *AuthService {
	h := testHasher()
	issuer := NewTokenIssuer(users, h, "test-secret", 5*time.Minute, 24*time.Hour)
	return NewAuthService(users, resets, h, issuer, mailer, 600*time.Second, logging.NewNop())
}
