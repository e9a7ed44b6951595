package authclient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"farmwork-hub-go/internal/auth"
	"farmwork-hub-go/internal/models"
	"farmwork-hub-go/internal/validation"
)

// LocalService is an in-memory token service used when no hosted auth
// service is configured (demo mode, the CLI and tests). Tokens are opaque
// and live only in this process.
type LocalService struct {
	mu        sync.RWMutex
	users     map[string]models.User // keyed by lowercase email
	passwords map[string]string      // keyed by lowercase email
	sessions  map[string]string      // token -> user email
}

// NewLocalService returns an empty local service.
func NewLocalService() *LocalService {
	return &LocalService{
		users:     make(map[string]models.User),
		passwords: make(map[string]string),
		sessions:  make(map[string]string),
	}
}

// SeedUser adds an account without going through registration validation,
// for demo datasets.
func (s *LocalService) SeedUser(user models.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	key := strings.ToLower(user.Email)
	s.users[key] = user
	s.passwords[key] = password
}

func (s *LocalService) Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(creds.Email)
	user, ok := s.users[key]
	if !ok || s.passwords[key] != creds.Password {
		return nil, errors.New("Invalid credentials")
	}

	token := uuid.New().String()
	s.sessions[token] = key
	u := user.Clone()
	return &auth.Session{User: &u, Token: token}, nil
}

func (s *LocalService) Register(ctx context.Context, data auth.RegistrationData) (*auth.Session, error) {
	form := validation.RegistrationForm{
		Email:     data.Email,
		Password:  data.Password,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Phone:     data.Phone,
		Role:      data.Role,
		Location:  data.Location,
	}
	if result := validation.ValidateRegistrationForm(form); !result.IsValid {
		return nil, errors.New(strings.Join(result.Errors, "; "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(data.Email)
	if _, exists := s.users[key]; exists {
		return nil, errors.New("An account with this email already exists")
	}

	user := models.User{
		ID:        uuid.New().String(),
		Email:     data.Email,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Phone:     data.Phone,
		Role:      data.Role,
		Location:  data.Location,
		CreatedAt: time.Now(),
	}
	s.users[key] = user
	s.passwords[key] = data.Password

	token := uuid.New().String()
	s.sessions[token] = key
	u := user.Clone()
	return &auth.Session{User: &u, Token: token}, nil
}

func (s *LocalService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.sessions[token]
	if !ok {
		return nil, errors.New("session expired or revoked")
	}
	user, ok := s.users[key]
	if !ok {
		return nil, errors.New("account no longer exists")
	}
	u := user.Clone()
	return &u, nil
}

func (s *LocalService) Logout(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *LocalService) ForgotPassword(ctx context.Context, email string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.users[strings.ToLower(email)]; !ok {
		return errors.New("no account with that email")
	}
	// Mail delivery is an external service; nothing to do locally.
	return nil
}

func (s *LocalService) ResetPassword(ctx context.Context, resetToken, password string) error {
	if result := validation.ValidatePassword(password); !result.IsValid {
		return errors.New(strings.Join(result.Messages, "; "))
	}
	return errors.New("password reset requires the hosted auth service")
}

// RevokeAll drops every issued token, used in tests to simulate server-side
// session invalidation.
func (s *LocalService) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]string)
}
