// Package authclient provides implementations of auth.TokenService: an
// HTTP client for the hosted auth service and a local in-memory service
// for demo and test use.
package authclient

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"farmwork-hub-go/internal/auth"
	"farmwork-hub-go/internal/models"
	"farmwork-hub-go/pkg/httpclient"
)

// HTTPService talks to the external token-issuing auth service.
type HTTPService struct {
	client  *httpclient.HttpClient
	baseURL string
}

// NewHTTPService creates a client for the auth service at baseURL.
func NewHTTPService(baseURL string, timeout time.Duration) *HTTPService {
	return &HTTPService{
		client:  httpclient.NewHttpClient(timeout),
		baseURL: baseURL,
	}
}

func (s *HTTPService) url(path string) string {
	return fmt.Sprintf("%s%s", s.baseURL, path)
}

func (s *HTTPService) Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error) {
	var session auth.Session
	if err := s.client.PostJSON(ctx, s.url("/auth/login"), "", creds, &session); err != nil {
		return nil, err
	}
	if session.Token == "" || session.User == nil {
		return nil, errors.New("auth service returned an incomplete session")
	}
	return &session, nil
}

func (s *HTTPService) Register(ctx context.Context, data auth.RegistrationData) (*auth.Session, error) {
	var session auth.Session
	if err := s.client.PostJSON(ctx, s.url("/auth/register"), "", data, &session); err != nil {
		return nil, err
	}
	if session.Token == "" || session.User == nil {
		return nil, errors.New("auth service returned an incomplete session")
	}
	return &session, nil
}

func (s *HTTPService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := s.client.GetJSON(ctx, s.url("/auth/me"), token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *HTTPService) Logout(ctx context.Context, token string) error {
	return s.client.PostJSON(ctx, s.url("/auth/logout"), token, struct{}{}, nil)
}

func (s *HTTPService) ForgotPassword(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return s.client.PostJSON(ctx, s.url("/auth/forgot-password"), "", payload, nil)
}

func (s *HTTPService) ResetPassword(ctx context.Context, resetToken, password string) error {
	payload := map[string]string{"token": resetToken, "password": password}
	return s.client.PostJSON(ctx, s.url("/auth/reset-password"), "", payload, nil)
}
