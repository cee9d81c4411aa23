package moviedb

import (
	"context"
	"fmt"
)

// AuthService handles account operations under /auth
type AuthService struct {
	client *Client
}

// AuthResponse is the success payload of login and register. Role may be
// omitted by older backends; callers default it.
type AuthResponse struct {
	Token    string `json:"token" validate:"required"`
	Username string `json:"username" validate:"required"`
	Role     string `json:"role"`
}

// Login exchanges credentials for a bearer token. The token is returned to
// the caller, not stored; session bookkeeping lives above the client.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	var out AuthResponse
	if err := s.client.post(ctx, "/auth/login", body, &out); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &out, nil
}

// Register creates an account and returns the same payload as Login
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}

	var out AuthResponse
	if err := s.client.post(ctx, "/auth/register", body, &out); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return &out, nil
}

// ChangePassword rotates the account password. Requires a valid session.
func (s *AuthService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}

	if err := s.client.post(ctx, "/auth/change-password", body, nil); err != nil {
		return fmt.Errorf("password change failed: %w", err)
	}
	return nil
}
