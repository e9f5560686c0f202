package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
)

// LoginResponse is the answer to POST /auth/login
type LoginResponse struct {
	Token    string       `json:"token"`
	Identity *domain.User `json:"usuario"`
}

type loginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"senha"`
}

// AuthService covers /auth
type AuthService struct {
	c *Client
}

// Auth returns the /auth endpoints
func (c *Client) Auth() *AuthService {
	return &AuthService{c: c}
}

// Login exchanges email and secret for a token and identity.
// It sends no bearer token.
func (s *AuthService) Login(ctx context.Context, email, secret string) (*LoginResponse, error) {
	resp, err := Call[LoginResponse](ctx, s.c, Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      loginRequest{Email: email, Secret: secret},
		Anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.Identity == nil {
		return nil, errors.NewDecode(fmt.Errorf("login response without token or usuario"))
	}
	return &resp, nil
}

// Me returns the identity the current token belongs to
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := s.c.send(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	if u.ID == "" && u.Email == "" {
		return nil, errors.NewDecode(fmt.Errorf("empty identity"))
	}
	return &u, nil
}

// UpdateMe sends the changed profile fields and returns the server's copy
func (s *AuthService) UpdateMe(ctx context.Context, patch domain.IdentityPatch) (*domain.User, error) {
	var u domain.User
	if err := s.c.send(ctx, http.MethodPut, "/auth/me", patch, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
