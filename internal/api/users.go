package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/felixgeelhaar/painel/internal/domain"
)

// UserFilter narrows GET /usuarios
type UserFilter struct {
	Role   string `url:"role,omitempty"`
	Active *bool  `url:"ativo,omitempty"`
	Page   int    `url:"page,omitempty"`
	Limit  int    `url:"limit,omitempty"`
}

// UserService covers /usuarios
type UserService struct {
	c *Client
}

// Users returns the /usuarios endpoints
func (c *Client) Users() *UserService {
	return &UserService{c: c}
}

// List returns users matching f
func (s *UserService) List(ctx context.Context, f UserFilter) (List[domain.User], error) {
	return getList[domain.User](ctx, s.c, "/usuarios", f, "dados", "usuarios")
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := s.c.send(ctx, http.MethodGet, "/usuarios/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create adds a user
func (s *UserService) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	var u domain.User
	if err := s.c.send(ctx, http.MethodPost, "/usuarios", nu, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update changes the fields set in patch
func (s *UserService) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	var u domain.User
	if err := s.c.send(ctx, http.MethodPut, "/usuarios/"+url.PathEscape(id), patch, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.c.send(ctx, http.MethodDelete, "/usuarios/"+url.PathEscape(id), nil, nil)
}

// Roles returns the role names the backend accepts
func (s *UserService) Roles(ctx context.Context) ([]string, error) {
	return s.c.optionList(ctx, "/usuarios/roles", s.c.OptionDefaults().Roles, "roles")
}
