package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/felixgeelhaar/painel/internal/domain"
)

// PostFilter narrows GET /posts
type PostFilter struct {
	Published *bool `url:"publicado,omitempty"`
	Page      int   `url:"page,omitempty"`
	Limit     int   `url:"limit,omitempty"`
}

// PostService covers /posts
type PostService struct {
	c *Client
}

// Posts returns the /posts endpoints
func (c *Client) Posts() *PostService {
	return &PostService{c: c}
}

// List returns posts matching f
func (s *PostService) List(ctx context.Context, f PostFilter) (List[domain.Post], error) {
	return getList[domain.Post](ctx, s.c, "/posts", f, "dados", "posts")
}

// Get returns one post
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	if err := s.c.send(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create adds a post. The backend requires a main image.
func (s *PostService) Create(ctx context.Context, p domain.Post) (*domain.Post, error) {
	var out domain.Post
	if err := s.c.send(ctx, http.MethodPost, "/posts", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update sends patch, any JSON-encodable partial post
func (s *PostService) Update(ctx context.Context, id string, patch any) (*domain.Post, error) {
	var out domain.Post
	if err := s.c.send(ctx, http.MethodPut, "/posts/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a post
func (s *PostService) Delete(ctx context.Context, id string) error {
	return s.c.send(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, nil)
}
