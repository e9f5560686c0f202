package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/felixgeelhaar/painel/internal/domain"
)

type unreadCount struct {
	Count int `json:"count"`
}

// ContactFilter narrows GET /contatos
type ContactFilter struct {
	Read *bool `url:"lido,omitempty"`
}

// ContactService covers /contatos, the public site's contact form inbox
type ContactService struct {
	c *Client
}

// Contacts returns the /contatos endpoints
func (c *Client) Contacts() *ContactService {
	return &ContactService{c: c}
}

// List returns contact messages matching f
func (s *ContactService) List(ctx context.Context, f ContactFilter) (List[domain.Contact], error) {
	return getList[domain.Contact](ctx, s.c, "/contatos", f, "dados", "contatos")
}

// Get returns one contact message
func (s *ContactService) Get(ctx context.Context, id string) (*domain.Contact, error) {
	var out domain.Contact
	if err := s.c.send(ctx, http.MethodGet, "/contatos/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update sends patch, typically respondido or observacao
func (s *ContactService) Update(ctx context.Context, id string, patch any) (*domain.Contact, error) {
	var out domain.Contact
	if err := s.c.send(ctx, http.MethodPut, "/contatos/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnreadCount returns the number of unread contact messages
func (s *ContactService) UnreadCount(ctx context.Context) (int, error) {
	var out unreadCount
	if err := s.c.send(ctx, http.MethodGet, "/contatos/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkRead marks one contact message as read
func (s *ContactService) MarkRead(ctx context.Context, id string) error {
	return s.c.send(ctx, http.MethodPut, "/contatos/"+url.PathEscape(id)+"/marcar-lido", nil, nil)
}

// MarkAllRead marks every contact message as read
func (s *ContactService) MarkAllRead(ctx context.Context) error {
	return s.c.send(ctx, http.MethodPut, "/contatos/marcar-todos-lidos", nil, nil)
}

// NotificationFilter narrows GET /notificacoes
type NotificationFilter struct {
	Read *bool `url:"lida,omitempty"`
}

// NotificationService covers /notificacoes
type NotificationService struct {
	c *Client
}

// Notifications returns the /notificacoes endpoints
func (c *Client) Notifications() *NotificationService {
	return &NotificationService{c: c}
}

// List returns notifications matching f
func (s *NotificationService) List(ctx context.Context, f NotificationFilter) (List[domain.Notification], error) {
	return getList[domain.Notification](ctx, s.c, "/notificacoes", f, "dados", "notificacoes")
}

// UnreadCount returns the number of unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	var out unreadCount
	if err := s.c.send(ctx, http.MethodGet, "/notificacoes/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkRead marks one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.c.send(ctx, http.MethodPut, "/notificacoes/"+url.PathEscape(id)+"/marcar-lida", nil, nil)
}

// MarkAllRead marks every notification as read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.c.send(ctx, http.MethodPut, "/notificacoes/marcar-todas-lidas", nil, nil)
}
