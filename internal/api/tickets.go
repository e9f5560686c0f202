package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/felixgeelhaar/painel/internal/domain"
)

// TicketFilter narrows GET /chamados
type TicketFilter struct {
	Status string `url:"status,omitempty"`
	Client string `url:"cliente,omitempty"`
	Owner  string `url:"responsavel,omitempty"`
	Page   int    `url:"page,omitempty"`
	Limit  int    `url:"limit,omitempty"`
}

// NewTicket is the payload for opening a ticket
type NewTicket struct {
	Title       string              `json:"titulo"`
	Description string              `json:"descricao,omitempty"`
	Priority    string              `json:"prioridade,omitempty"`
	Client      string              `json:"cliente"`
	Owner       string              `json:"responsavel,omitempty"`
	Attachments []domain.Attachment `json:"anexos,omitempty"`
}

// TicketService covers /chamados
type TicketService struct {
	c *Client
}

// Tickets returns the /chamados endpoints
func (c *Client) Tickets() *TicketService {
	return &TicketService{c: c}
}

// List returns tickets matching f
func (s *TicketService) List(ctx context.Context, f TicketFilter) (List[domain.Ticket], error) {
	return getList[domain.Ticket](ctx, s.c, "/chamados", f, "chamados", "dados")
}

// Get returns one ticket
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	var out domain.Ticket
	if err := s.c.send(ctx, http.MethodGet, "/chamados/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create opens a ticket
func (s *TicketService) Create(ctx context.Context, t NewTicket) (*domain.Ticket, error) {
	var out domain.Ticket
	if err := s.c.send(ctx, http.MethodPost, "/chamados", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update sends patch, any JSON-encodable partial ticket
func (s *TicketService) Update(ctx context.Context, id string, patch any) (*domain.Ticket, error) {
	var out domain.Ticket
	if err := s.c.send(ctx, http.MethodPut, "/chamados/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Comment appends a comment and returns the updated ticket
func (s *TicketService) Comment(ctx context.Context, id, text string) (*domain.Ticket, error) {
	var out domain.Ticket
	body := map[string]string{"texto": text}
	if err := s.c.send(ctx, http.MethodPost, "/chamados/"+url.PathEscape(id)+"/comentarios", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Statuses returns the accepted ticket status values
func (s *TicketService) Statuses(ctx context.Context) ([]string, error) {
	return s.c.optionList(ctx, "/chamados/status", s.c.OptionDefaults().TicketStatuses, "status", "dados")
}

// Priorities returns the accepted ticket priority values
func (s *TicketService) Priorities(ctx context.Context) ([]string, error) {
	return s.c.optionList(ctx, "/chamados/prioridades", s.c.OptionDefaults().TicketPriorities, "prioridades", "dados")
}
