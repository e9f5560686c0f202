package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/felixgeelhaar/painel/internal/domain"
)

// ClientFilter narrows GET /clientes
type ClientFilter struct {
	Status      string `url:"status,omitempty"`
	SiteType    string `url:"tipoSite,omitempty"`
	Salesperson string `url:"vendedor,omitempty"`
	LeadOrigin  string `url:"origemLead,omitempty"`
	Search      string `url:"busca,omitempty"`
	Page        int    `url:"page,omitempty"`
	Limit       int    `url:"limit,omitempty"`
}

// ClientService covers /clientes
type ClientService struct {
	c *Client
}

// Clients returns the /clientes endpoints
func (c *Client) Clients() *ClientService {
	return &ClientService{c: c}
}

// List returns CRM clients matching f
func (s *ClientService) List(ctx context.Context, f ClientFilter) (List[domain.Client], error) {
	return getList[domain.Client](ctx, s.c, "/clientes", f, "dados", "clientes")
}

// Get returns one client
func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	var out domain.Client
	if err := s.c.send(ctx, http.MethodGet, "/clientes/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create adds a client
func (s *ClientService) Create(ctx context.Context, cl domain.Client) (*domain.Client, error) {
	var out domain.Client
	if err := s.c.send(ctx, http.MethodPost, "/clientes", cl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update sends patch, any JSON-encodable partial client
func (s *ClientService) Update(ctx context.Context, id string, patch any) (*domain.Client, error) {
	var out domain.Client
	if err := s.c.send(ctx, http.MethodPut, "/clientes/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, id string) error {
	return s.c.send(ctx, http.MethodDelete, "/clientes/"+url.PathEscape(id), nil, nil)
}

// SiteTypes returns the accepted tipoSite values
func (s *ClientService) SiteTypes(ctx context.Context) ([]string, error) {
	return s.c.optionList(ctx, "/clientes/tipos-site", s.c.OptionDefaults().SiteTypes, "tipos", "tiposSite", "dados")
}

// SaleStatuses returns the accepted status values
func (s *ClientService) SaleStatuses(ctx context.Context) ([]string, error) {
	return s.c.optionList(ctx, "/clientes/status-venda", s.c.OptionDefaults().SaleStatuses, "status")
}

// PaymentMethods returns the accepted formaPagamento values
func (s *ClientService) PaymentMethods(ctx context.Context) ([]string, error) {
	return s.c.optionList(ctx, "/clientes/formas-pagamento", s.c.OptionDefaults().PaymentMethods, "formas")
}

// LeadOrigins returns the accepted origemLead values
func (s *ClientService) LeadOrigins(ctx context.Context) ([]string, error) {
	return s.c.optionList(ctx, "/clientes/origens-lead", s.c.OptionDefaults().LeadOrigins, "origens")
}
