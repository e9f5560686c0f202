package api

import (
	"context"

	"github.com/felixgeelhaar/painel/internal/errors"
)

// OptionDefaults are the option lists used when the backend returns none.
// An empty slice means no fallback.
type OptionDefaults struct {
	SiteTypes        []string `yaml:"site_types" json:"site_types"`
	SaleStatuses     []string `yaml:"sale_statuses" json:"sale_statuses"`
	PaymentMethods   []string `yaml:"payment_methods" json:"payment_methods"`
	LeadOrigins      []string `yaml:"lead_origins" json:"lead_origins"`
	Roles            []string `yaml:"roles" json:"roles"`
	TicketStatuses   []string `yaml:"ticket_statuses" json:"ticket_statuses"`
	TicketPriorities []string `yaml:"ticket_priorities" json:"ticket_priorities"`
}

// DefaultOptions returns the option lists the panel ships with
func DefaultOptions() OptionDefaults {
	return OptionDefaults{
		SiteTypes:      []string{"landing", "institucional", "ecommerce", "blog", "sistema", "app", "outro"},
		SaleStatuses:   []string{"prospect", "proposta_enviada", "negociacao", "fechado", "perdido", "ativo", "encerrado", "inativo"},
		PaymentMethods: []string{"a_vista", "parcelado_2x", "parcelado_3x", "parcelado_6x", "parcelado_12x", "mensalidade", "combinado", "outro"},
		LeadOrigins:    []string{"indicacao", "google", "instagram", "facebook", "linkedin", "site", "whatsapp", "telefone", "email", "evento", "outro"},
		Roles:          []string{"admin", "ceo", "programador", "designer", "vendedor", "suporte"},
	}
}

// Merge fills the empty lists of o from base
func (o OptionDefaults) Merge(base OptionDefaults) OptionDefaults {
	pick := func(a, b []string) []string {
		if len(a) > 0 {
			return a
		}
		return b
	}
	return OptionDefaults{
		SiteTypes:        pick(o.SiteTypes, base.SiteTypes),
		SaleStatuses:     pick(o.SaleStatuses, base.SaleStatuses),
		PaymentMethods:   pick(o.PaymentMethods, base.PaymentMethods),
		LeadOrigins:      pick(o.LeadOrigins, base.LeadOrigins),
		Roles:            pick(o.Roles, base.Roles),
		TicketStatuses:   pick(o.TicketStatuses, base.TicketStatuses),
		TicketPriorities: pick(o.TicketPriorities, base.TicketPriorities),
	}
}

// SetOptionDefaults replaces the fallback option lists
func (c *Client) SetOptionDefaults(o OptionDefaults) {
	c.mu.Lock()
	c.options = o
	c.mu.Unlock()
}

// OptionDefaults returns the fallback option lists in use
func (c *Client) OptionDefaults() OptionDefaults {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options
}

// optionList fetches a string option list. An empty or unreadable answer
// yields fallback; authentication failures are returned as-is.
func (c *Client) optionList(ctx context.Context, path string, fallback []string, keys ...string) ([]string, error) {
	list, err := getList[string](ctx, c, path, nil, keys...)
	if err != nil {
		switch errors.KindOf(err) {
		case errors.KindUnauthorized, errors.KindForbidden:
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.WithError(err).Debug("using fallback options", "path", path)
		return clone(fallback), nil
	}

	if len(list.Items) == 0 {
		return clone(fallback), nil
	}
	return list.Items, nil
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// send performs a request without query parameters
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	return c.Do(ctx, Request{Method: method, Path: path, Body: body}, out)
}
