// Package authz maps panel features to the roles allowed to use them.
//
// The backend enforces every permission. The table here only decides which
// commands and dashboard sections are offered, so a missing entry fails
// closed.
package authz

import (
	"fmt"
	"slices"
	"sort"

	"github.com/felixgeelhaar/painel/internal/domain"
)

// Feature names a role-gated capability
type Feature string

const (
	FeatureDashboard     Feature = "dashboard"
	FeatureClients       Feature = "clients"
	FeatureClientEdit    Feature = "clients.edit"
	FeatureClientDelete  Feature = "clients.delete"
	FeatureTickets       Feature = "tickets"
	FeatureTicketCreate  Feature = "tickets.create"
	FeatureContacts      Feature = "contacts"
	FeatureNotifications Feature = "notifications"
	FeaturePosts         Feature = "posts"
	FeaturePostEdit      Feature = "posts.edit"
	FeaturePostDelete    Feature = "posts.delete"
	FeatureUsers         Feature = "users"
	FeatureUserEdit      Feature = "users.edit"
	FeatureUserDelete    Feature = "users.delete"
)

// Table maps each feature to its allowed roles
type Table map[Feature][]domain.Role

var (
	everyone    = domain.AllRoles
	management  = []domain.Role{domain.RoleAdmin, domain.RoleCEO}
	content     = []domain.Role{domain.RoleAdmin, domain.RoleCEO, domain.RoleDeveloper, domain.RoleDesigner}
	clientsEdit = []domain.Role{domain.RoleAdmin, domain.RoleCEO, domain.RoleDeveloper, domain.RoleSalesperson}
)

// DefaultTable returns the role table the panel ships with
func DefaultTable() Table {
	return Table{
		FeatureDashboard:     everyone,
		FeatureClients:       everyone,
		FeatureClientEdit:    clientsEdit,
		FeatureClientDelete:  management,
		FeatureTickets:       everyone,
		FeatureTicketCreate:  everyone,
		FeatureContacts:      everyone,
		FeatureNotifications: everyone,
		FeaturePosts:         content,
		FeaturePostEdit:      content,
		FeaturePostDelete:    management,
		FeatureUsers:         management,
		FeatureUserEdit:      management,
		FeatureUserDelete:    management,
	}.clone()
}

// Features returns the known features in name order
func (t Table) Features() []Feature {
	out := make([]Feature, 0, len(t))
	for f := range t {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Roles returns the roles allowed to use f
func (t Table) Roles(f Feature) []domain.Role {
	return slices.Clone(t[f])
}

// Override returns a copy of t with the entries of raw replacing its own.
// Keys must be known features and values valid roles.
func (t Table) Override(raw map[string][]string) (Table, error) {
	out := t.clone()
	for name, values := range raw {
		f := Feature(name)
		if _, ok := out[f]; !ok {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
		roles, err := domain.ParseRoles(values)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}
		out[f] = roles
	}
	return out, nil
}

func (t Table) clone() Table {
	out := make(Table, len(t))
	for f, roles := range t {
		out[f] = slices.Clone(roles)
	}
	return out
}
