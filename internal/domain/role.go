package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of panel roles.
// This is a value object; the wire values are the backend's.
type Role string

// Valid roles
const (
	RoleAdmin       Role = "admin"
	RoleCEO         Role = "ceo"
	RoleDeveloper   Role = "programador"
	RoleDesigner    Role = "designer"
	RoleSalesperson Role = "vendedor"
	RoleSupport     Role = "suporte"
)

// AllRoles lists every role in display order
var AllRoles = []Role{RoleAdmin, RoleCEO, RoleDeveloper, RoleDesigner, RoleSalesperson, RoleSupport}

// NewRole creates a new Role value object with validation
func NewRole(value string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(value)))
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate checks if the role is one of the known roles
func (r Role) Validate() error {
	for _, known := range AllRoles {
		if r == known {
			return nil
		}
	}
	return fmt.Errorf("invalid role %q: must be one of %s", string(r), strings.Join(RoleNames(AllRoles), ", "))
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// RoleNames converts roles to their wire strings
func RoleNames(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// ParseRoles parses a list of role names, rejecting unknown ones
func ParseRoles(values []string) ([]Role, error) {
	out := make([]Role, 0, len(values))
	for _, v := range values {
		r, err := NewRole(v)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
