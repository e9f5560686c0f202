package authz

import (
	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
)

// Checker answers role-membership questions, typically a *session.Store
type Checker interface {
	Can(roles ...domain.Role) bool
}

// Gate decides which features the current identity may use
type Gate struct {
	checker Checker
	table   Table
}

// NewGate creates a gate over checker. A nil table uses DefaultTable.
func NewGate(checker Checker, table Table) *Gate {
	if table == nil {
		table = DefaultTable()
	}
	return &Gate{checker: checker, table: table.clone()}
}

// Allowed reports whether the current identity may use f.
// Unknown features are never allowed.
func (g *Gate) Allowed(f Feature) bool {
	roles, ok := g.table[f]
	if !ok {
		return false
	}
	return g.checker.Can(roles...)
}

// Require returns a permission error when f is not allowed
func (g *Gate) Require(f Feature) error {
	if g.Allowed(f) {
		return nil
	}
	return errors.NewPermissionDenied(string(f))
}

// Visible returns the allowed features among fs, preserving order
func (g *Gate) Visible(fs ...Feature) []Feature {
	out := make([]Feature, 0, len(fs))
	for _, f := range fs {
		if g.Allowed(f) {
			out = append(out, f)
		}
	}
	return out
}

// Table returns a copy of the role table in use
func (g *Gate) Table() Table {
	return g.table.clone()
}
