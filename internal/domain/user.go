package domain

import (
	"encoding/json"
)

// User is a panel user as returned by /usuarios and /auth/me.
// The authenticated user is the session's identity.
type User struct {
	ID          string  `json:"_id" yaml:"id"`
	DisplayName string  `json:"nome" yaml:"name"`
	Email       string  `json:"email" yaml:"email"`
	Role        Role    `json:"role" yaml:"role"`
	Active      *bool   `json:"ativo,omitempty" yaml:"active,omitempty"`
	Avatar      *string `json:"avatar,omitempty" yaml:"-"`
}

// Identity is the authenticated user's profile and role
type Identity = User

// IsActive treats a missing flag as active, matching the backend default
func (u *User) IsActive() bool {
	return u.Active == nil || *u.Active
}

// HasAvatar reports whether the user has a profile picture
func (u *User) HasAvatar() bool {
	return u.Avatar != nil && *u.Avatar != ""
}

// Clone returns a copy that shares no pointers with u
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Active != nil {
		v := *u.Active
		c.Active = &v
	}
	if u.Avatar != nil {
		v := *u.Avatar
		c.Avatar = &v
	}
	return &c
}

// NewUser is the payload for creating a user
type NewUser struct {
	DisplayName string `json:"nome"`
	Email       string `json:"email"`
	Secret      string `json:"senha"`
	Role        Role   `json:"role"`
	Active      *bool  `json:"ativo,omitempty"`
}

// UserPatch is a partial user update; nil fields are left untouched
type UserPatch struct {
	DisplayName *string `json:"nome,omitempty"`
	Email       *string `json:"email,omitempty"`
	Secret      *string `json:"senha,omitempty"`
	Role        *Role   `json:"role,omitempty"`
	Active      *bool   `json:"ativo,omitempty"`
}

// IdentityPatch is the partial profile update sent to PUT /auth/me.
// ClearAvatar sends an explicit null to remove the picture.
type IdentityPatch struct {
	DisplayName *string
	Avatar      *string
	ClearAvatar bool
}

// Empty reports whether the patch changes nothing
func (p IdentityPatch) Empty() bool {
	return p.DisplayName == nil && p.Avatar == nil && !p.ClearAvatar
}

// MarshalJSON emits only the fields being changed
func (p IdentityPatch) MarshalJSON() ([]byte, error) {
	body := map[string]any{}
	if p.DisplayName != nil {
		body["nome"] = *p.DisplayName
	}
	switch {
	case p.ClearAvatar:
		body["avatar"] = nil
	case p.Avatar != nil:
		body["avatar"] = *p.Avatar
	}
	return json.Marshal(body)
}

// Apply merges the fields named by the patch from confirmed into a copy of u.
// Values always come from confirmed, the server's answer, never from the patch.
func (p IdentityPatch) Apply(u, confirmed *User) *User {
	out := u.Clone()
	if out == nil || confirmed == nil {
		return out
	}
	if p.DisplayName != nil {
		out.DisplayName = confirmed.DisplayName
	}
	if p.Avatar != nil || p.ClearAvatar {
		out.Avatar = confirmed.Clone().Avatar
	}
	return out
}
