package domain

import (
	"encoding/json"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestUserJSON(t *testing.T) {
	raw := `{"_id":"u1","nome":"Ana","email":"ana@x.com","role":"designer","ativo":false,"avatar":null}`

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.ID != "u1" || u.DisplayName != "Ana" || u.Role != RoleDesigner {
		t.Errorf("unexpected user: %+v", u)
	}
	if u.IsActive() {
		t.Error("ativo=false should be inactive")
	}
	if u.HasAvatar() {
		t.Error("null avatar means no avatar")
	}
}

func TestIdentityPatchMarshal(t *testing.T) {
	tests := []struct {
		name  string
		patch IdentityPatch
		want  string
	}{
		{"empty", IdentityPatch{}, `{}`},
		{"name only", IdentityPatch{DisplayName: strPtr("Bia")}, `{"nome":"Bia"}`},
		{"avatar", IdentityPatch{Avatar: strPtr("data:image/png;base64,AA==")}, `{"avatar":"data:image/png;base64,AA=="}`},
		{"clear avatar", IdentityPatch{ClearAvatar: true}, `{"avatar":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.patch)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIdentityPatchApply(t *testing.T) {
	current := &User{ID: "u1", DisplayName: "Ana", Email: "ana@x.com", Role: RoleAdmin}
	confirmed := &User{ID: "u1", DisplayName: "Ana Souza", Email: "other@x.com", Role: RoleSupport}

	out := IdentityPatch{DisplayName: strPtr("whatever was sent")}.Apply(current, confirmed)

	if out.DisplayName != "Ana Souza" {
		t.Errorf("display name should come from the server response, got %q", out.DisplayName)
	}
	if out.Email != "ana@x.com" || out.Role != RoleAdmin {
		t.Errorf("fields outside the patch must not change: %+v", out)
	}
	if current.DisplayName != "Ana" {
		t.Error("Apply must not mutate the current identity")
	}
}

func TestClone(t *testing.T) {
	active := true
	u := &User{ID: "u1", Active: &active, Avatar: strPtr("a")}
	c := u.Clone()
	*c.Active = false
	*c.Avatar = "b"

	if !*u.Active || *u.Avatar != "a" {
		t.Error("Clone must deep-copy pointer fields")
	}
	var nilUser *User
	if nilUser.Clone() != nil {
		t.Error("Clone of nil is nil")
	}
}
