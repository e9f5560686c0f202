package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

// recordingServer answers every request with status/response and records it
func recordingServer(t *testing.T, status int, response any) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		calls = append(calls, rec)
		if response == nil {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, response)
	}))
	seed(t, store, "t1")
	return client, &calls
}

func TestLogin(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, map[string]any{
			"token":   "t1",
			"usuario": map[string]any{"_id": "u1", "nome": "Admin", "email": "admin@x.com", "role": "admin"},
		})
	}))
	seed(t, store, "stale")

	resp, err := client.Auth().Login(context.Background(), "admin@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.Token)
	assert.Equal(t, domain.RoleAdmin, resp.Identity.Role)

	assert.Empty(t, gotAuth, "login is anonymous")
	assert.Equal(t, map[string]string{"email": "admin@x.com", "senha": "secret"}, gotBody)
}

func TestLoginRejected(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})
	}))

	var fired int
	client.OnInvalidated(func() { fired++ })

	_, err := client.Auth().Login(context.Background(), "admin@x.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Credenciais inválidas", err.Error())
	assert.Equal(t, 0, fired, "a rejected login is not a session invalidation")
}

func TestLoginMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": "t1"})
	}))

	_, err := client.Auth().Login(context.Background(), "a@x.com", "s")
	require.Error(t, err)
	assert.Equal(t, errors.KindDecode, errors.KindOf(err))
}

func TestUpdateMeSendsOnlyChangedFields(t *testing.T) {
	client, calls := recordingServer(t, http.StatusOK, map[string]any{"_id": "u1", "nome": "Novo", "role": "admin"})

	name := "Novo"
	u, err := client.Auth().UpdateMe(context.Background(), domain.IdentityPatch{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Novo", u.DisplayName)

	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
	assert.Equal(t, "/auth/me", (*calls)[0].path)
	assert.Equal(t, map[string]any{"nome": "Novo"}, (*calls)[0].body)
}

func TestResourceRoutes(t *testing.T) {
	ctx := context.Background()
	client, calls := recordingServer(t, http.StatusNoContent, nil)

	steps := []struct {
		call   func() error
		method string
		path   string
	}{
		{func() error { return client.Users().Delete(ctx, "u9") }, http.MethodDelete, "/usuarios/u9"},
		{func() error { return client.Posts().Delete(ctx, "p1") }, http.MethodDelete, "/posts/p1"},
		{func() error { return client.Clients().Delete(ctx, "c1") }, http.MethodDelete, "/clientes/c1"},
		{func() error { _, err := client.Tickets().Comment(ctx, "k1", "olá"); return err }, http.MethodPost, "/chamados/k1/comentarios"},
		{func() error { return client.Contacts().MarkRead(ctx, "m1") }, http.MethodPut, "/contatos/m1/marcar-lido"},
		{func() error { return client.Contacts().MarkAllRead(ctx) }, http.MethodPut, "/contatos/marcar-todos-lidos"},
		{func() error { return client.Notifications().MarkRead(ctx, "n1") }, http.MethodPut, "/notificacoes/n1/marcar-lida"},
		{func() error { return client.Notifications().MarkAllRead(ctx) }, http.MethodPut, "/notificacoes/marcar-todas-lidas"},
		{func() error { _, err := client.Users().Update(ctx, "u1", domain.UserPatch{}); return err }, http.MethodPut, "/usuarios/u1"},
		{func() error { _, err := client.Tickets().Create(ctx, NewTicket{Title: "x", Client: "c1"}); return err }, http.MethodPost, "/chamados"},
	}

	for i, step := range steps {
		require.NoError(t, step.call())
		require.Len(t, *calls, i+1)
		got := (*calls)[i]
		assert.Equal(t, step.method, got.method, step.path)
		assert.Equal(t, step.path, got.path)
	}

	assert.Equal(t, map[string]any{"texto": "olá"}, (*calls)[3].body)
}

func TestUnreadCount(t *testing.T) {
	client, calls := recordingServer(t, http.StatusOK, map[string]int{"count": 7})

	n, err := client.Notifications().UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "/notificacoes/unread-count", (*calls)[0].path)
}

func TestOptionListFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload any
		want    []string
	}{
		{"bare list", http.StatusOK, []string{"novo", "pago"}, []string{"novo", "pago"}},
		{"wrapped list", http.StatusOK, map[string][]string{"status": {"novo"}}, []string{"novo"}},
		{"empty list", http.StatusOK, []string{}, DefaultOptions().SaleStatuses},
		{"unknown envelope", http.StatusOK, map[string][]string{"outro": {"x"}}, DefaultOptions().SaleStatuses},
		{"server error", http.StatusInternalServerError, map[string]string{"message": "boom"}, DefaultOptions().SaleStatuses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := recordingServer(t, tt.status, tt.payload)
			got, err := client.Clients().SaleStatuses(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionListAuthErrorsPropagate(t *testing.T) {
	client, _ := recordingServer(t, http.StatusForbidden, nil)

	_, err := client.Users().Roles(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
}

func TestConfiguredOptionDefaults(t *testing.T) {
	client, _ := recordingServer(t, http.StatusOK, []string{})
	client.SetOptionDefaults(OptionDefaults{TicketPriorities: []string{"baixa", "alta"}}.Merge(DefaultOptions()))

	got, err := client.Tickets().Priorities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"baixa", "alta"}, got)

	statuses, err := client.Tickets().Statuses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, statuses, "ticket statuses have no shipped fallback")

	sites, err := client.Clients().SiteTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions().SiteTypes, sites)
}

func TestSiteTypesKeys(t *testing.T) {
	client, _ := recordingServer(t, http.StatusOK, map[string][]string{"tiposSite": {"landing"}})

	got, err := client.Clients().SiteTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"landing"}, got)
}
