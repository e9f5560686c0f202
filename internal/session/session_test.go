package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/painel/internal/api"
	"github.com/felixgeelhaar/painel/internal/credential"
	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
	"github.com/felixgeelhaar/painel/internal/log"
)

// fakeBackend is a minimal /auth server
type fakeBackend struct {
	mu       sync.Mutex
	token    string
	identity map[string]any
	meStatus int
	meCalls  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		token:    "t1",
		identity: map[string]any{"_id": "u1", "nome": "Admin", "email": "admin@x.com", "role": "admin"},
		meStatus: http.StatusOK,
	}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["senha"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Credenciais inválidas"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"token": b.token, "usuario": b.identity})

	case r.Method == http.MethodGet && r.URL.Path == "/auth/me":
		b.meCalls++
		if b.meStatus != http.StatusOK {
			w.WriteHeader(b.meStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(b.identity)

	case r.Method == http.MethodPut && r.URL.Path == "/auth/me":
		var patch map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patch)
		for k, v := range patch {
			b.identity[k] = v
		}
		_ = json.NewEncoder(w).Encode(b.identity)

	case r.URL.Path == "/expired":
		w.WriteHeader(http.StatusUnauthorized)

	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

type harness struct {
	store   *Store
	client  *api.Client
	creds   *credential.Store
	backend *fakeBackend
	navs    *atomic.Int32
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := newFakeBackend()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	creds := credential.NewStore(credential.NewMemoryKV())
	client, err := api.NewClient(api.Config{BaseURL: server.URL, Credentials: creds, Logger: log.Discard()})
	require.NoError(t, err)

	navs := &atomic.Int32{}
	store := New(Config{
		Client:      client,
		Credentials: creds,
		Navigator:   NavigatorFunc(func() { navs.Add(1) }),
		Logger:      log.Discard(),
	})
	t.Cleanup(store.Close)

	return &harness{store: store, client: client, creds: creds, backend: backend, navs: navs}
}

func (h *harness) persistedToken(t *testing.T) string {
	t.Helper()
	token, err := h.creds.Token(context.Background())
	require.NoError(t, err)
	return token
}

func TestNewStoreIsLoading(t *testing.T) {
	h := newHarness(t)
	snap := h.store.Snapshot()
	assert.Equal(t, StatusLoading, snap.Status)
	assert.False(t, snap.Authenticated())
}

func TestLoginThenCan(t *testing.T) {
	h := newHarness(t)

	identity, err := h.store.Login(context.Background(), "admin@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, identity.Role)

	assert.Equal(t, "t1", h.persistedToken(t))
	assert.True(t, h.store.Can(domain.RoleAdmin))
	assert.True(t, h.store.Can(identity.Role))
	assert.False(t, h.store.Can(domain.RoleSupport, domain.RoleDesigner))
	assert.Equal(t, StatusReady, h.store.Status())

	cached, err := h.creds.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", cached.ID)
}

func TestLoginFailureLeavesUnauthenticated(t *testing.T) {
	h := newHarness(t)

	_, err := h.store.Login(context.Background(), "admin@x.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Credenciais inválidas", err.Error())

	assert.Nil(t, h.store.Identity())
	assert.Empty(t, h.persistedToken(t))
	assert.Equal(t, int32(0), h.navs.Load(), "failed login does not navigate")
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.Login(context.Background(), "admin@x.com", "secret")
	require.NoError(t, err)

	require.NoError(t, h.store.Logout(context.Background()))

	for _, role := range domain.AllRoles {
		assert.False(t, h.store.Can(role))
	}
	assert.Empty(t, h.persistedToken(t))
	assert.Equal(t, int32(1), h.navs.Load())

	// Idempotent apart from navigation
	require.NoError(t, h.store.Logout(context.Background()))
	assert.Nil(t, h.store.Identity())
	assert.Equal(t, int32(2), h.navs.Load())
}

func TestCanWithoutIdentity(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.store.Can(domain.AllRoles...))
	assert.False(t, h.store.Can())
}

func TestRestoreValidToken(t *testing.T) {
	h := newHarness(t)
	stale := &domain.User{ID: "u1", DisplayName: "Old Name", Email: "admin@x.com", Role: domain.RoleAdmin}
	require.NoError(t, h.creds.Save(context.Background(), "t1", stale))

	snap := h.store.Restore(context.Background())
	assert.Equal(t, StatusReady, snap.Status)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "Admin", snap.Identity.DisplayName, "fresh identity replaces the cached one")

	cached, err := h.creds.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Admin", cached.DisplayName)
	assert.Equal(t, "t1", h.persistedToken(t))
}

func TestRestoreWithoutToken(t *testing.T) {
	h := newHarness(t)

	snap := h.store.Restore(context.Background())
	assert.Equal(t, StatusReady, snap.Status)
	assert.Nil(t, snap.Identity)
	assert.Equal(t, 0, h.backend.meCalls, "no token, no round-trip")
}

func TestRestoreRejectedToken(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			h := newHarness(t)
			h.backend.meStatus = status
			require.NoError(t, h.creds.Save(context.Background(), "bad", &domain.User{ID: "u1", Role: domain.RoleCEO}))

			snap := h.store.Restore(context.Background())
			assert.Equal(t, StatusReady, snap.Status, "restore never stays Loading")
			assert.Nil(t, snap.Identity)
			assert.Empty(t, h.persistedToken(t))
		})
	}
}

func TestRestoreExpiredJWT(t *testing.T) {
	h := newHarness(t)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, h.creds.Save(context.Background(), expired, &domain.User{ID: "u1", Role: domain.RoleAdmin}))

	snap := h.store.Restore(context.Background())
	assert.Equal(t, StatusReady, snap.Status)
	assert.Nil(t, snap.Identity)
	assert.Empty(t, h.persistedToken(t))
	assert.Equal(t, 0, h.backend.meCalls)
}

func TestRestoreNetworkFailure(t *testing.T) {
	creds := credential.NewStore(credential.NewMemoryKV())
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := api.NewClient(api.Config{BaseURL: server.URL, Credentials: creds, Logger: log.Discard()})
	require.NoError(t, err)
	store := New(Config{Client: client, Credentials: creds, Logger: log.Discard()})
	defer store.Close()

	require.NoError(t, creds.Save(context.Background(), "t1", &domain.User{ID: "u1", Role: domain.RoleAdmin}))

	snap := store.Restore(context.Background())
	assert.Equal(t, StatusReady, snap.Status)
	assert.Nil(t, snap.Identity)
}

func TestRefreshIsRestore(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.Login(context.Background(), "admin@x.com", "secret")
	require.NoError(t, err)

	h.backend.mu.Lock()
	h.backend.identity["role"] = "suporte"
	h.backend.mu.Unlock()

	snap := h.store.Refresh(context.Background())
	assert.Equal(t, domain.RoleSupport, snap.Identity.Role)
	assert.False(t, h.store.Can(domain.RoleAdmin))
}

func TestInvalidationDropsIdentity(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.Login(context.Background(), "admin@x.com", "secret")
	require.NoError(t, err)

	err = h.client.Do(context.Background(), api.Request{Path: "/expired"}, nil)
	require.True(t, errors.IsUnauthorized(err))

	assert.Nil(t, h.store.Identity())
	assert.Equal(t, StatusReady, h.store.Status())
	assert.Empty(t, h.persistedToken(t))
	assert.Equal(t, int32(1), h.navs.Load())
}

func TestConcurrent401And200NavigateOnce(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.Login(context.Background(), "admin@x.com", "secret")
	require.NoError(t, err)

	var wg sync.WaitGroup
	var errs [2]error
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = h.client.Do(context.Background(), api.Request{Path: "/expired"}, nil)
	}()
	go func() {
		defer wg.Done()
		errs[1] = h.client.Do(context.Background(), api.Request{Path: "/anything"}, nil)
	}()
	wg.Wait()

	assert.True(t, errors.IsUnauthorized(errs[0]))
	assert.NoError(t, errs[1])
	assert.Equal(t, int32(1), h.navs.Load())
}

func TestLoginRearmsInvalidation(t *testing.T) {
	h := newHarness(t)

	for i := range 2 {
		_, err := h.store.Login(context.Background(), "admin@x.com", "secret")
		require.NoError(t, err)
		_ = h.client.Do(context.Background(), api.Request{Path: "/expired"}, nil)
		assert.Equal(t, int32(i+1), h.navs.Load())
	}
}

func TestUpdateIdentity(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.Login(context.Background(), "admin@x.com", "secret")
	require.NoError(t, err)
	before := h.store.Identity()

	name := "Renomeado"
	updated, err := h.store.UpdateIdentity(context.Background(), domain.IdentityPatch{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renomeado", updated.DisplayName)
	assert.Equal(t, domain.RoleAdmin, updated.Role)

	assert.Equal(t, "Admin", before.DisplayName, "published identities are immutable")

	cached, err := h.creds.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Renomeado", cached.DisplayName)
}

func TestUpdateIdentityRequiresSession(t *testing.T) {
	h := newHarness(t)
	name := "x"
	_, err := h.store.UpdateIdentity(context.Background(), domain.IdentityPatch{DisplayName: &name})
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))
}

func TestWatch(t *testing.T) {
	h := newHarness(t)
	updates, cancel := h.store.Watch()
	defer cancel()

	_, err := h.store.Login(context.Background(), "admin@x.com", "secret")
	require.NoError(t, err)

	select {
	case snap := <-updates:
		assert.True(t, snap.Authenticated())
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}

	cancel()
	_, open := <-updates
	assert.False(t, open)
	cancel()
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "ready", StatusReady.String())
}
