package credential

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return map[string]KV{
		"memory": NewMemoryKV(),
		"file":   NewFileKV(filepath.Join(t.TempDir(), "painel", "credentials.json")),
		"redis":  NewRedisKV(rdb, "test"),
	}
}

func testIdentity() *domain.User {
	return &domain.User{ID: "u1", DisplayName: "Admin", Email: "admin@x.com", Role: domain.RoleAdmin}
}

func TestStoreSaveLoadClear(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := NewStore(kv)

			token, err := store.Token(ctx)
			require.NoError(t, err)
			assert.Empty(t, token)

			identity, err := store.Identity(ctx)
			require.NoError(t, err)
			assert.Nil(t, identity)

			require.NoError(t, store.Save(ctx, "t1", testIdentity()))

			token, err = store.Token(ctx)
			require.NoError(t, err)
			assert.Equal(t, "t1", token)

			identity, err = store.Identity(ctx)
			require.NoError(t, err)
			require.NotNil(t, identity)
			assert.Equal(t, domain.RoleAdmin, identity.Role)

			require.NoError(t, store.Clear(ctx))

			token, err = store.Token(ctx)
			require.NoError(t, err)
			assert.Empty(t, token)
			identity, err = store.Identity(ctx)
			require.NoError(t, err)
			assert.Nil(t, identity)

			// Clear is idempotent
			require.NoError(t, store.Clear(ctx))
		})
	}
}

func TestStoreSaveRejectsEmptyToken(t *testing.T) {
	store := NewStore(NewMemoryKV())
	err := store.Save(context.Background(), "", testIdentity())
	require.Error(t, err)
	assert.Equal(t, errors.KindStorage, errors.KindOf(err))
}

// hookKV runs onTokenRead once, right after the token is read
type hookKV struct {
	*MemoryKV
	once        sync.Once
	onTokenRead func()
}

func (h *hookKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := h.MemoryKV.Get(ctx, key)
	if key == KeyToken && h.onTokenRead != nil {
		h.once.Do(h.onTokenRead)
	}
	return v, ok, err
}

func TestSaveIdentityDoesNotUndoClear(t *testing.T) {
	ctx := context.Background()
	kv := &hookKV{MemoryKV: NewMemoryKV()}
	store := NewStore(kv)
	require.NoError(t, store.Save(ctx, "t1", testIdentity()))

	cleared := make(chan error, 1)
	kv.onTokenRead = func() {
		go func() { cleared <- store.Clear(ctx) }()
		// Give the concurrent Clear a chance to land before the write-back
		select {
		case err := <-cleared:
			cleared <- err
		case <-time.After(50 * time.Millisecond):
		}
	}

	updated := testIdentity()
	updated.DisplayName = "Renamed"
	require.NoError(t, store.SaveIdentity(ctx, updated))
	require.NoError(t, <-cleared)

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "a cleared credential must stay absent")
	identity, err := store.Identity(ctx)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestSaveIdentityNeedsToken(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryKV())

	require.NoError(t, store.SaveIdentity(ctx, testIdentity()))
	identity, err := store.Identity(ctx)
	require.NoError(t, err)
	assert.Nil(t, identity, "no identity is cached without a token")

	require.NoError(t, store.Save(ctx, "t1", testIdentity()))
	updated := testIdentity()
	updated.DisplayName = "Renamed"
	require.NoError(t, store.SaveIdentity(ctx, updated))

	identity, err = store.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", identity.DisplayName)

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
}

func TestCorruptIdentityIsIgnored(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.SetMany(ctx, map[string]string{KeyToken: "t1", KeyIdentity: "{not json"}))

	identity, err := NewStore(kv).Identity(ctx)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestFileKVPermissionsAndCleanup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewStore(NewFileKV(path))

	require.NoError(t, store.Save(ctx, "t1", testIdentity()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, store.Clear(ctx))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "empty credential file should be removed")
}

func TestFileKVCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))

	ctx := context.Background()
	store := NewStore(NewFileKV(path))

	_, err := store.Token(ctx)
	assert.Error(t, err)

	require.NoError(t, store.Clear(ctx), "logout must recover from a corrupt file")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))
	require.NoError(t, store.Save(ctx, "t1", testIdentity()), "login must recover from a corrupt file")

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
}

func TestRedisKVPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewStore(NewRedisKV(rdb, "kiosk"))
	require.NoError(t, store.Save(context.Background(), "t1", testIdentity()))

	v, err := mr.Get("kiosk:token")
	require.NoError(t, err)
	assert.Equal(t, "t1", v)
	assert.True(t, mr.Exists("kiosk:usuario"))
}

func TestOpenRedisKV(t *testing.T) {
	mr := miniredis.RunT(t)

	kv, err := OpenRedisKV(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.SetMany(context.Background(), map[string]string{"a": "1"}))
	assert.True(t, mr.Exists("painel:a"))

	_, err = OpenRedisKV(context.Background(), RedisConfig{})
	require.Error(t, err)
	assert.Equal(t, errors.KindConfig, errors.KindOf(err))
}

func TestOpenRedisKVUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedisKV(context.Background(), RedisConfig{Addr: addr, PingTimeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, errors.IsNetwork(err))
}
