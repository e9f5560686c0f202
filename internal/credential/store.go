package credential

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
)

// Storage keys. They match the browser panel's localStorage layout so the
// same names show up when inspecting either client.
const (
	KeyToken    = "token"
	KeyIdentity = "usuario"
)

// Store is the persisted credential: bearer token plus cached identity.
// Writes are serialized so a Clear is never undone by an identity refresh
// that read the token before it.
type Store struct {
	kv KV
	mu sync.Mutex
}

// NewStore creates a credential store over kv
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Token returns the persisted bearer token, or "" when there is none
func (s *Store) Token(ctx context.Context) (string, error) {
	v, ok, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		return "", errors.NewStorageError(errors.ErrCodeStorageRead, "failed to read token", err)
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

// Identity returns the cached identity. A missing or unparseable blob is
// reported as nil without error; the cache is best-effort.
func (s *Store) Identity(ctx context.Context) (*domain.User, error) {
	v, ok, err := s.kv.Get(ctx, KeyIdentity)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageRead, "failed to read cached identity", err)
	}
	if !ok || v == "" {
		return nil, nil
	}

	var u domain.User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

// Save persists token and identity together
func (s *Store) Save(ctx context.Context, token string, identity *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, token, identity)
}

func (s *Store) save(ctx context.Context, token string, identity *domain.User) error {
	if token == "" {
		return errors.NewStorageError(errors.ErrCodeStorageWrite, "token cannot be empty", nil)
	}
	blob, err := json.Marshal(identity)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageWrite, "failed to encode identity", err)
	}

	if err := s.kv.SetMany(ctx, map[string]string{
		KeyToken:    token,
		KeyIdentity: string(blob),
	}); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageWrite, "failed to save credentials", err)
	}
	return nil
}

// SaveIdentity refreshes the cached identity next to an existing token.
// Without a token there is no session to cache, so nothing is written.
func (s *Store) SaveIdentity(ctx context.Context, identity *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	return s.save(ctx, token, identity)
}

// Clear removes token and identity together
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, KeyToken, KeyIdentity); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageWrite, "failed to clear credentials", err)
	}
	return nil
}
