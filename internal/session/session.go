// Package session holds the authenticated identity of the running client.
//
// A Store is created once at start-up and shared by every command and view.
// It is the single owner of the persisted credential: Restore, Login and
// Logout are the only operations that write it, apart from the API client
// clearing it on a 401.
package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/felixgeelhaar/painel/internal/api"
	"github.com/felixgeelhaar/painel/internal/credential"
	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
	"github.com/felixgeelhaar/painel/internal/log"
)

// Status is the lifecycle state of the store
type Status int

const (
	// StatusLoading means the first Restore has not finished
	StatusLoading Status = iota
	// StatusReady means identity reflects the last completed operation
	StatusReady
)

// String returns the status name
func (s Status) String() string {
	if s == StatusReady {
		return "ready"
	}
	return "loading"
}

// Snapshot is a consistent view of the store. Identity is never mutated
// after publication.
type Snapshot struct {
	Identity *domain.Identity
	Status   Status
}

// Authenticated reports whether an identity is present
func (s Snapshot) Authenticated() bool {
	return s.Identity != nil
}

// Navigator moves the user to the unauthenticated entry point
type Navigator interface {
	ToLogin()
}

// NavigatorFunc adapts a plain function to Navigator
type NavigatorFunc func()

// ToLogin calls f
func (f NavigatorFunc) ToLogin() { f() }

// Config holds session store dependencies.
type Config struct {
	// Client performs the /auth calls (required)
	Client *api.Client

	// Credentials is the persisted token and identity (required)
	Credentials *credential.Store

	// Navigator is invoked on Logout and when a 401 invalidates the session
	Navigator Navigator

	// Logger (default: log.DefaultLogger)
	Logger *log.Logger

	// Now is the clock used for token expiry checks (default: time.Now)
	Now func() time.Time
}

// Store is the session store
type Store struct {
	client *api.Client
	creds  *credential.Store
	nav    Navigator
	logger *log.Logger
	now    func() time.Time

	mu       sync.RWMutex
	identity *domain.Identity
	status   Status

	watchers map[int]chan Snapshot
	nextID   int

	unsubscribe func()
}

// New creates a session store in StatusLoading and subscribes it to the
// client's session-invalidated event
func New(cfg Config) *Store {
	s := &Store{
		client:   cfg.Client,
		creds:    cfg.Credentials,
		nav:      cfg.Navigator,
		logger:   cfg.Logger,
		now:      cfg.Now,
		status:   StatusLoading,
		watchers: make(map[int]chan Snapshot),
	}
	if s.logger == nil {
		s.logger = log.DefaultLogger()
	}
	s.logger = s.logger.With("component", "session")
	if s.now == nil {
		s.now = time.Now
	}

	s.unsubscribe = s.client.OnInvalidated(s.invalidated)
	return s
}

// Close detaches the store from the API client
func (s *Store) Close() {
	s.unsubscribe()
}

// Snapshot returns the current identity and status
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Identity: s.identity, Status: s.status}
}

// Identity returns the current identity, nil when unauthenticated
func (s *Store) Identity() *domain.Identity {
	return s.Snapshot().Identity
}

// Status returns the lifecycle state
func (s *Store) Status() Status {
	return s.Snapshot().Status
}

// Can reports whether the current identity holds one of roles.
// It is false without an identity.
func (s *Store) Can(roles ...domain.Role) bool {
	identity := s.Identity()
	if identity == nil {
		return false
	}
	return slices.Contains(roles, identity.Role)
}

// Watch returns a channel that receives every published snapshot until
// cancel is called. Slow receivers only see the latest snapshot.
func (s *Store) Watch() (updates <-chan Snapshot, cancel func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// publish replaces the state and notifies watchers. Callers must not hold mu.
func (s *Store) publish(identity *domain.Identity, status Status) Snapshot {
	s.mu.Lock()
	s.identity = identity
	s.status = status
	snap := Snapshot{Identity: identity, Status: status}
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
	s.mu.Unlock()
	return snap
}

// Restore publishes the cached identity, then verifies it with GET /auth/me.
// Any failure clears the session. It always ends in StatusReady.
func (s *Store) Restore(ctx context.Context) Snapshot {
	cached, err := s.creds.Identity(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to read cached identity")
	}
	if cached != nil {
		s.publish(cached, s.Status())
	}

	token, err := s.creds.Token(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to read token")
		return s.reset(ctx)
	}
	if token == "" {
		return s.reset(ctx)
	}

	logger := s.logger.With("token", credential.Fingerprint(token))

	if credential.Expired(token, s.now()) {
		logger.Info("stored token has expired")
		return s.reset(ctx)
	}

	fresh, err := s.client.Auth().Me(ctx)
	if err != nil {
		logger.WithError(err).Info("session restore failed")
		return s.reset(ctx)
	}

	if err := s.creds.SaveIdentity(ctx, fresh); err != nil {
		logger.WithError(err).Warn("failed to persist identity")
	}
	s.client.Arm()

	logger.Debug("session restored", "user", fresh.ID, "role", fresh.Role)
	return s.publish(fresh, StatusReady)
}

// Refresh re-validates the stored credential against the backend
func (s *Store) Refresh(ctx context.Context) Snapshot {
	return s.Restore(ctx)
}

// Login authenticates and persists token and identity together. On failure
// the session is left unauthenticated and the server's message is returned.
func (s *Store) Login(ctx context.Context, email, secret string) (*domain.Identity, error) {
	resp, err := s.client.Auth().Login(ctx, email, secret)
	if err != nil {
		s.reset(ctx)
		return nil, err
	}

	if err := s.creds.Save(ctx, resp.Token, resp.Identity); err != nil {
		s.reset(ctx)
		return nil, err
	}
	s.client.Arm()

	s.logger.Info("logged in", "user", resp.Identity.ID, "role", resp.Identity.Role,
		"token", credential.Fingerprint(resp.Token))
	s.publish(resp.Identity, StatusReady)
	return resp.Identity, nil
}

// Logout clears identity and credential, then navigates to the login entry
// point. The clear completes before navigation.
func (s *Store) Logout(ctx context.Context) error {
	err := s.creds.Clear(context.WithoutCancel(ctx))
	s.publish(nil, StatusReady)
	if err != nil {
		s.logger.WithError(err).Warn("failed to clear credentials")
	}

	if s.nav != nil {
		s.nav.ToLogin()
	}
	return err
}

// UpdateIdentity sends patch to PUT /auth/me and merges the fields the
// server confirmed into the identity and the credential store
func (s *Store) UpdateIdentity(ctx context.Context, patch domain.IdentityPatch) (*domain.Identity, error) {
	current := s.Identity()
	if current == nil {
		return nil, errors.NewNotAuthenticated()
	}
	if patch.Empty() {
		return current, nil
	}

	confirmed, err := s.client.Auth().UpdateMe(ctx, patch)
	if err != nil {
		return nil, err
	}

	// A concurrent logout or 401 wins over the update
	s.mu.RLock()
	latest := s.identity
	s.mu.RUnlock()
	if latest == nil {
		return nil, errors.NewNotAuthenticated()
	}

	merged := patch.Apply(latest, confirmed)
	if err := s.creds.SaveIdentity(ctx, merged); err != nil {
		s.logger.WithError(err).Warn("failed to persist identity")
	}
	s.publish(merged, StatusReady)
	return merged, nil
}

// reset clears the credential and publishes an unauthenticated Ready state
func (s *Store) reset(ctx context.Context) Snapshot {
	if err := s.creds.Clear(context.WithoutCancel(ctx)); err != nil {
		s.logger.WithError(err).Warn("failed to clear credentials")
	}
	return s.publish(nil, StatusReady)
}

// invalidated runs when a 401 has already cleared the credential
func (s *Store) invalidated() {
	s.logger.Info("session invalidated by the server")
	s.publish(nil, StatusReady)
	if s.nav != nil {
		s.nav.ToLogin()
	}
}
