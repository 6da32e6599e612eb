package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/tourabio/library-service/internal/domain"
	"github.com/tourabio/library-service/internal/observe"
)

// ErrNoAuthenticatedMember is returned by VerifyAuthentication when no member
// is logged in. This is a local precondition failure, not a backend error.
var ErrNoAuthenticatedMember = errors.New("no authenticated member")

// AuthState is the committed authentication snapshot.
//
// AuthState is always replaced as a whole value, never patched.
// INVARIANT: IsAuthenticated == true exactly when Member != nil.
type AuthState struct {
	IsAuthenticated bool           `json:"isAuthenticated"`
	Member          *domain.Member `json:"member"`
	Token           string         `json:"token,omitempty"`
}

// AuthenticationResult is what Login returns to its caller.
type AuthenticationResult struct {
	Member        domain.Member `json:"member"`
	Authenticated bool          `json:"authenticated"`
}

// Authenticator is the slice of the backend client the store depends on.
// Implemented by *api.Client.
type Authenticator interface {
	Authenticate(ctx context.Context, name, email string) (domain.Member, error)
}

// Store is the session state store.
//
// Store is constructed once at application start and passed explicitly to
// consumers; it is the sole writer of its own state.
type Store struct {
	auth    Authenticator
	tokens  TokenGenerator
	state   *observe.State[AuthState]
	durable Storage
	session Storage
	scope   Scope
	logger  *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDurableStorage sets the restart-surviving storage scope.
func WithDurableStorage(s Storage) StoreOption {
	return func(st *Store) { st.durable = s }
}

// WithSessionStorage sets the process-lifetime storage scope.
func WithSessionStorage(s Storage) StoreOption {
	return func(st *Store) { st.session = s }
}

// WithScope selects which storage scope receives commits.
// The other scope is left untouched at commit time; both are cleared on logout.
func WithScope(scope Scope) StoreOption {
	return func(st *Store) { st.scope = scope }
}

// WithTokenGenerator replaces the session token source.
func WithTokenGenerator(g TokenGenerator) StoreOption {
	return func(st *Store) { st.tokens = g }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) StoreOption {
	return func(st *Store) { st.logger = l }
}

// NewStore creates a session store and restores any persisted state.
//
// Restoration reads the durable scope first, then the session scope. Corrupt
// or incomplete persisted state is discarded silently; the store then starts
// unauthenticated. Restoration never fails for bad stored bytes.
func NewStore(auth Authenticator, opts ...StoreOption) *Store {
	st := &Store{
		auth:    auth,
		tokens:  UUIDv7Generator{},
		durable: NewMemoryStorage(),
		session: NewMemoryStorage(),
		scope:   ScopeSession,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(st)
	}
	st.state = observe.NewState(st.restore())
	return st
}

// Login authenticates a member by name and email.
//
// On success it synthesizes a fresh session token, commits the authenticated
// state, and returns the member. On failure the prior state is left
// untouched and the typed backend error propagates.
func (s *Store) Login(ctx context.Context, name, email string) (AuthenticationResult, error) {
	member, err := s.auth.Authenticate(ctx, name, email)
	if err != nil {
		return AuthenticationResult{}, err
	}

	s.commit(AuthState{
		IsAuthenticated: true,
		Member:          &member,
		Token:           s.tokens.Generate(),
	})
	s.logger.Info("member logged in", "member_id", member.ID, "name", member.Name)

	return AuthenticationResult{Member: member, Authenticated: true}, nil
}

// Logout commits the unauthenticated state and clears both storage scopes.
// Logout never fails and is idempotent.
func (s *Store) Logout() {
	s.commit(AuthState{IsAuthenticated: false, Member: nil})

	if err := s.durable.Clear(); err != nil {
		s.logger.Warn("failed to clear durable auth storage", "error", err)
	}
	if err := s.session.Clear(); err != nil {
		s.logger.Warn("failed to clear session auth storage", "error", err)
	}
	s.logger.Info("member logged out")
}

// VerifyAuthentication re-validates the current session against the backend.
//
// Fails with ErrNoAuthenticatedMember when nobody is logged in. Otherwise it
// replays Login with the stored identity; if the backend rejects it, the
// store logs out before propagating the failure.
func (s *Store) VerifyAuthentication(ctx context.Context) (bool, error) {
	member := s.CurrentMember()
	if member == nil {
		return false, ErrNoAuthenticatedMember
	}

	if _, err := s.Login(ctx, member.Name, member.Email); err != nil {
		s.logger.Warn("authentication verification failed, logging out",
			"member_id", member.ID, "error", err)
		s.Logout()
		return false, err
	}
	return true, nil
}

// IsAuthenticated reports whether a member is currently logged in.
func (s *Store) IsAuthenticated() bool {
	return s.state.Get().IsAuthenticated
}

// CurrentMember returns the logged-in member, or nil.
func (s *Store) CurrentMember() *domain.Member {
	return s.state.Get().Member
}

// AuthState returns the current committed snapshot.
func (s *Store) AuthState() AuthState {
	return s.state.Get()
}

// Subscribe registers a listener for every commit. The listener immediately
// receives the current state. The returned cancel func must be called when
// the consuming context is torn down.
func (s *Store) Subscribe(fn observe.Listener[AuthState]) observe.CancelFunc {
	return s.state.Subscribe(fn)
}

// commit is the only state transition path.
//
// Order matters: the in-memory value is replaced and subscribers notified
// first, then the state is persisted to the selected scope. A storage
// failure is logged and swallowed because memory is authoritative.
func (s *Store) commit(state AuthState) {
	s.state.Set(state)

	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Warn("failed to serialize auth state", "error", err)
		return
	}

	target := s.session
	if s.scope == ScopeDurable {
		target = s.durable
	}
	if err := target.Store(data); err != nil {
		s.logger.Warn("failed to persist auth state", "scope", s.scope, "error", err)
	}
}

// restore loads persisted state, durable scope first.
func (s *Store) restore() AuthState {
	for _, storage := range []Storage{s.durable, s.session} {
		data, ok, err := storage.Load()
		if err != nil {
			s.logger.Warn("failed to read persisted auth state", "error", err)
			continue
		}
		if !ok {
			continue
		}

		var state AuthState
		if err := json.Unmarshal(data, &state); err != nil {
			s.logger.Warn("discarding corrupt persisted auth state", "error", err)
			continue
		}
		// Enforce the state invariant on untrusted stored bytes.
		if state.IsAuthenticated && state.Member == nil {
			s.logger.Warn("discarding inconsistent persisted auth state")
			continue
		}
		if !state.IsAuthenticated {
			return AuthState{IsAuthenticated: false, Member: nil}
		}
		return state
	}
	return AuthState{IsAuthenticated: false, Member: nil}
}
