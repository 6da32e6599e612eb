package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourabio/library-service/internal/api"
	"github.com/tourabio/library-service/internal/domain"
)

var johnDoe = domain.Member{ID: 1, Name: "John Doe", Email: "john.doe@example.com"}

type fakeAuth struct {
	member domain.Member
	err    error
	calls  int

	lastName  string
	lastEmail string
}

func (f *fakeAuth) Authenticate(ctx context.Context, name, email string) (domain.Member, error) {
	f.calls++
	f.lastName = name
	f.lastEmail = email
	if f.err != nil {
		return domain.Member{}, f.err
	}
	return f.member, nil
}

type failingStorage struct{}

func (failingStorage) Store([]byte) error          { return errors.New("disk full") }
func (failingStorage) Load() ([]byte, bool, error) { return nil, false, errors.New("disk gone") }
func (failingStorage) Clear() error                { return errors.New("disk full") }

func quiet() StoreOption {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLogin_CommitsAuthenticatedState(t *testing.T) {
	auth := &fakeAuth{member: johnDoe}
	st := NewStore(auth, quiet(), WithTokenGenerator(NewFixedGenerator("tok-1")))

	result, err := st.Login(context.Background(), "John Doe", "john.doe@example.com")
	require.NoError(t, err)

	assert.True(t, result.Authenticated)
	assert.Equal(t, johnDoe, result.Member)
	assert.Equal(t, "John Doe", auth.lastName)
	assert.Equal(t, "john.doe@example.com", auth.lastEmail)

	state := st.AuthState()
	assert.True(t, state.IsAuthenticated)
	require.NotNil(t, state.Member)
	assert.Equal(t, johnDoe, *state.Member)
	assert.Equal(t, "tok-1", state.Token)
}

func TestLogin_FailureLeavesPriorStateUntouched(t *testing.T) {
	auth := &fakeAuth{member: johnDoe}
	st := NewStore(auth, quiet(), WithTokenGenerator(NewFixedGenerator("tok-1")))

	_, err := st.Login(context.Background(), "John Doe", "john.doe@example.com")
	require.NoError(t, err)

	auth.err = &api.Error{Code: api.CodeServer, Message: "Server Error", Status: 500}
	_, err = st.Login(context.Background(), "John Doe", "john.doe@example.com")
	require.Error(t, err)

	state := st.AuthState()
	assert.True(t, state.IsAuthenticated, "failed login must not clobber an existing session")
	assert.Equal(t, "tok-1", state.Token)
}

func TestLogin_EachLoginGetsAFreshToken(t *testing.T) {
	auth := &fakeAuth{member: johnDoe}
	st := NewStore(auth, quiet())

	first, err := st.Login(context.Background(), "John Doe", "john.doe@example.com")
	require.NoError(t, err)
	tokenA := st.AuthState().Token

	_, err = st.Login(context.Background(), first.Member.Name, first.Member.Email)
	require.NoError(t, err)
	tokenB := st.AuthState().Token

	assert.NotEmpty(t, tokenA)
	assert.NotEqual(t, tokenA, tokenB, "tokens must be unique per login")
}

func TestAuthStateInvariantHoldsAfterEveryCommit(t *testing.T) {
	auth := &fakeAuth{member: johnDoe}
	st := NewStore(auth, quiet())

	var states []AuthState
	cancel := st.Subscribe(func(s AuthState) { states = append(states, s) })
	defer cancel()

	st.Login(context.Background(), "John Doe", "john.doe@example.com")
	st.Logout()
	st.Login(context.Background(), "John Doe", "john.doe@example.com")
	auth.err = &api.Error{Code: api.CodeUnauthorized, Message: "Unauthorized", Status: 401}
	st.VerifyAuthentication(context.Background())

	require.NotEmpty(t, states)
	for i, s := range states {
		assert.Equal(t, s.IsAuthenticated, s.Member != nil,
			"commit %d violates isAuthenticated <=> member present", i)
	}
}

func TestLogout_IsIdempotentAndClearsBothScopes(t *testing.T) {
	durable := NewMemoryStorage()
	sess := NewMemoryStorage()
	auth := &fakeAuth{member: johnDoe}
	st := NewStore(auth, quiet(),
		WithDurableStorage(durable),
		WithSessionStorage(sess),
		WithScope(ScopeDurable))

	_, err := st.Login(context.Background(), "John Doe", "john.doe@example.com")
	require.NoError(t, err)
	_, ok, _ := durable.Load()
	require.True(t, ok, "login should have persisted to the durable scope")

	st.Logout()
	after := st.AuthState()

	st.Logout()
	assert.Equal(t, after, st.AuthState(), "double logout must not change state")

	_, ok, _ = durable.Load()
	assert.False(t, ok, "durable scope must be cleared")
	_, ok, _ = sess.Load()
	assert.False(t, ok, "session scope must be cleared")
}

func TestCommit_WritesOnlySelectedScope(t *testing.T) {
	durable := NewMemoryStorage()
	sess := NewMemoryStorage()
	st := NewStore(&fakeAuth{member: johnDoe}, quiet(),
		WithDurableStorage(durable),
		WithSessionStorage(sess),
		WithScope(ScopeSession))

	_, err := st.Login(context.Background(), "John Doe", "john.doe@example.com")
	require.NoError(t, err)

	_, ok, _ := sess.Load()
	assert.True(t, ok, "session scope selected, must be written")
	_, ok, _ = durable.Load()
	assert.False(t, ok, "durable scope not selected, must be untouched")
}

func TestRestore_RoundTripsPersistedState(t *testing.T) {
	durable := NewMemoryStorage()
	auth := &fakeAuth{member: johnDoe}

	first := NewStore(auth, quiet(),
		WithDurableStorage(durable),
		WithScope(ScopeDurable),
		WithTokenGenerator(NewFixedGenerator("tok-1")))
	_, err := first.Login(context.Background(), "John Doe", "john.doe@example.com")
	require.NoError(t, err)

	second := NewStore(auth, quiet(),
		WithDurableStorage(durable),
		WithScope(ScopeDurable))

	assert.Equal(t, first.AuthState(), second.AuthState(), "restored state must equal persisted state")
	assert.True(t, second.IsAuthenticated())
}

func TestRestore_PrefersDurableScope(t *testing.T) {
	durable := NewMemoryStorage()
	sess := NewMemoryStorage()
	require.NoError(t, durable.Store([]byte(`{"isAuthenticated":true,"member":{"id":1,"name":"John Doe","email":"john.doe@example.com"},"token":"durable-tok"}`)))
	require.NoError(t, sess.Store([]byte(`{"isAuthenticated":true,"member":{"id":2,"name":"Jane","email":"jane@example.com"},"token":"session-tok"}`)))

	st := NewStore(&fakeAuth{}, quiet(),
		WithDurableStorage(durable),
		WithSessionStorage(sess))

	assert.Equal(t, "durable-tok", st.AuthState().Token)
}

func TestRestore_CorruptStateDefaultsToUnauthenticated(t *testing.T) {
	cases := map[string]string{
		"malformed json":      `{"isAuthenticated": tru`,
		"missing member":      `{"isAuthenticated":true,"member":null,"token":"t"}`,
		"not even an object":  `42`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			durable := NewMemoryStorage()
			require.NoError(t, durable.Store([]byte(payload)))

			st := NewStore(&fakeAuth{}, quiet(), WithDurableStorage(durable))

			state := st.AuthState()
			assert.False(t, state.IsAuthenticated)
			assert.Nil(t, state.Member)
		})
	}
}

func TestRestore_FallsBackToSessionScope(t *testing.T) {
	sess := NewMemoryStorage()
	require.NoError(t, sess.Store([]byte(`{"isAuthenticated":true,"member":{"id":1,"name":"John Doe","email":"john.doe@example.com"},"token":"s"}`)))

	st := NewStore(&fakeAuth{}, quiet(), WithSessionStorage(sess))
	assert.True(t, st.IsAuthenticated())
}

func TestStorageFailuresAreSwallowed(t *testing.T) {
	st := NewStore(&fakeAuth{member: johnDoe}, quiet(),
		WithDurableStorage(failingStorage{}),
		WithSessionStorage(failingStorage{}),
		WithScope(ScopeDurable))

	_, err := st.Login(context.Background(), "John Doe", "john.doe@example.com")
	require.NoError(t, err, "a broken disk must never fail a login")
	assert.True(t, st.IsAuthenticated())

	st.Logout()
	assert.False(t, st.IsAuthenticated())
}

func TestVerifyAuthentication_NoMemberFailsImmediately(t *testing.T) {
	auth := &fakeAuth{member: johnDoe}
	st := NewStore(auth, quiet())

	ok, err := st.VerifyAuthentication(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNoAuthenticatedMember)
	assert.Zero(t, auth.calls, "precondition failure must not hit the backend")
}

func TestVerifyAuthentication_ReplaysStoredIdentity(t *testing.T) {
	auth := &fakeAuth{member: johnDoe}
	st := NewStore(auth, quiet())

	_, err := st.Login(context.Background(), "John Doe", "john.doe@example.com")
	require.NoError(t, err)

	ok, err := st.VerifyAuthentication(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "John Doe", auth.lastName)
	assert.Equal(t, "john.doe@example.com", auth.lastEmail)
	assert.True(t, st.IsAuthenticated())
}

func TestVerifyAuthentication_BackendRejectionForcesLogout(t *testing.T) {
	auth := &fakeAuth{member: johnDoe}
	st := NewStore(auth, quiet())

	_, err := st.Login(context.Background(), "John Doe", "john.doe@example.com")
	require.NoError(t, err)

	auth.err = &api.Error{Code: api.CodeUnauthorized, Message: "Unauthorized: invalid name or email", Status: 401}
	ok, err := st.VerifyAuthentication(context.Background())

	assert.False(t, ok)
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, st.IsAuthenticated(), "rejected verification must force logout")
	assert.Nil(t, st.CurrentMember())
}

func TestSubscribe_SeesCommitsInOrder(t *testing.T) {
	auth := &fakeAuth{member: johnDoe}
	st := NewStore(auth, quiet())

	var flags []bool
	cancel := st.Subscribe(func(s AuthState) { flags = append(flags, s.IsAuthenticated) })
	defer cancel()

	st.Login(context.Background(), "John Doe", "john.doe@example.com")
	st.Logout()

	assert.Equal(t, []bool{false, true, false}, flags)
}
