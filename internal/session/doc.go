// Package session implements the client-side authentication state store.
//
// The store is the single source of truth for "who is logged in". It holds
// one AuthState value and replaces it atomically on every transition; there
// is no partial update path.
//
// # Commit procedure
//
// Every state transition follows the same two steps, in order:
//
//  1. The new AuthState replaces the in-memory value and subscribers are
//     notified synchronously, in registration order.
//  2. The state is serialized and written to the configured storage scope.
//     Persistence failures are logged and swallowed - the in-memory state
//     is authoritative, so a broken disk never fails a login.
//
// # Storage scopes
//
// Two scopes exist: a durable one (SQLite, survives process restarts) and a
// session one (in-process memory, gone when the process exits). Exactly one
// scope is written per commit, selected by configuration. Logout clears both.
//
// # Restoration
//
// On construction the store reads the durable scope first, then the session
// scope. Corrupt or incomplete persisted state is discarded silently and the
// store starts unauthenticated; restoration never returns an error for bad
// stored bytes.
//
// INVARIANT: after every commit, IsAuthenticated == true exactly when
// Member != nil.
package session
