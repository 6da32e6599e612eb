// Package collection implements the per-domain collection stores: a cache of
// the last successful fetch plus loading/error indicators.
//
// Each store is the single writer of its own state. Consumers read through
// Items/Loading/Err or subscribe to the individual fields; they never mutate
// the store directly.
//
// Failure policy is stale-but-available: a failed fetch records an error
// message and leaves the previous items in place, so the UI keeps showing
// the last known-good collection. Mutations resynchronize with a full reload
// on success and touch nothing on failure.
//
// Overlapping loads are last-write-wins: a Load issued while another is
// pending does not cancel it, and whichever response settles last ends up in
// items. Callers needing strict freshness serialize their own calls.
package collection

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tourabio/library-service/internal/api"
	"github.com/tourabio/library-service/internal/observe"
)

// Fetcher retrieves the full raw collection from the backend.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Store caches the last fetched collection of T.
type Store[T any] struct {
	name   string
	fetch  Fetcher[T]
	logger *slog.Logger

	// Independently observable fields; consumers may subscribe to any subset.
	items   *observe.State[[]T]
	loading *observe.State[bool]
	lastErr *observe.State[string] // "" means no error
	loaded  *observe.State[bool]   // true once any fetch has succeeded
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(s *Store[T]) { s.logger = l }
}

// NewStore creates an empty store for the named domain.
func NewStore[T any](name string, fetch Fetcher[T], opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		name:    name,
		fetch:   fetch,
		logger:  slog.Default(),
		items:   observe.NewState[[]T](nil),
		loading: observe.NewState(false),
		lastErr: observe.NewState(""),
		loaded:  observe.NewState(false),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load refreshes the collection from the backend.
//
// loading flips true for the duration of the fetch and the error field is
// cleared up front. On success items are replaced wholesale; on failure the
// error message is recorded and the stale items survive.
func (s *Store[T]) Load(ctx context.Context) error {
	return s.loadWith(ctx, s.fetch)
}

// loadWith runs the load lifecycle against an alternative fetcher. Used for
// endpoints that return a subset of the same collection (e.g. overdue loans).
func (s *Store[T]) loadWith(ctx context.Context, fetch Fetcher[T]) error {
	s.loading.Set(true)
	s.lastErr.Set("")

	fetched, err := fetch(ctx)
	if err != nil {
		s.loading.Set(false)
		s.lastErr.Set(errorMessage(err))
		s.logger.Warn("collection load failed", "collection", s.name, "error", err)
		return err
	}

	s.items.Set(fetched)
	s.loaded.Set(true)
	s.loading.Set(false)
	s.logger.Debug("collection loaded", "collection", s.name, "count", len(fetched))
	return nil
}

// Mutate runs a backend write and resynchronizes.
//
// On success the whole collection is reloaded (simplicity over optimistic
// patching; these collections are small). On failure the error is recorded
// and items stay untouched - a failed mutation never triggers a refresh.
func (s *Store[T]) Mutate(ctx context.Context, op func(context.Context) error) error {
	s.lastErr.Set("")
	if err := op(ctx); err != nil {
		s.lastErr.Set(errorMessage(err))
		s.logger.Warn("collection mutation failed", "collection", s.name, "error", err)
		return err
	}
	return s.Load(ctx)
}

// Items returns the last successfully fetched collection.
func (s *Store[T]) Items() []T {
	return s.items.Get()
}

// Loading reports whether a fetch is in flight.
func (s *Store[T]) Loading() bool {
	return s.loading.Get()
}

// Err returns the recorded error message, or "" when the last operation
// succeeded.
func (s *Store[T]) Err() string {
	return s.lastErr.Get()
}

// Loaded reports whether any fetch has ever succeeded. An empty, loaded
// collection is distinct from one that was never fetched.
func (s *Store[T]) Loaded() bool {
	return s.loaded.Get()
}

// SubscribeItems registers a listener on the items field.
func (s *Store[T]) SubscribeItems(fn observe.Listener[[]T]) observe.CancelFunc {
	return s.items.Subscribe(fn)
}

// SubscribeLoading registers a listener on the loading flag.
func (s *Store[T]) SubscribeLoading(fn observe.Listener[bool]) observe.CancelFunc {
	return s.loading.Subscribe(fn)
}

// SubscribeErr registers a listener on the error field.
func (s *Store[T]) SubscribeErr(fn observe.Listener[string]) observe.CancelFunc {
	return s.lastErr.Subscribe(fn)
}

// errorMessage extracts the operator-facing message from a backend error.
func errorMessage(err error) string {
	var ae *api.Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
