package collection

import (
	"context"
	"sync"

	"github.com/tourabio/library-service/internal/api"
	"github.com/tourabio/library-service/internal/domain"
)

// Books is the book collection store.
//
// On top of the generic cache it maintains the handle arena (see handle.go)
// that gives books a client-side identity the wire format lacks.
type Books struct {
	*Store[domain.Book]
	client *api.Client

	mu         sync.Mutex
	generation uint32
}

// NewBooks creates the book store backed by the given client.
func NewBooks(client *api.Client, opts ...Option[domain.Book]) *Books {
	b := &Books{client: client}
	b.Store = NewStore("books", client.ListBooks, opts...)

	// Every replacement of items starts a new handle generation, including
	// replacements triggered by mutation reloads.
	b.SubscribeItems(func([]domain.Book) {
		b.mu.Lock()
		b.generation++
		b.mu.Unlock()
	})
	return b
}

// Handles returns the handle for every book in the current snapshot,
// parallel to Items().
func (b *Books) Handles() []Handle {
	b.mu.Lock()
	gen := b.generation
	b.mu.Unlock()

	items := b.Items()
	handles := make([]Handle, len(items))
	for i := range items {
		handles[i] = makeHandle(gen, i)
	}
	return handles
}

// Resolve returns the book a handle points at, or ErrStaleHandle when the
// snapshot has been replaced since the handle was minted.
func (b *Books) Resolve(h Handle) (domain.Book, error) {
	b.mu.Lock()
	gen := b.generation
	b.mu.Unlock()

	if h.generation() != gen {
		return domain.Book{}, ErrStaleHandle
	}
	items := b.Items()
	if h.index() < 0 || h.index() >= len(items) {
		return domain.Book{}, ErrStaleHandle
	}
	return items[h.index()], nil
}

// Add registers a new book and reloads the collection.
func (b *Books) Add(ctx context.Context, book domain.Book) error {
	return b.Mutate(ctx, func(ctx context.Context) error {
		_, err := b.client.CreateBook(ctx, book)
		return err
	})
}

// Update replaces the book behind a handle and reloads the collection.
func (b *Books) Update(ctx context.Context, h Handle, book domain.Book) error {
	id, err := b.backendID(h)
	if err != nil {
		return err
	}
	return b.Mutate(ctx, func(ctx context.Context) error {
		_, err := b.client.UpdateBook(ctx, id, book)
		return err
	})
}

// Remove deletes the book behind a handle and reloads the collection.
func (b *Books) Remove(ctx context.Context, h Handle) error {
	id, err := b.backendID(h)
	if err != nil {
		return err
	}
	return b.Mutate(ctx, func(ctx context.Context) error {
		return b.client.DeleteBook(ctx, id)
	})
}

// backendID resolves a handle to the backend's numeric id.
func (b *Books) backendID(h Handle) (int64, error) {
	book, err := b.Resolve(h)
	if err != nil {
		return 0, err
	}
	if book.ID == 0 {
		return 0, ErrUnknownBackendID
	}
	return book.ID, nil
}
