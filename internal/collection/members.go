package collection

import (
	"context"

	"github.com/tourabio/library-service/internal/api"
	"github.com/tourabio/library-service/internal/domain"
)

// Members is the member collection store. Members carry a stable backend id,
// so no handle arena is needed.
type Members struct {
	*Store[domain.Member]
	client *api.Client
}

// NewMembers creates the member store backed by the given client.
func NewMembers(client *api.Client, opts ...Option[domain.Member]) *Members {
	return &Members{
		Store:  NewStore("members", client.ListMembers, opts...),
		client: client,
	}
}

// Add registers a new member and reloads the collection.
func (m *Members) Add(ctx context.Context, member domain.Member) error {
	return m.Mutate(ctx, func(ctx context.Context) error {
		_, err := m.client.CreateMember(ctx, member)
		return err
	})
}

// Update replaces a member by id and reloads the collection.
func (m *Members) Update(ctx context.Context, id int64, member domain.Member) error {
	return m.Mutate(ctx, func(ctx context.Context) error {
		_, err := m.client.UpdateMember(ctx, id, member)
		return err
	})
}

// Remove deletes a member by id and reloads the collection.
func (m *Members) Remove(ctx context.Context, id int64) error {
	return m.Mutate(ctx, func(ctx context.Context) error {
		return m.client.DeleteMember(ctx, id)
	})
}
