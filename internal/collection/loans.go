package collection

import (
	"context"

	"github.com/tourabio/library-service/internal/api"
	"github.com/tourabio/library-service/internal/domain"
)

// Loans is the loan collection store.
type Loans struct {
	*Store[domain.Loan]
	client *api.Client
}

// NewLoans creates the loan store backed by the given client.
func NewLoans(client *api.Client, opts ...Option[domain.Loan]) *Loans {
	return &Loans{
		Store:  NewStore("loans", client.ListLoans, opts...),
		client: client,
	}
}

// LoadOverdue replaces the cached collection with the backend's overdue
// subset. It shares the items/loading/error fields with Load; the last call
// to settle wins.
func (l *Loans) LoadOverdue(ctx context.Context) error {
	return l.loadWith(ctx, l.client.ListOverdueLoans)
}

// Checkout creates a loan and reloads the collection.
func (l *Loans) Checkout(ctx context.Context, req domain.LoanRequest) error {
	return l.Mutate(ctx, func(ctx context.Context) error {
		_, err := l.client.CreateLoan(ctx, req)
		return err
	})
}

// Return completes a loan and reloads the collection.
func (l *Loans) Return(ctx context.Context, id int64) error {
	return l.Mutate(ctx, func(ctx context.Context) error {
		_, err := l.client.ReturnLoan(ctx, id)
		return err
	})
}
