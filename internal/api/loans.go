package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tourabio/library-service/internal/domain"
)

// ListLoans fetches every loan. GET /loans.
func (c *Client) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	var loans []domain.Loan
	if err := c.get(ctx, "/loans", nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// ListOverdueLoans fetches loans the backend classifies as overdue.
// GET /loans/overdue.
func (c *Client) ListOverdueLoans(ctx context.Context) ([]domain.Loan, error) {
	var loans []domain.Loan
	if err := c.get(ctx, "/loans/overdue", nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// ListLoansByMember fetches the loans held by one member.
// GET /loans/member/{id}.
func (c *Client) ListLoansByMember(ctx context.Context, memberID int64) ([]domain.Loan, error) {
	var loans []domain.Loan
	if err := c.get(ctx, fmt.Sprintf("/loans/member/%d", memberID), nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// ListLoansByBook fetches the loans of one book. GET /loans/book/{id}.
func (c *Client) ListLoansByBook(ctx context.Context, bookID int64) ([]domain.Loan, error) {
	var loans []domain.Loan
	if err := c.get(ctx, fmt.Sprintf("/loans/book/%d", bookID), nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// GetLoan fetches one loan by id. GET /loans/{id}.
func (c *Client) GetLoan(ctx context.Context, id int64) (domain.Loan, error) {
	var loan domain.Loan
	if err := c.get(ctx, fmt.Sprintf("/loans/%d", id), nil, &loan); err != nil {
		return domain.Loan{}, err
	}
	return loan, nil
}

// CreateLoan checks a book out to a member. POST /loans.
func (c *Client) CreateLoan(ctx context.Context, req domain.LoanRequest) (domain.Loan, error) {
	var created domain.Loan
	if err := c.mutate(ctx, http.MethodPost, "/loans", req, &created); err != nil {
		return domain.Loan{}, err
	}
	return created, nil
}

// ReturnLoan completes a loan. PUT /loans/{id}/return.
func (c *Client) ReturnLoan(ctx context.Context, id int64) (domain.Loan, error) {
	var returned domain.Loan
	if err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/loans/%d/return", id), nil, &returned); err != nil {
		return domain.Loan{}, err
	}
	return returned, nil
}
