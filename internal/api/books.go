package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tourabio/library-service/internal/domain"
)

// ListBooks fetches every book. GET /books.
func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.get(ctx, "/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// ListAvailableBooks fetches books with at least one loanable copy.
// GET /books/available.
func (c *Client) ListAvailableBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.get(ctx, "/books/available", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches one book by backend id. GET /books/{id}.
func (c *Client) GetBook(ctx context.Context, id int64) (domain.Book, error) {
	var book domain.Book
	if err := c.get(ctx, fmt.Sprintf("/books/%d", id), nil, &book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// CreateBook registers a new book. POST /books.
func (c *Client) CreateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	var created domain.Book
	if err := c.mutate(ctx, http.MethodPost, "/books", book, &created); err != nil {
		return domain.Book{}, err
	}
	return created, nil
}

// UpdateBook replaces a book by backend id. PUT /books/{id}.
func (c *Client) UpdateBook(ctx context.Context, id int64, book domain.Book) (domain.Book, error) {
	var updated domain.Book
	if err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/books/%d", id), book, &updated); err != nil {
		return domain.Book{}, err
	}
	return updated, nil
}

// DeleteBook removes a book by backend id. DELETE /books/{id}.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil, nil)
}
