package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tourabio/library-service/internal/domain"
)

// Authenticate verifies a member by name and email.
// GET /members/authenticate?name=&email=, with the authentication retry budget.
//
// Returns the matched member on 200; 401 and 404 both mean the credentials
// did not match a registered member.
func (c *Client) Authenticate(ctx context.Context, name, email string) (domain.Member, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("email", email)

	var member domain.Member
	err := c.do(ctx, http.MethodGet, "/members/authenticate", query, nil, authRetries, &member)
	if err != nil {
		return domain.Member{}, err
	}
	return member, nil
}

// ListMembers fetches every member. GET /members.
func (c *Client) ListMembers(ctx context.Context) ([]domain.Member, error) {
	var members []domain.Member
	if err := c.get(ctx, "/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// GetMember fetches one member by id. GET /members/{id}.
func (c *Client) GetMember(ctx context.Context, id int64) (domain.Member, error) {
	var member domain.Member
	if err := c.get(ctx, fmt.Sprintf("/members/%d", id), nil, &member); err != nil {
		return domain.Member{}, err
	}
	return member, nil
}

// CreateMember registers a new member. POST /members.
func (c *Client) CreateMember(ctx context.Context, member domain.Member) (domain.Member, error) {
	var created domain.Member
	if err := c.mutate(ctx, http.MethodPost, "/members", member, &created); err != nil {
		return domain.Member{}, err
	}
	return created, nil
}

// UpdateMember replaces a member by id. PUT /members/{id}.
func (c *Client) UpdateMember(ctx context.Context, id int64, member domain.Member) (domain.Member, error) {
	var updated domain.Member
	if err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/members/%d", id), member, &updated); err != nil {
		return domain.Member{}, err
	}
	return updated, nil
}

// DeleteMember removes a member by id. DELETE /members/{id}.
func (c *Client) DeleteMember(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/members/%d", id), nil, nil)
}
