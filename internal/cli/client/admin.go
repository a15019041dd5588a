package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nutribattle/nutribattle/internal/api"
)

// MaxPageSize bounds the admin user listing
const MaxPageSize = 100

// ListUsers returns one page of accounts, newest first
func (c *Client) ListUsers(ctx context.Context, page, size int) (*api.UserPage, error) {
	if page < 0 {
		return nil, invalid("page", "must be 0 or more")
	}
	if size < 1 || size > MaxPageSize {
		return nil, invalid("size", "must be between 1 and %d", MaxPageSize)
	}

	var resp api.UserPage
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/admin/users",
		query:  url.Values{"page": {strconv.Itoa(page)}, "size": {strconv.Itoa(size)}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleUserStatus enables or disables an account
func (c *Client) ToggleUserStatus(ctx context.Context, id int64) (*api.APIMessage, error) {
	return c.adminAction(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d/toggle-status", id), id)
}

// MakeAdmin promotes an account to the admin role
func (c *Client) MakeAdmin(ctx context.Context, id int64) (*api.APIMessage, error) {
	return c.adminAction(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d/make-admin", id), id)
}

// CreateFood adds a catalog entry
func (c *Client) CreateFood(ctx context.Context, food api.FoodInput) (*api.Food, error) {
	if err := c.checkRequest(food); err != nil {
		return nil, err
	}

	var resp api.Food
	if err := c.do(ctx, request{method: http.MethodPost, path: "/admin/foods", body: food}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateFood replaces a catalog entry
func (c *Client) UpdateFood(ctx context.Context, id int64, food api.FoodInput) (*api.Food, error) {
	if id <= 0 {
		return nil, invalid("id", "must be a positive number")
	}
	if err := c.checkRequest(food); err != nil {
		return nil, err
	}

	var resp api.Food
	if err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/admin/foods/%d", id), body: food}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteFood removes a catalog entry
func (c *Client) DeleteFood(ctx context.Context, id int64) (*api.APIMessage, error) {
	return c.adminAction(ctx, http.MethodDelete, fmt.Sprintf("/admin/foods/%d", id), id)
}

// Stats returns the admin dashboard counters
func (c *Client) Stats(ctx context.Context) (*api.SystemStats, error) {
	var resp api.SystemStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/stats"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) adminAction(ctx context.Context, method, path string, id int64) (*api.APIMessage, error) {
	if id <= 0 {
		return nil, invalid("id", "must be a positive number")
	}

	var resp api.APIMessage
	if err := c.do(ctx, request{method: method, path: path}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
