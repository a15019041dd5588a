package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nutribattle/nutribattle/internal/api"
)

// Login exchanges credentials for a token. The request is sent without a
// bearer token so a failed login cannot end an existing session.
func (c *Client) Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error) {
	if err := c.checkRequest(creds); err != nil {
		return nil, err
	}

	var resp api.AuthResponse
	if err := c.anonymous().do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account and returns its token
func (c *Client) Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var resp api.AuthResponse
	if err := c.anonymous().do(ctx, request{method: http.MethodPost, path: "/auth/signup", body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckUsername reports whether a username is still available
func (c *Client) CheckUsername(ctx context.Context, username string) (*api.APIMessage, error) {
	if username == "" {
		return nil, invalid("username", "is required")
	}

	var resp api.APIMessage
	err := c.anonymous().do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/check-username",
		query:  url.Values{"username": {username}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckEmail reports whether an email address is still available
func (c *Client) CheckEmail(ctx context.Context, email string) (*api.APIMessage, error) {
	if email == "" {
		return nil, invalid("email", "is required")
	}

	var resp api.APIMessage
	err := c.anonymous().do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/check-email",
		query:  url.Values{"email": {email}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// anonymous returns a copy of the client that never sends a token
func (c *Client) anonymous() *Client {
	cp := *c
	cp.tokens = nil
	return &cp
}
