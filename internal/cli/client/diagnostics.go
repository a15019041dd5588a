package client

import (
	"context"
	"net/http"
	"time"
)

// PingResult is the answer of the connectivity check
type PingResult struct {
	Message   string        `json:"message" yaml:"message" validate:"required"`
	Timestamp string        `json:"timestamp" yaml:"timestamp"`
	Latency   time.Duration `json:"-" yaml:"latency"`
}

// Ping calls the backend's public test endpoint
func (c *Client) Ping(ctx context.Context) (*PingResult, error) {
	start := time.Now()

	var resp PingResult
	if err := c.anonymous().do(ctx, request{method: http.MethodGet, path: "/test"}, &resp); err != nil {
		return nil, err
	}
	resp.Latency = time.Since(start)
	return &resp, nil
}
