package client

import (
	"context"
	"net/http"

	"github.com/nutribattle/nutribattle/internal/api"
)

// Profile returns the logged in user's profile
func (c *Client) Profile(ctx context.Context) (*api.UserProfile, error) {
	var resp api.UserProfile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/profile"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile changes the non-nil fields of req
func (c *Client) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.UserProfile, error) {
	if req.Age != nil && (*req.Age < 1 || *req.Age > 150) {
		return nil, invalid("age", "must be between 1 and 150")
	}
	if req.Height != nil && *req.Height <= 0 {
		return nil, invalid("height", "must be greater than 0")
	}
	if req.Weight != nil && *req.Weight <= 0 {
		return nil, invalid("weight", "must be greater than 0")
	}

	var resp api.UserProfile
	if err := c.do(ctx, request{method: http.MethodPut, path: "/user/profile", body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Goals returns the user's daily macro targets
func (c *Client) Goals(ctx context.Context) (*api.NutritionalGoals, error) {
	var resp api.NutritionalGoals
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/goals"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateGoals sets the user's daily macro targets. Zero values are left
// unchanged by the backend.
func (c *Client) UpdateGoals(ctx context.Context, goals api.NutritionalGoals) (*api.NutritionalGoals, error) {
	if goals.DailyCalorieGoal < 0 || goals.DailyProteinGoal < 0 || goals.DailyCarbGoal < 0 || goals.DailyFatGoal < 0 {
		return nil, invalid("goals", "must not be negative")
	}

	body := map[string]float64{}
	if goals.DailyCalorieGoal > 0 {
		body["dailyCalorieGoal"] = goals.DailyCalorieGoal
	}
	if goals.DailyProteinGoal > 0 {
		body["dailyProteinGoal"] = goals.DailyProteinGoal
	}
	if goals.DailyCarbGoal > 0 {
		body["dailyCarbGoal"] = goals.DailyCarbGoal
	}
	if goals.DailyFatGoal > 0 {
		body["dailyFatGoal"] = goals.DailyFatGoal
	}

	var resp api.NutritionalGoals
	if err := c.do(ctx, request{method: http.MethodPut, path: "/user/goals", body: body}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CalculateGoals returns targets derived from the profile without saving them
func (c *Client) CalculateGoals(ctx context.Context) (*api.NutritionalGoals, error) {
	var resp api.NutritionalGoals
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/goals/calculate"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangePassword changes the user's password and returns the backend's
// confirmation
func (c *Client) ChangePassword(ctx context.Context, req api.ChangePasswordRequest) (string, error) {
	if err := c.checkRequest(req); err != nil {
		return "", err
	}

	var message string
	if err := c.do(ctx, request{method: http.MethodPut, path: "/user/password", body: req}, &message); err != nil {
		return "", err
	}
	return message, nil
}
