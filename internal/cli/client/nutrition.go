package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nutribattle/nutribattle/internal/api"
)

// NutritionGoals returns the user's goal profile and daily targets
func (c *Client) NutritionGoals(ctx context.Context) (*api.NutritionGoalResponse, error) {
	var resp api.NutritionGoalResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/nutrition/goals"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetNutritionGoals sets the goal profile and returns the recomputed targets
func (c *Client) SetNutritionGoals(ctx context.Context, req api.NutritionGoalRequest) (*api.NutritionGoalResponse, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	if req.Weight != nil && *req.Weight <= 0 {
		return nil, invalid("weight", "must be greater than 0")
	}
	if req.Height != nil && *req.Height <= 0 {
		return nil, invalid("height", "must be greater than 0")
	}

	var resp api.NutritionGoalResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/nutrition/goals", body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DailySummary totals a day's intake. A nil date means today.
func (c *Client) DailySummary(ctx context.Context, date *api.Date) (*api.DailyNutritionSummary, error) {
	query := url.Values{}
	if date != nil && !date.IsZero() {
		query.Set("date", date.String())
	}

	var resp api.DailyNutritionSummary
	if err := c.do(ctx, request{method: http.MethodGet, path: "/nutrition/daily", query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WeeklySummary aggregates seven days from start. A nil start means the
// current week.
func (c *Client) WeeklySummary(ctx context.Context, start *api.Date) (*api.WeeklyNutritionSummary, error) {
	query := url.Values{}
	if start != nil && !start.IsZero() {
		query.Set("startDate", start.String())
	}

	var resp api.WeeklyNutritionSummary
	if err := c.do(ctx, request{method: http.MethodGet, path: "/nutrition/weekly", query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CalorieRecommendations suggests foods that fit a meal's share of the
// daily calorie goal
func (c *Client) CalorieRecommendations(ctx context.Context, mealType api.MealType) (*api.CalorieKnnRecommendation, error) {
	if mealType == "" {
		mealType = api.MealLunch
	}
	if !mealType.Valid() {
		return nil, invalid("mealType", "must be one of BREAKFAST, LUNCH, DINNER, SNACK")
	}

	var resp api.CalorieKnnRecommendation
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/nutrition/recommendations/calories",
		query:  url.Values{"mealType": {string(mealType)}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddIntake logs a food intake
func (c *Client) AddIntake(ctx context.Context, req api.AddFoodIntakeRequest) (*api.FoodIntakeResponse, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var resp api.FoodIntakeResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/nutrition/intake", body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateIntake changes the quantity, meal and notes of a logged intake
func (c *Client) UpdateIntake(ctx context.Context, id int64, req api.UpdateFoodIntakeRequest) (*api.FoodIntakeResponse, error) {
	if id <= 0 {
		return nil, invalid("id", "must be a positive number")
	}
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var resp api.FoodIntakeResponse
	if err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/nutrition/intake/%d", id), body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteIntake removes a logged intake
func (c *Client) DeleteIntake(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("id", "must be a positive number")
	}
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/nutrition/intake/%d", id)}, nil)
}
