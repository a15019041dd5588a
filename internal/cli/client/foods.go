package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nutribattle/nutribattle/internal/api"
)

// homepageFallbackSize is how many catalog foods stand in for the homepage
// selection when that endpoint is unavailable
const homepageFallbackSize = 8

// ListFoods returns the whole catalog
func (c *Client) ListFoods(ctx context.Context) ([]api.Food, error) {
	var foods []api.Food
	if err := c.do(ctx, request{method: http.MethodGet, path: "/foods"}, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// GetFood returns a single catalog entry
func (c *Client) GetFood(ctx context.Context, id int64) (*api.Food, error) {
	if id <= 0 {
		return nil, invalid("id", "must be a positive number")
	}

	var food api.Food
	if err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/foods/%d", id)}, &food); err != nil {
		return nil, err
	}
	return &food, nil
}

// HomepageFoods returns the featured selection, falling back to the start of
// the catalog when the endpoint fails
func (c *Client) HomepageFoods(ctx context.Context) ([]api.Food, error) {
	var foods []api.Food
	err := c.do(ctx, request{method: http.MethodGet, path: "/foods/homepage"}, &foods)
	if err == nil {
		return foods, nil
	}
	if errors.Is(err, ErrUnauthorized) {
		return nil, err
	}

	c.logger.Warn().Err(err).Msg("Homepage foods unavailable, showing the first catalog entries")
	all, listErr := c.ListFoods(ctx)
	if listErr != nil {
		return nil, listErr
	}
	if len(all) > homepageFallbackSize {
		all = all[:homepageFallbackSize]
	}
	return all, nil
}

// SearchFoods finds foods whose name contains name
func (c *Client) SearchFoods(ctx context.Context, name string) ([]api.Food, error) {
	if name == "" {
		return nil, invalid("name", "is required")
	}

	var foods []api.Food
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/foods/search",
		query:  url.Values{"name": {name}},
	}, &foods)
	if err != nil {
		return nil, err
	}
	return foods, nil
}

// Categories lists the distinct food categories
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, request{method: http.MethodGet, path: "/foods/categories"}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// FoodsByType lists Traditional or Modern foods
func (c *Client) FoodsByType(ctx context.Context, foodType string) ([]api.Food, error) {
	if foodType != api.FoodTypeTraditional && foodType != api.FoodTypeModern {
		return nil, invalid("type", "must be one of %s, %s", api.FoodTypeTraditional, api.FoodTypeModern)
	}

	var foods []api.Food
	if err := c.do(ctx, request{method: http.MethodGet, path: "/foods/type/" + url.PathEscape(foodType)}, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}
