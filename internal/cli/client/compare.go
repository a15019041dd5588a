package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nutribattle/nutribattle/internal/api"
)

// MaxCompareFoods is the most foods one comparison accepts
const MaxCompareFoods = 3

// CompareFoods compares one to three foods. When the comparison endpoint
// fails for any reason but an expired session, the foods are fetched
// individually and compared locally.
func (c *Client) CompareFoods(ctx context.Context, ids []int64) (*api.ComparisonResult, error) {
	if len(ids) == 0 || len(ids) > MaxCompareFoods {
		return nil, invalid("foodIds", "must list between 1 and %d foods", MaxCompareFoods)
	}
	for _, id := range ids {
		if id <= 0 {
			return nil, invalid("foodIds", "must be positive numbers")
		}
	}

	var result api.ComparisonResult
	err := c.do(ctx, request{method: http.MethodPost, path: "/compare", body: api.CompareRequest{FoodIDs: ids}}, &result)
	if err == nil {
		return &result, nil
	}
	if errors.Is(err, ErrUnauthorized) {
		return nil, err
	}

	c.logger.Warn().Err(err).Msg("Comparison endpoint unavailable, comparing locally")
	return c.compareLocally(ctx, ids)
}

func (c *Client) compareLocally(ctx context.Context, ids []int64) (*api.ComparisonResult, error) {
	foods := make([]api.Food, 0, len(ids))
	for _, id := range ids {
		food, err := c.GetFood(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch food %d: %w", id, err)
		}
		foods = append(foods, *food)
	}

	result := &api.ComparisonResult{Foods: foods}
	result.Defaults()

	healthiest := foods[0]
	for _, f := range foods[1:] {
		// Nutri-Score grades sort A (best) to E
		if f.NutriScore != "" && healthiest.NutriScore != "" && f.NutriScore < healthiest.NutriScore {
			healthiest = f
		}
	}
	result.HealthiestFood = &healthiest

	highestProtein, highestCalorie := foods[0], foods[0]
	for _, f := range foods[1:] {
		if f.Protein > highestProtein.Protein {
			highestProtein = f
		}
		if f.Calories > highestCalorie.Calories {
			highestCalorie = f
		}
	}
	result.Recommendations = []string{
		fmt.Sprintf("%s has the highest protein content (%gg).", highestProtein.Name, highestProtein.Protein),
		fmt.Sprintf("%s has the highest calorie content (%gkcal).", highestCalorie.Name, highestCalorie.Calories),
	}
	return result, nil
}
