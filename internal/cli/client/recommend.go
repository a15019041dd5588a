package client

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nutribattle/nutribattle/internal/api"
)

// Bounds of k accepted by the recommender
const (
	MinRecommendations     = 1
	MaxRecommendations     = 10
	DefaultRecommendations = 5
)

func defaultShuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }
func defaultRandom() float64                    { return rand.Float64() }

// Recommendations asks the backend for k foods similar to foodID. When the
// endpoint fails with anything but an expired session, or returns nothing,
// a random sample of the food's category is returned instead.
func (c *Client) Recommendations(ctx context.Context, foodID int64, k int, mode api.RecommendationMode) ([]api.FoodRecommendation, error) {
	if foodID <= 0 {
		return nil, invalid("foodId", "must be a positive number")
	}
	if k < MinRecommendations || k > MaxRecommendations {
		return nil, invalid("k", "must be between %d and %d", MinRecommendations, MaxRecommendations)
	}
	if mode == "" {
		mode = api.ModeMixed
	}
	if !mode.Valid() {
		return nil, invalid("mode", "must be one of %s, %s, %s", api.ModeSameCategory, api.ModeOppositeCategory, api.ModeMixed)
	}

	var recs []api.FoodRecommendation
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/recommendations/%d", foodID),
		query:  url.Values{"k": {strconv.Itoa(k)}, "mode": {string(mode)}},
	}, &recs)
	if errors.Is(err, ErrUnauthorized) {
		return nil, err
	}
	if err == nil && len(recs) > 0 {
		return recs, nil
	}

	if err != nil {
		c.logger.Warn().Err(err).Msg("Recommendation endpoint unavailable, sampling similar foods")
	} else {
		c.logger.Warn().Msg("Recommendation endpoint returned nothing, sampling similar foods")
	}
	return c.sampleSimilar(ctx, foodID, k)
}

// sampleSimilar picks up to k random foods from the target's category, or
// from the whole catalog when the category has no other foods. The scores
// are placeholders.
func (c *Client) sampleSimilar(ctx context.Context, foodID int64, k int) ([]api.FoodRecommendation, error) {
	target, err := c.GetFood(ctx, foodID)
	if err != nil {
		return nil, fmt.Errorf("food with ID %d not found: %w", foodID, err)
	}
	all, err := c.ListFoods(ctx)
	if err != nil {
		return nil, err
	}

	var others, sameCategory []api.Food
	for _, f := range all {
		if f.ID == foodID || f.Name == "" || f.Category == "" {
			continue
		}
		others = append(others, f)
		if f.Category == target.Category {
			sameCategory = append(sameCategory, f)
		}
	}

	pool, base, spread := sameCategory, 0.7, 0.2
	if len(pool) == 0 {
		pool, base, spread = others, 0.5, 0.3
	}
	c.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > k {
		pool = pool[:k]
	}

	recs := make([]api.FoodRecommendation, 0, len(pool))
	for _, f := range pool {
		reason := fmt.Sprintf("Alternative %s food", f.Type)
		if len(sameCategory) > 0 {
			reason = fmt.Sprintf("Similar %s food from %s category", f.Type, f.Category)
		}
		recs = append(recs, api.FoodRecommendation{
			Food:            f,
			SimilarityScore: base + c.random()*spread,
			Improvements:    map[string]float64{},
			Reason:          reason,
		})
	}
	return recs, nil
}
