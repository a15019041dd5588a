package nutrition

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/nutribattle/nutribattle/internal/api"
)

// vector places a food in the normalized nutrient space used for
// similarity. Each axis is scaled by a realistic per-100g maximum.
func vector(f api.Food) [8]float64 {
	return [8]float64{
		f.Calories / 1000,
		f.Protein / 50,
		f.Fat / 100,
		f.SaturatedFat / 50,
		f.Carbs / 100,
		f.Sugar / 100,
		f.Fiber / 50,
		f.Sodium / 3000,
	}
}

// Distance is the Euclidean distance between two foods' nutrient vectors
func Distance(a, b api.Food) float64 {
	va, vb := vector(a), vector(b)
	var sum float64
	for i := range va {
		d := va[i] - vb[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Similar returns the k candidates nearest to target, nearest first. The
// target itself is never returned. Mode restricts candidates to the
// target's category, to the opposite food type, or not at all.
func Similar(target api.Food, candidates []api.Food, k int, mode api.RecommendationMode) []api.FoodRecommendation {
	type scored struct {
		food     api.Food
		distance float64
	}

	pool := make([]scored, 0, len(candidates))
	for _, f := range candidates {
		if f.ID == target.ID || !eligible(target, f, mode) {
			continue
		}
		pool = append(pool, scored{food: f, distance: Distance(target, f)})
	}
	slices.SortStableFunc(pool, func(a, b scored) int { return cmp.Compare(a.distance, b.distance) })

	recs := make([]api.FoodRecommendation, 0, min(k, len(pool)))
	for _, s := range pool[:min(k, len(pool))] {
		improvements := Improvements(target, s.food)
		recs = append(recs, api.FoodRecommendation{
			Food:            s.food,
			SimilarityScore: 1 / (1 + s.distance),
			Improvements:    improvements,
			Reason:          reason(target, s.food, improvements, mode),
		})
	}
	return recs
}

func eligible(target, f api.Food, mode api.RecommendationMode) bool {
	switch mode {
	case api.ModeSameCategory:
		return f.Category == target.Category
	case api.ModeOppositeCategory:
		opposite := api.FoodTypeTraditional
		if target.Type == api.FoodTypeTraditional {
			opposite = api.FoodTypeModern
		}
		return f.Type == opposite
	default:
		return true
	}
}

// Improvements reports, in percent of the target's value, how much less of
// each limited nutrient and how much more of each beneficial nutrient the
// alternative has. Nutrients where the alternative is no better are absent.
func Improvements(target, alt api.Food) map[string]float64 {
	improvements := map[string]float64{}
	less := func(key string, t, a float64) {
		if t > 0 && a < t {
			improvements[key] = (t - a) / t * 100
		}
	}
	more := func(key string, t, a float64) {
		if t > 0 && a > t {
			improvements[key] = (a - t) / t * 100
		}
	}

	less("calories", target.Calories, alt.Calories)
	less("sugar", target.Sugar, alt.Sugar)
	less("saturatedFat", target.SaturatedFat, alt.SaturatedFat)
	less("sodium", target.Sodium, alt.Sodium)
	more("protein", target.Protein, alt.Protein)
	more("fiber", target.Fiber, alt.Fiber)

	return improvements
}

var improvementPhrases = map[string]string{
	"calories":     "%.0f%% fewer calories",
	"sugar":        "%.0f%% less sugar",
	"saturatedFat": "%.0f%% less saturated fat",
	"sodium":       "%.0f%% less sodium",
	"protein":      "%.0f%% more protein",
	"fiber":        "%.0f%% more fiber",
}

func reason(target, alt api.Food, improvements map[string]float64, mode api.RecommendationMode) string {
	var parts []string

	switch mode {
	case api.ModeSameCategory:
		parts = append(parts, fmt.Sprintf("Similar food from same category (%s).", alt.Category))
	case api.ModeOppositeCategory:
		parts = append(parts, fmt.Sprintf("Alternative from %s foods.", alt.Type))
	}

	if alt.NutriScore != "" && target.NutriScore != "" {
		comparison := "different"
		switch {
		case alt.NutriScore < target.NutriScore:
			comparison = "better"
		case alt.NutriScore == target.NutriScore:
			comparison = "same"
		}
		parts = append(parts, fmt.Sprintf("Has %s Nutri-Score (%s vs %s).", comparison, alt.NutriScore, target.NutriScore))
	}

	// Two largest differences of at least 10%
	keys := make([]string, 0, len(improvements))
	for key, v := range improvements {
		if v > 10 {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(improvements[b], improvements[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	var phrases []string
	for _, key := range keys[:min(2, len(keys))] {
		phrases = append(phrases, fmt.Sprintf(improvementPhrases[key], improvements[key]))
	}
	if len(phrases) > 0 {
		parts = append(parts, "Contains "+strings.Join(phrases, " and ")+".")
	}

	return strings.Join(parts, " ")
}

// mealShare is the part of the daily calorie budget each meal gets
var mealShare = map[api.MealType]float64{
	api.MealBreakfast: 0.25,
	api.MealLunch:     0.35,
	api.MealDinner:    0.30,
	api.MealSnack:     0.10,
}

// MealCalories splits a daily calorie budget by meal
func MealCalories(daily float64, meal api.MealType) float64 {
	share, ok := mealShare[meal]
	if !ok {
		share = mealShare[api.MealBreakfast]
	}
	return daily * share
}

// CalorieMatches scores every food against a meal's calorie target and
// returns the best limit matches. A match suggests the portion that meets
// the target and favors protein and fiber over sugar.
func CalorieMatches(foods []api.Food, target float64, limit int) []api.FoodMatch {
	matches := make([]api.FoodMatch, 0, len(foods))
	for _, f := range foods {
		if f.Calories <= 0 || target <= 0 {
			continue
		}

		quantity := math.Round(target/f.Calories*100*10) / 10
		actual := quantity / 100 * f.Calories
		difference := math.Abs(actual - target)

		calorieScore := math.Max(0, 100-difference/target*100)
		proteinScore := math.Min(30, f.Protein*2)
		fiberScore := math.Min(20, f.Fiber*4)
		sugarPenalty := math.Min(20, f.Sugar)
		score := calorieScore*0.5 + proteinScore + fiberScore - sugarPenalty

		matches = append(matches, api.FoodMatch{
			Food:               f,
			MatchScore:         math.Max(0, math.Min(100, score)),
			CaloriesDifference: difference,
			Quantity:           quantity,
			Reason:             matchReason(f, quantity, actual),
		})
	}

	slices.SortStableFunc(matches, func(a, b api.FoodMatch) int { return cmp.Compare(b.MatchScore, a.MatchScore) })
	return matches[:min(limit, len(matches))]
}

func matchReason(f api.Food, quantity, calories float64) string {
	reason := fmt.Sprintf("%.0fg provides %.0f calories", quantity, calories)
	if f.Protein > 10 {
		reason += ", high in protein"
	}
	if f.Fiber > 5 {
		reason += ", good fiber content"
	}
	if f.Sugar < 5 {
		reason += ", low sugar"
	}
	return reason
}

// CalorieReason explains a calorie recommendation in terms of the user's
// goal profile
func CalorieReason(goal api.NutritionGoal, age api.AgeGroup, meal api.MealType) string {
	objective := "maintenance goal"
	switch goal {
	case api.GoalWeightGain:
		objective = "weight gain goal"
	case api.GoalWeightLoss:
		objective = "weight loss goal"
	}
	group := strings.ReplaceAll(strings.ToLower(string(age)), "_", " ")
	return fmt.Sprintf("Based on your %s and %s age group, these foods match your %s calorie target.",
		objective, group, strings.ToLower(string(meal)))
}
