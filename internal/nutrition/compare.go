package nutrition

import (
	"errors"
	"fmt"

	"github.com/nutribattle/nutribattle/internal/api"
)

// ErrNoFoods is returned when a comparison has nothing to compare
var ErrNoFoods = errors.New("no valid foods found for comparison")

type direction int

const (
	neutral direction = iota
	lowerIsBetter
	higherIsBetter
)

type nutrient struct {
	name   string
	unit   string
	better direction
	value  func(api.Food) float64
}

// compared lists the nutrients of a comparison in display order
var compared = []nutrient{
	{"Calories", "kcal", lowerIsBetter, func(f api.Food) float64 { return f.Calories }},
	{"Protein", "g", higherIsBetter, func(f api.Food) float64 { return f.Protein }},
	{"Total Fat", "g", lowerIsBetter, func(f api.Food) float64 { return f.Fat }},
	{"Saturated Fat", "g", lowerIsBetter, func(f api.Food) float64 { return f.SaturatedFat }},
	{"Carbohydrates", "g", neutral, func(f api.Food) float64 { return f.Carbs }},
	{"Sugar", "g", lowerIsBetter, func(f api.Food) float64 { return f.Sugar }},
	{"Fiber", "g", higherIsBetter, func(f api.Food) float64 { return f.Fiber }},
	{"Sodium", "mg", lowerIsBetter, func(f api.Food) float64 { return f.Sodium }},
}

// Compare ranks foods nutrient by nutrient and picks the healthiest by
// Nutri-Score. Foods must carry their grade.
func Compare(foods []api.Food) (*api.ComparisonResult, error) {
	if len(foods) == 0 {
		return nil, ErrNoFoods
	}

	result := &api.ComparisonResult{
		Foods:               foods,
		NutrientComparisons: make([]api.NutrientComparison, 0, len(compared)),
		Recommendations:     advise(foods),
	}
	for _, n := range compared {
		result.NutrientComparisons = append(result.NutrientComparisons, compareNutrient(n, foods))
	}

	healthiest := foods[0]
	for _, f := range foods[1:] {
		if f.NutriScore < healthiest.NutriScore {
			healthiest = f
		}
	}
	result.HealthiestFood = &healthiest

	return result, nil
}

func compareNutrient(n nutrient, foods []api.Food) api.NutrientComparison {
	values := make([]api.FoodNutrientValue, len(foods))
	lowest, highest := n.value(foods[0]), n.value(foods[0])
	for i, f := range foods {
		v := n.value(f)
		values[i] = api.FoodNutrientValue{FoodID: f.ID, FoodName: f.Name, Value: v}
		lowest = min(lowest, v)
		highest = max(highest, v)
	}

	for i := range values {
		switch n.better {
		case lowerIsBetter:
			values[i].Best = values[i].Value == lowest
			values[i].Worst = values[i].Value == highest
		case higherIsBetter:
			values[i].Best = values[i].Value == highest
			values[i].Worst = values[i].Value == lowest
		}
	}

	return api.NutrientComparison{NutrientName: n.name, Unit: n.unit, Values: values}
}

func maxBy(foods []api.Food, value func(api.Food) float64) api.Food {
	best := foods[0]
	for _, f := range foods[1:] {
		if value(f) > value(best) {
			best = f
		}
	}
	return best
}

func advise(foods []api.Food) []string {
	advice := []string{}

	if f := maxBy(foods, func(f api.Food) float64 { return f.Sugar }); f.Sugar > 15 {
		advice = append(advice, fmt.Sprintf("%s has high sugar content (%.1fg). Consider limiting portion size.", f.Name, f.Sugar))
	}
	if f := maxBy(foods, func(f api.Food) float64 { return f.Sodium }); f.Sodium > 600 {
		advice = append(advice, fmt.Sprintf("%s has high sodium content (%.0fmg). This may not be suitable for those watching salt intake.", f.Name, f.Sodium))
	}
	if f := maxBy(foods, func(f api.Food) float64 { return f.Fiber }); f.Fiber > 3 {
		advice = append(advice, fmt.Sprintf("%s is a good source of fiber (%.1fg), which aids digestion.", f.Name, f.Fiber))
	}

	var bestTraditional *api.Food
	hasModern := false
	for i, f := range foods {
		switch f.Type {
		case api.FoodTypeTraditional:
			if bestTraditional == nil || f.NutriScore < bestTraditional.NutriScore {
				bestTraditional = &foods[i]
			}
		case api.FoodTypeModern:
			hasModern = true
		}
	}
	if hasModern && bestTraditional != nil && bestTraditional.NutriScore <= "C" {
		advice = append(advice, fmt.Sprintf("Traditional food option '%s' has good nutritional value with Nutri-Score %s.",
			bestTraditional.Name, bestTraditional.NutriScore))
	}

	return advice
}
