// Package nutrition holds the catalog and tracking calculations served by
// the dev backend: Nutri-Score grading, food comparison, similarity and
// calorie based recommendations, daily and weekly summaries and goal
// formulas. Nutrient values are per 100g unless stated otherwise.
package nutrition

import (
	"strings"

	"github.com/nutribattle/nutribattle/internal/api"
)

const kcalToKJ = 4.184

// Upper bounds of each point band. A value scores one point for every
// bound it exceeds.
var (
	energyBands       = []float64{335, 670, 1005, 1340, 1675, 2010, 2345, 2680, 3015, 3350} // kJ
	sugarBands        = []float64{4.5, 9, 13.5, 18, 22.5, 27, 31, 36, 40, 45}
	saturatedFatBands = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	sodiumBands       = []float64{90, 180, 270, 360, 450, 540, 630, 720, 810, 900} // mg
	fiberBands        = []float64{0.9, 1.9, 2.8, 3.7, 4.7}
	proteinBands      = []float64{1.6, 3.2, 4.8, 6.4, 8.0}
)

func bandPoints(value float64, bands []float64) int {
	points := 0
	for _, bound := range bands {
		if value > bound {
			points++
		}
	}
	return points
}

// Score returns the Nutri-Score points of a food, negative points minus
// positive points. Lower is healthier.
func Score(f api.Food) int {
	negative := bandPoints(f.Calories*kcalToKJ, energyBands) +
		bandPoints(f.Sugar, sugarBands) +
		bandPoints(f.SaturatedFat, saturatedFatBands) +
		bandPoints(f.Sodium, sodiumBands)

	fruitVeg := fruitVegPoints(f)
	positive := bandPoints(f.Fiber, fiberBands) + fruitVeg
	// Protein only counts for foods that are not already unhealthy
	if negative < 11 || fruitVeg >= 5 {
		positive += bandPoints(f.Protein, proteinBands)
	}

	return negative - positive
}

// Grade maps a food to its Nutri-Score letter, A (best) to E
func Grade(f api.Food) string {
	switch score := Score(f); {
	case score <= -1:
		return "A"
	case score <= 2:
		return "B"
	case score <= 10:
		return "C"
	case score <= 18:
		return "D"
	default:
		return "E"
	}
}

// GradeDescription describes a Nutri-Score letter
func GradeDescription(grade string) string {
	switch grade {
	case "A":
		return "Excellent nutritional quality"
	case "B":
		return "Good nutritional quality"
	case "C":
		return "Average nutritional quality"
	case "D":
		return "Poor nutritional quality"
	case "E":
		return "Very poor nutritional quality"
	default:
		return "Unknown nutritional quality"
	}
}

// fruitVegPoints estimates fruit, vegetable and nut content from the
// category and name since the catalog does not record it
func fruitVegPoints(f api.Food) int {
	category := strings.ToLower(f.Category)
	name := strings.ToLower(f.Name)

	switch {
	case containsAny(category, "fruit", "vegetable"):
		return 5
	case containsAny(category, "nut", "seed"), containsAny(name, "almond", "cashew", "walnut", "pista"):
		return 5
	case containsAny(category, "legume", "lentil"), containsAny(name, "dal", "bean"):
		return 3
	case containsAny(category, "soup", "curry") && containsAny(name, "vegetable", "saag", "tarkari"):
		return 2
	case strings.Contains(category, "pickle") && f.Type == api.FoodTypeTraditional:
		return 2
	default:
		return 0
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
