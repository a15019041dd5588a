package nutrition

import (
	"math"
	"strings"

	"github.com/nutribattle/nutribattle/internal/api"
)

// BMI computes the body mass index from kg and cm. It is absent unless
// both are known.
func BMI(weight, height *float64) *float64 {
	if weight == nil || height == nil || *height <= 0 {
		return nil
	}
	m := *height / 100
	bmi := *weight / (m * m)
	return &bmi
}

// BMICategory names the WHO band of a BMI
func BMICategory(bmi *float64) string {
	switch {
	case bmi == nil:
		return "Unknown"
	case *bmi < 18.5:
		return "Underweight"
	case *bmi < 25:
		return "Normal"
	case *bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// recommendedCalories is indexed by age group then goal
var recommendedCalories = map[api.AgeGroup]map[api.NutritionGoal]float64{
	api.AgeChild:     {api.GoalWeightGain: 2000, api.GoalWeightLoss: 1400, api.GoalMaintain: 1700},
	api.AgeMiddleAge: {api.GoalWeightGain: 2800, api.GoalWeightLoss: 1800, api.GoalMaintain: 2300},
	api.AgeOldAge:    {api.GoalWeightGain: 2400, api.GoalWeightLoss: 1600, api.GoalMaintain: 2000},
}

// RecommendedCalories returns the daily calories for a goal profile
func RecommendedCalories(goal api.NutritionGoal, age api.AgeGroup) float64 {
	if kcal, ok := recommendedCalories[age][goal]; ok {
		return kcal
	}
	return api.DefaultCalorieGoal
}

// GoalMacros splits a goal profile's calories 20% protein, 50% carbs and
// 30% fat
func GoalMacros(calories float64) api.NutritionalGoals {
	return api.NutritionalGoals{
		DailyCalorieGoal: calories,
		DailyProteinGoal: calories * 0.20 / 4,
		DailyCarbGoal:    calories * 0.50 / 4,
		DailyFatGoal:     calories * 0.30 / 9,
	}
}

// Body is what the profile knows about a user's body. Zero values fall
// back to a 25 year old, 170cm, 70kg male.
type Body struct {
	Age           int
	Gender        string
	Height        float64 // cm
	Weight        float64 // kg
	ActivityLevel string
}

var activityMultipliers = map[string]float64{
	"SEDENTARY":   1.2,
	"LIGHT":       1.375,
	"MODERATE":    1.55,
	"ACTIVE":      1.725,
	"VERY_ACTIVE": 1.9,
}

// BMR is the basal metabolic rate by the Mifflin-St Jeor equation
func BMR(b Body) float64 {
	weight, height, age := b.Weight, b.Height, float64(b.Age)
	if weight <= 0 {
		weight = 70
	}
	if height <= 0 {
		height = 170
	}
	if age <= 0 {
		age = 25
	}

	bmr := 10*weight + 6.25*height - 5*age
	if b.Gender == "" || strings.EqualFold(b.Gender, "male") {
		return bmr + 5
	}
	return bmr - 161
}

// CalculateGoals derives daily targets from the body profile: maintenance
// calories split 25% protein, 45% carbs and 30% fat, rounded to whole units
func CalculateGoals(b Body) api.NutritionalGoals {
	multiplier, ok := activityMultipliers[strings.ToUpper(b.ActivityLevel)]
	if !ok {
		multiplier = 1.5
	}
	calories := BMR(b) * multiplier

	return api.NutritionalGoals{
		DailyCalorieGoal: math.Round(calories),
		DailyProteinGoal: math.Round(calories * 0.25 / 4),
		DailyCarbGoal:    math.Round(calories * 0.45 / 4),
		DailyFatGoal:     math.Round(calories * 0.30 / 9),
	}
}
