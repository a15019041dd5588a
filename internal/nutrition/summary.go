package nutrition

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/nutribattle/nutribattle/internal/api"
)

// Scale returns an intake's nutrients for quantity grams of f
func Scale(f api.Food, quantity float64) api.FoodIntakeResponse {
	factor := quantity / 100
	return api.FoodIntakeResponse{
		FoodID:       f.ID,
		FoodName:     f.Name,
		FoodCategory: f.Category,
		Quantity:     quantity,
		Calories:     f.Calories * factor,
		Protein:      f.Protein * factor,
		Fat:          f.Fat * factor,
		Carbs:        f.Carbs * factor,
		Fiber:        f.Fiber * factor,
		Sugar:        f.Sugar * factor,
		Sodium:       f.Sodium * factor,
		NutriScore:   f.NutriScore,
	}
}

func percentage(actual, goal float64) float64 {
	if goal == 0 {
		return 0
	}
	return actual / goal * 100
}

// Daily totals one day's intakes against the user's goals. Meals appear
// in breakfast, lunch, dinner, snack order and only when eaten.
func Daily(date api.Date, goals api.NutritionalGoals, intakes []api.FoodIntakeResponse) api.DailyNutritionSummary {
	s := api.DailyNutritionSummary{
		Date:          date,
		CalorieGoal:   goals.DailyCalorieGoal,
		ProteinGoal:   goals.DailyProteinGoal,
		FatGoal:       goals.DailyFatGoal,
		CarbGoal:      goals.DailyCarbGoal,
		MealBreakdown: []api.MealSummary{},
		FoodItems:     intakes,
	}
	if s.FoodItems == nil {
		s.FoodItems = []api.FoodIntakeResponse{}
	}

	meals := map[api.MealType]*api.MealSummary{}
	for _, in := range intakes {
		s.TotalCalories += in.Calories
		s.TotalProtein += in.Protein
		s.TotalFat += in.Fat
		s.TotalCarbs += in.Carbs
		s.TotalFiber += in.Fiber
		s.TotalSugar += in.Sugar
		s.TotalSodium += in.Sodium

		m, ok := meals[in.MealType]
		if !ok {
			m = &api.MealSummary{MealType: in.MealType}
			meals[in.MealType] = m
		}
		m.Calories += in.Calories
		m.Protein += in.Protein
		m.Fat += in.Fat
		m.Carbs += in.Carbs
	}
	for _, meal := range api.MealTypes {
		if m, ok := meals[meal]; ok {
			s.MealBreakdown = append(s.MealBreakdown, *m)
		}
	}

	s.CaloriePercentage = percentage(s.TotalCalories, goals.DailyCalorieGoal)
	s.ProteinPercentage = percentage(s.TotalProtein, goals.DailyProteinGoal)
	s.FatPercentage = percentage(s.TotalFat, goals.DailyFatGoal)
	s.CarbPercentage = percentage(s.TotalCarbs, goals.DailyCarbGoal)

	return s
}

// WeekStart returns the Monday of t's week
func WeekStart(t time.Time) api.Date {
	d := api.NewDate(t)
	offset := (int(d.Weekday()) + 6) % 7
	return api.Date{Time: d.AddDate(0, 0, -offset)}
}

const mostConsumedLimit = 5

// Weekly aggregates seven daily summaries starting at start. Averages are
// over all seven days, eaten or not.
func Weekly(start api.Date, days []api.DailyNutritionSummary, goals api.NutritionalGoals) api.WeeklyNutritionSummary {
	w := api.WeeklyNutritionSummary{
		StartDate:         start,
		EndDate:           api.Date{Time: start.AddDate(0, 0, 6)},
		DailySummaries:    days,
		MostConsumedFoods: map[string]int{},
	}

	counts := map[string]int{}
	for _, day := range days {
		w.AverageCalories += day.TotalCalories / 7
		w.AverageProtein += day.TotalProtein / 7
		w.AverageFat += day.TotalFat / 7
		w.AverageCarbs += day.TotalCarbs / 7
		for _, item := range day.FoodItems {
			counts[item.FoodName]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	for _, name := range names[:min(mostConsumedLimit, len(names))] {
		w.MostConsumedFoods[name] = counts[name]
	}

	w.Recommendations = weeklyAdvice(w, goals, names, counts)
	return w
}

func weeklyAdvice(w api.WeeklyNutritionSummary, goals api.NutritionalGoals, ranked []string, counts map[string]int) []string {
	advice := []string{}

	switch {
	case w.AverageCalories < goals.DailyCalorieGoal*0.8:
		advice = append(advice, "Your average calorie intake is below target. Consider adding healthy snacks.")
	case w.AverageCalories > goals.DailyCalorieGoal*1.2:
		advice = append(advice, "Your average calorie intake exceeds your goal. Try reducing portion sizes.")
	}
	if w.AverageProtein < goals.DailyProteinGoal*0.8 {
		advice = append(advice, "You're not meeting your protein goals. Add more lean meats, legumes, or dairy.")
	}
	if len(ranked) > 0 && counts[ranked[0]] > 10 {
		advice = append(advice, fmt.Sprintf("You've consumed %s %d times this week. Try to diversify your diet.", ranked[0], counts[ranked[0]]))
	}

	return advice
}
