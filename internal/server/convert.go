package server

import (
	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/models"
	"github.com/nutribattle/nutribattle/internal/nutrition"
)

func foodResponse(f *models.Food) api.Food {
	food := api.Food{
		ID:           f.ID,
		Name:         f.Name,
		Category:     f.Category,
		Type:         f.Type,
		Calories:     f.Calories,
		Protein:      f.Protein,
		Fat:          f.Fat,
		SaturatedFat: f.SaturatedFat,
		Carbs:        f.Carbs,
		Sugar:        f.Sugar,
		Fiber:        f.Fiber,
		Sodium:       f.Sodium,
		VitaminA:     f.VitaminA,
		VitaminC:     f.VitaminC,
		Calcium:      f.Calcium,
		Iron:         f.Iron,
		ImageURL:     f.ImageURL,
		Description:  f.Description,
	}
	food.NutriScore = nutrition.Grade(food)
	return food
}

func foodResponses(foods []models.Food) []api.Food {
	out := make([]api.Food, len(foods))
	for i := range foods {
		out[i] = foodResponse(&foods[i])
	}
	return out
}

func applyFoodInput(f *models.Food, in api.FoodInput) {
	f.Name = in.Name
	f.Category = in.Category
	f.Type = in.Type
	f.Calories = in.Calories
	f.Protein = in.Protein
	f.Fat = in.Fat
	f.SaturatedFat = in.SaturatedFat
	f.Carbs = in.Carbs
	f.Sugar = in.Sugar
	f.Fiber = in.Fiber
	f.Sodium = in.Sodium
	f.VitaminA = in.VitaminA
	f.VitaminC = in.VitaminC
	f.Calcium = in.Calcium
	f.Iron = in.Iron
	f.ImageURL = in.ImageURL
	f.Description = in.Description
}

func authResponse(u *models.User, token string) api.AuthResponse {
	return api.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        api.Role(u.Role),
	}
}

func profileResponse(u *models.User) api.UserProfile {
	p := api.UserProfile{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		FullName:          u.FullName,
		Gender:            u.Gender,
		ActivityLevel:     u.ActivityLevel,
		DietaryPreference: u.DietaryPreference,
		Role:              api.Role(u.Role),
		CreatedAt:         &u.CreatedAt,
		LastLoginAt:       u.LastLoginAt,
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Height != nil {
		p.Height = *u.Height
	}
	if u.Weight != nil {
		p.Weight = *u.Weight
	}
	p.Defaults()
	return p
}

func adminUserResponse(u *models.User) api.AdminUser {
	return api.AdminUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        api.Role(u.Role),
		Enabled:     u.Enabled,
		CreatedAt:   &u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// userGoals returns the account's daily targets with defaults for unset ones
func userGoals(u *models.User) api.NutritionalGoals {
	return api.NutritionalGoals{
		DailyCalorieGoal: valueOr(u.DailyCalorieGoal, api.DefaultCalorieGoal),
		DailyProteinGoal: valueOr(u.DailyProteinGoal, api.DefaultProteinGoal),
		DailyCarbGoal:    valueOr(u.DailyCarbGoal, api.DefaultCarbGoal),
		DailyFatGoal:     valueOr(u.DailyFatGoal, api.DefaultFatGoal),
	}
}

func setUserGoals(u *models.User, g api.NutritionalGoals) {
	u.DailyCalorieGoal = &g.DailyCalorieGoal
	u.DailyProteinGoal = &g.DailyProteinGoal
	u.DailyCarbGoal = &g.DailyCarbGoal
	u.DailyFatGoal = &g.DailyFatGoal
}

func nutritionGoalResponse(u *models.User) api.NutritionGoalResponse {
	goals := userGoals(u)
	goal, age := api.NutritionGoal(u.NutritionGoal), api.AgeGroup(u.AgeGroup)
	return api.NutritionGoalResponse{
		NutritionGoal:       goal,
		AgeGroup:            age,
		BMI:                 u.BMI,
		BMICategory:         nutrition.BMICategory(u.BMI),
		RecommendedCalories: nutrition.RecommendedCalories(goal, age),
		DailyCalorieGoal:    goals.DailyCalorieGoal,
		DailyProteinGoal:    goals.DailyProteinGoal,
		DailyCarbGoal:       goals.DailyCarbGoal,
		DailyFatGoal:        goals.DailyFatGoal,
		Weight:              u.Weight,
		Height:              u.Height,
	}
}

func intakeResponse(in *models.FoodIntake) api.FoodIntakeResponse {
	date, _ := api.ParseDate(in.IntakeDate)
	food := foodResponse(&in.Food)
	return api.FoodIntakeResponse{
		ID:           in.ID,
		FoodID:       in.FoodID,
		FoodName:     food.Name,
		FoodCategory: food.Category,
		Quantity:     in.Quantity,
		MealType:     api.MealType(in.MealType),
		IntakeDate:   date,
		Calories:     in.Calories,
		Protein:      in.Protein,
		Fat:          in.Fat,
		Carbs:        in.Carbs,
		Fiber:        in.Fiber,
		Sugar:        in.Sugar,
		Sodium:       in.Sodium,
		Notes:        in.Notes,
		NutriScore:   food.NutriScore,
	}
}
