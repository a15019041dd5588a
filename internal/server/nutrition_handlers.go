package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/models"
	"github.com/nutribattle/nutribattle/internal/nutrition"
)

const calorieMatchLimit = 5

// @Router /api/nutrition/goals [get]
// @Success 200 {object} api.NutritionGoalResponse
func (s *Server) getNutritionGoals(c *gin.Context) {
	c.JSON(http.StatusOK, nutritionGoalResponse(currentUser(c)))
}

// setNutritionGoals stores the goal profile and resets the daily targets
// to the profile's recommended calories
// @Router /api/nutrition/goals [post]
// @Param body body api.NutritionGoalRequest true "Goal profile"
func (s *Server) setNutritionGoals(c *gin.Context) {
	var req api.NutritionGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user := currentUser(c)
	user.NutritionGoal = string(req.NutritionGoal)
	user.AgeGroup = string(req.AgeGroup)
	if req.Weight != nil {
		user.Weight = req.Weight
	}
	if req.Height != nil {
		user.Height = req.Height
	}
	user.BMI = nutrition.BMI(user.Weight, user.Height)
	setUserGoals(user, nutrition.GoalMacros(nutrition.RecommendedCalories(req.NutritionGoal, req.AgeGroup)))

	if !s.saveUser(c, user) {
		return
	}
	c.JSON(http.StatusOK, nutritionGoalResponse(user))
}

func (s *Server) saveUser(c *gin.Context, user *models.User) bool {
	if err := s.db.Save(user).Error; err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to save user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
		return false
	}
	return true
}

// dateQuery reads an optional YYYY-MM-DD query parameter
func dateQuery(c *gin.Context, name string, fallback api.Date) (api.Date, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	date, err := api.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ", expected YYYY-MM-DD"})
		return api.Date{}, false
	}
	return date, true
}

// intakesBetween loads the user's intakes dated from first to last inclusive
func (s *Server) intakesBetween(c *gin.Context, userID int64, first, last api.Date) ([]api.FoodIntakeResponse, bool) {
	var intakes []models.FoodIntake
	err := s.db.Preload("Food").
		Where("user_id = ? AND intake_date BETWEEN ? AND ?", userID, first.String(), last.String()).
		Order("intake_date, id").
		Find(&intakes).Error
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load intakes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load food intakes"})
		return nil, false
	}

	out := make([]api.FoodIntakeResponse, len(intakes))
	for i := range intakes {
		out[i] = intakeResponse(&intakes[i])
	}
	return out, true
}

// @Router /api/nutrition/daily [get]
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} api.DailyNutritionSummary
func (s *Server) dailySummary(c *gin.Context) {
	date, ok := dateQuery(c, "date", api.NewDate(s.now()))
	if !ok {
		return
	}

	user := currentUser(c)
	intakes, ok := s.intakesBetween(c, user.ID, date, date)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, nutrition.Daily(date, userGoals(user), intakes))
}

// @Router /api/nutrition/weekly [get]
// @Param startDate query string false "YYYY-MM-DD, defaults to this week's Monday"
// @Success 200 {object} api.WeeklyNutritionSummary
func (s *Server) weeklySummary(c *gin.Context) {
	start, ok := dateQuery(c, "startDate", nutrition.WeekStart(s.now()))
	if !ok {
		return
	}

	user := currentUser(c)
	end := api.Date{Time: start.AddDate(0, 0, 6)}
	intakes, ok := s.intakesBetween(c, user.ID, start, end)
	if !ok {
		return
	}

	byDate := make(map[string][]api.FoodIntakeResponse)
	for _, in := range intakes {
		key := in.IntakeDate.String()
		byDate[key] = append(byDate[key], in)
	}

	goals := userGoals(user)
	days := make([]api.DailyNutritionSummary, 0, 7)
	for i := range 7 {
		day := api.Date{Time: start.AddDate(0, 0, i)}
		days = append(days, nutrition.Daily(day, goals, byDate[day.String()]))
	}
	c.JSON(http.StatusOK, nutrition.Weekly(start, days, goals))
}

// calorieRecommendations suggests portions of foods that fill one meal's
// share of the goal profile's recommended calories
// @Router /api/nutrition/recommendations/calories [get]
// @Param mealType query string false "BREAKFAST, LUNCH, DINNER or SNACK, defaults to LUNCH"
func (s *Server) calorieRecommendations(c *gin.Context) {
	meal := api.MealLunch
	if raw := c.Query("mealType"); raw != "" {
		meal = api.MealType(strings.ToUpper(raw))
		if !meal.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mealType"})
			return
		}
	}

	foods, ok := s.loadFoods(c, s.db)
	if !ok {
		return
	}

	user := currentUser(c)
	goal, age := api.NutritionGoal(user.NutritionGoal), api.AgeGroup(user.AgeGroup)
	target := nutrition.MealCalories(nutrition.RecommendedCalories(goal, age), meal)

	c.JSON(http.StatusOK, api.CalorieKnnRecommendation{
		TargetCalories:       target,
		RecommendedFoods:     nutrition.CalorieMatches(foods, target, calorieMatchLimit),
		RecommendationReason: nutrition.CalorieReason(goal, age, meal),
	})
}

// applyScaled copies the nutrients of quantity grams of food onto an intake
func applyScaled(in *models.FoodIntake, food *models.Food, quantity float64) {
	scaled := nutrition.Scale(foodResponse(food), quantity)
	in.Quantity = quantity
	in.Calories = scaled.Calories
	in.Protein = scaled.Protein
	in.Fat = scaled.Fat
	in.Carbs = scaled.Carbs
	in.Fiber = scaled.Fiber
	in.Sugar = scaled.Sugar
	in.Sodium = scaled.Sodium
}

// @Router /api/nutrition/intake [post]
// @Param body body api.AddFoodIntakeRequest true "Food, grams and meal"
// @Success 200 {object} api.FoodIntakeResponse
func (s *Server) addIntake(c *gin.Context) {
	var req api.AddFoodIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	food, ok := s.findFood(c, req.FoodID)
	if !ok {
		return
	}

	date := api.NewDate(s.now())
	if req.IntakeDate != nil && !req.IntakeDate.IsZero() {
		date = *req.IntakeDate
	}

	intake := models.FoodIntake{
		UserID:     currentUser(c).ID,
		FoodID:     food.ID,
		IntakeDate: date.String(),
		MealType:   string(req.MealType),
		Notes:      req.Notes,
	}
	applyScaled(&intake, food, req.Quantity)

	if err := s.db.Omit(clause.Associations).Create(&intake).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create food intake")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log food intake"})
		return
	}
	intake.Food = *food

	c.JSON(http.StatusOK, intakeResponse(&intake))
}

// ownIntake loads an intake of the current user. Intakes of other users
// are reported as missing.
func (s *Server) ownIntake(c *gin.Context) (*models.FoodIntake, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}

	var intake models.FoodIntake
	err := s.db.Preload("Food").Where("id = ? AND user_id = ?", id, currentUser(c).ID).First(&intake).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Food intake not found"})
			return nil, false
		}
		s.logger.Error().Err(err).Int64("intake_id", id).Msg("Failed to load food intake")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	return &intake, true
}

// updateIntake changes the quantity, meal and notes of an intake and
// rescales its nutrients. The logged food never changes.
// @Router /api/nutrition/intake/{id} [put]
func (s *Server) updateIntake(c *gin.Context) {
	intake, ok := s.ownIntake(c)
	if !ok {
		return
	}

	var req api.UpdateFoodIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.FoodID != nil && *req.FoodID != intake.FoodID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The food of a logged intake cannot be changed"})
		return
	}
	if req.IntakeDate != nil && req.IntakeDate.String() != intake.IntakeDate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The date of a logged intake cannot be changed"})
		return
	}

	intake.MealType = string(req.MealType)
	intake.Notes = req.Notes
	applyScaled(intake, &intake.Food, req.Quantity)

	if err := s.db.Omit(clause.Associations).Save(intake).Error; err != nil {
		s.logger.Error().Err(err).Int64("intake_id", intake.ID).Msg("Failed to update food intake")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update food intake"})
		return
	}

	c.JSON(http.StatusOK, intakeResponse(intake))
}

// @Router /api/nutrition/intake/{id} [delete]
// @Success 204
func (s *Server) deleteIntake(c *gin.Context) {
	intake, ok := s.ownIntake(c)
	if !ok {
		return
	}

	if err := s.db.Delete(&models.FoodIntake{}, intake.ID).Error; err != nil {
		s.logger.Error().Err(err).Int64("intake_id", intake.ID).Msg("Failed to delete food intake")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete food intake"})
		return
	}

	c.Status(http.StatusNoContent)
}
