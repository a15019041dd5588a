package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/auth"
	"github.com/nutribattle/nutribattle/internal/models"
	"github.com/nutribattle/nutribattle/internal/nutrition"
)

// @Router /api/user/profile [get]
// @Success 200 {object} api.UserProfile
func (s *Server) getProfile(c *gin.Context) {
	c.JSON(http.StatusOK, profileResponse(currentUser(c)))
}

// @Router /api/user/profile [put]
// @Param body body api.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} api.UserProfile
func (s *Server) updateProfile(c *gin.Context) {
	var req api.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := s.validator.Struct(profileRules{
		Age:    req.Age,
		Height: req.Height,
		Weight: req.Weight,
	}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	user := currentUser(c)
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Height != nil {
		user.Height = req.Height
	}
	if req.Weight != nil {
		user.Weight = req.Weight
	}
	if req.ActivityLevel != nil {
		user.ActivityLevel = *req.ActivityLevel
	}
	if req.DietaryPreference != nil {
		user.DietaryPreference = *req.DietaryPreference
	}
	user.BMI = nutrition.BMI(user.Weight, user.Height)

	if !s.saveUser(c, user) {
		return
	}
	c.JSON(http.StatusOK, profileResponse(user))
}

type profileRules struct {
	Age    *int     `validate:"omitempty,gt=0,lt=150"`
	Height *float64 `validate:"omitempty,gt=0"`
	Weight *float64 `validate:"omitempty,gt=0"`
}

// @Router /api/user/goals [get]
// @Success 200 {object} api.NutritionalGoals
func (s *Server) getGoals(c *gin.Context) {
	c.JSON(http.StatusOK, userGoals(currentUser(c)))
}

type goalsUpdate struct {
	DailyCalorieGoal *float64 `json:"dailyCalorieGoal" binding:"omitempty,gt=0"`
	DailyProteinGoal *float64 `json:"dailyProteinGoal" binding:"omitempty,gte=0"`
	DailyCarbGoal    *float64 `json:"dailyCarbGoal" binding:"omitempty,gte=0"`
	DailyFatGoal     *float64 `json:"dailyFatGoal" binding:"omitempty,gte=0"`
}

// updateGoals changes the daily targets present in the body
// @Router /api/user/goals [put]
// @Success 200 {object} api.NutritionalGoals
func (s *Server) updateGoals(c *gin.Context) {
	var req goalsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user := currentUser(c)
	if req.DailyCalorieGoal != nil {
		user.DailyCalorieGoal = req.DailyCalorieGoal
	}
	if req.DailyProteinGoal != nil {
		user.DailyProteinGoal = req.DailyProteinGoal
	}
	if req.DailyCarbGoal != nil {
		user.DailyCarbGoal = req.DailyCarbGoal
	}
	if req.DailyFatGoal != nil {
		user.DailyFatGoal = req.DailyFatGoal
	}

	if !s.saveUser(c, user) {
		return
	}
	c.JSON(http.StatusOK, userGoals(user))
}

func bodyOf(u *models.User) nutrition.Body {
	b := nutrition.Body{Gender: u.Gender, ActivityLevel: u.ActivityLevel}
	if u.Age != nil {
		b.Age = *u.Age
	}
	if u.Height != nil {
		b.Height = *u.Height
	}
	if u.Weight != nil {
		b.Weight = *u.Weight
	}
	return b
}

// calculateGoals suggests targets from the profile without saving them
// @Router /api/user/goals/calculate [get]
// @Success 200 {object} api.NutritionalGoals
func (s *Server) calculateGoals(c *gin.Context) {
	c.JSON(http.StatusOK, nutrition.CalculateGoals(bodyOf(currentUser(c))))
}

// changePassword answers in plain text
// @Router /api/user/password [put]
// @Param body body api.ChangePasswordRequest true "Current and new password"
func (s *Server) changePassword(c *gin.Context) {
	var req api.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "New password must be at least 6 characters")
		return
	}

	user := currentUser(c)
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		c.String(http.StatusBadRequest, "Current password is incorrect")
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.String(http.StatusInternalServerError, "Failed to change password")
		return
	}
	if err := s.db.Model(user).Update("password_hash", passwordHash).Error; err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to change password")
		c.String(http.StatusInternalServerError, "Failed to change password")
		return
	}

	s.logger.Info().Str("username", user.Username).Msg("Password changed")
	c.String(http.StatusOK, "Password changed successfully")
}
