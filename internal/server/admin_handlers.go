package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return n, true
}

// listUsers pages through accounts, newest first
// @Router /api/admin/users [get]
// @Param page query int false "Zero-based page"
// @Param size query int false "Page size"
// @Success 200 {object} api.UserPage
func (s *Server) listUsers(c *gin.Context) {
	page, ok := queryInt(c, "page", 0)
	if !ok {
		return
	}
	size, ok := queryInt(c, "size", defaultPageSize)
	if !ok {
		return
	}
	size = min(max(size, 1), maxPageSize)

	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	// Pages past the end are empty, which also keeps page*size in range
	var users []models.User
	if page < totalPages {
		if err := s.db.Order("created_at DESC, id DESC").Offset(page * size).Limit(size).Find(&users).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to list users")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
			return
		}
	}

	result := api.UserPage{
		Content:       make([]api.AdminUser, len(users)),
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        page,
		Size:          size,
	}
	for i := range users {
		result.Content[i] = adminUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) findUser(c *gin.Context) (*models.User, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}

	var user models.User
	if err := models.FindByID(s.db, id, &user); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, api.APIMessage{Success: false, Message: "User not found"})
			return nil, false
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("Failed to load user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	return &user, true
}

// @Router /api/admin/users/{id}/toggle-status [put]
// @Success 200 {object} api.APIMessage
func (s *Server) toggleUserStatus(c *gin.Context) {
	user, ok := s.findUser(c)
	if !ok {
		return
	}
	if user.ID == currentUser(c).ID {
		c.JSON(http.StatusBadRequest, api.APIMessage{Success: false, Message: "You cannot disable your own account"})
		return
	}

	user.Enabled = !user.Enabled
	if err := s.db.Model(user).Update("enabled", user.Enabled).Error; err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to toggle user status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	message := "User disabled successfully"
	if user.Enabled {
		message = "User enabled successfully"
	}
	s.logger.Info().Str("username", user.Username).Bool("enabled", user.Enabled).Msg("User status changed")
	c.JSON(http.StatusOK, api.APIMessage{Success: true, Message: message})
}

// @Router /api/admin/users/{id}/make-admin [put]
// @Success 200 {object} api.APIMessage
func (s *Server) makeAdmin(c *gin.Context) {
	user, ok := s.findUser(c)
	if !ok {
		return
	}

	if err := s.db.Model(user).Update("role", models.RoleAdmin).Error; err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to promote user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	s.logger.Info().Str("username", user.Username).Msg("User promoted to admin")
	c.JSON(http.StatusOK, api.APIMessage{Success: true, Message: "User promoted to admin successfully"})
}

func (s *Server) bindFood(c *gin.Context) (api.FoodInput, bool) {
	var req api.FoodInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return req, false
	}
	return req, true
}

// @Router /api/admin/foods [post]
// @Param body body api.FoodInput true "Food"
// @Success 200 {object} api.Food
func (s *Server) createFood(c *gin.Context) {
	req, ok := s.bindFood(c)
	if !ok {
		return
	}

	var food models.Food
	applyFoodInput(&food, req)
	if err := s.db.Create(&food).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create food")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create food"})
		return
	}

	s.logger.Info().Int64("food_id", food.ID).Str("name", food.Name).Msg("Food created")
	c.JSON(http.StatusOK, foodResponse(&food))
}

// @Router /api/admin/foods/{id} [put]
// @Param body body api.FoodInput true "Food"
// @Success 200 {object} api.Food
func (s *Server) updateFood(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	food, ok := s.findFood(c, id)
	if !ok {
		return
	}
	req, ok := s.bindFood(c)
	if !ok {
		return
	}

	applyFoodInput(food, req)
	if err := s.db.Save(food).Error; err != nil {
		s.logger.Error().Err(err).Int64("food_id", id).Msg("Failed to update food")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update food"})
		return
	}

	c.JSON(http.StatusOK, foodResponse(food))
}

// deleteFood removes a food together with the intakes that logged it
// @Router /api/admin/foods/{id} [delete]
// @Success 200 {object} api.APIMessage
func (s *Server) deleteFood(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("food_id = ?", id).Delete(&models.FoodIntake{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Food{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, api.APIMessage{Success: false, Message: "Food not found"})
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("food_id", id).Msg("Failed to delete food")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete food"})
		return
	}

	c.JSON(http.StatusOK, api.APIMessage{Success: true, Message: "Food deleted successfully"})
}

// @Router /api/admin/stats [get]
// @Success 200 {object} api.SystemStats
func (s *Server) systemStats(c *gin.Context) {
	var stats api.SystemStats
	var traditional, modern int64
	err := errors.Join(
		s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error,
		s.db.Model(&models.Food{}).Count(&stats.TotalFoods).Error,
		s.db.Model(&models.Food{}).Where("type = ?", api.FoodTypeTraditional).Count(&traditional).Error,
		s.db.Model(&models.Food{}).Where("type = ?", api.FoodTypeModern).Count(&modern).Error,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	stats.TraditionalFoods = int(traditional)
	stats.ModernFoods = int(modern)
	c.JSON(http.StatusOK, stats)
}
