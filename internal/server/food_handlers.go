package server

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/models"
	"github.com/nutribattle/nutribattle/internal/nutrition"
)

const (
	homepageFoodLimit     = 60
	maxComparedFoods      = 3
	defaultRecommendCount = 5
	maxRecommendCount     = 10
)

// pathID parses a numeric path parameter, answering 400 when it is not one
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func (s *Server) loadFoods(c *gin.Context, query *gorm.DB) ([]api.Food, bool) {
	var foods []models.Food
	if err := query.Order("name").Find(&foods).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list foods")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list foods"})
		return nil, false
	}
	return foodResponses(foods), true
}

// @Router /api/foods [get]
// @Success 200 {array} api.Food
func (s *Server) listFoods(c *gin.Context) {
	if foods, ok := s.loadFoods(c, s.db); ok {
		c.JSON(http.StatusOK, foods)
	}
}

// homepageFoods returns a shuffled mix of traditional and modern foods,
// half of each where the catalog allows
// @Router /api/foods/homepage [get]
func (s *Server) homepageFoods(c *gin.Context) {
	foods, ok := s.loadFoods(c, s.db)
	if !ok {
		return
	}

	var traditional, modern []api.Food
	for _, f := range foods {
		if f.Type == api.FoodTypeTraditional {
			traditional = append(traditional, f)
		} else {
			modern = append(modern, f)
		}
	}
	rand.Shuffle(len(traditional), func(i, j int) { traditional[i], traditional[j] = traditional[j], traditional[i] })
	rand.Shuffle(len(modern), func(i, j int) { modern[i], modern[j] = modern[j], modern[i] })

	half := homepageFoodLimit / 2
	takeTraditional := min(len(traditional), max(half, homepageFoodLimit-len(modern)))
	takeModern := min(len(modern), homepageFoodLimit-takeTraditional)

	mix := make([]api.Food, 0, takeTraditional+takeModern)
	mix = append(mix, traditional[:takeTraditional]...)
	mix = append(mix, modern[:takeModern]...)
	rand.Shuffle(len(mix), func(i, j int) { mix[i], mix[j] = mix[j], mix[i] })

	c.JSON(http.StatusOK, mix)
}

// @Router /api/foods/search [get]
// @Param name query string true "Case-insensitive substring of the food name"
func (s *Server) searchFoods(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusOK, []api.Food{})
		return
	}

	query := s.db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	if foods, ok := s.loadFoods(c, query); ok {
		c.JSON(http.StatusOK, foods)
	}
}

// @Router /api/foods/categories [get]
// @Success 200 {array} string
func (s *Server) listCategories(c *gin.Context) {
	categories := []string{}
	if err := s.db.Model(&models.Food{}).Distinct("category").Order("category").Pluck("category", &categories).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list categories")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// @Router /api/foods/type/{type} [get]
// @Param type path string true "Traditional or Modern"
func (s *Server) foodsByType(c *gin.Context) {
	query := s.db.Where("LOWER(type) = ?", strings.ToLower(c.Param("type")))
	if foods, ok := s.loadFoods(c, query); ok {
		c.JSON(http.StatusOK, foods)
	}
}

func (s *Server) findFood(c *gin.Context, id int64) (*models.Food, bool) {
	var food models.Food
	if err := models.FindByID(s.db, id, &food); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
			return nil, false
		}
		s.logger.Error().Err(err).Int64("food_id", id).Msg("Failed to load food")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	return &food, true
}

// @Router /api/foods/{id} [get]
// @Success 200 {object} api.Food
func (s *Server) getFood(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if food, ok := s.findFood(c, id); ok {
		c.JSON(http.StatusOK, foodResponse(food))
	}
}

// @Router /api/compare [post]
// @Param body body api.CompareRequest true "Up to three food ids"
// @Success 200 {object} api.ComparisonResult
func (s *Server) compareFoods(c *gin.Context) {
	var req api.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if len(req.FoodIDs) == 0 || len(req.FoodIDs) > maxComparedFoods {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select between 1 and 3 foods to compare"})
		return
	}

	var found []models.Food
	if err := s.db.Where("id IN ?", req.FoodIDs).Find(&found).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to load compared foods")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Keep the order the foods were requested in
	byID := make(map[int64]models.Food, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	foods := make([]api.Food, 0, len(found))
	for _, id := range req.FoodIDs {
		if f, ok := byID[id]; ok {
			foods = append(foods, foodResponse(&f))
			delete(byID, id)
		}
	}

	result, err := nutrition.Compare(foods)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid foods found for comparison"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Router /api/recommendations/{foodId} [get]
// @Param k query int false "Number of alternatives, 1 to 10"
// @Param mode query string false "SAME_CATEGORY, OPPOSITE_CATEGORY or MIXED"
// @Success 200 {array} api.FoodRecommendation
func (s *Server) recommendations(c *gin.Context) {
	id, ok := pathID(c, "foodId")
	if !ok {
		return
	}

	k := defaultRecommendCount
	if raw := c.Query("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRecommendCount {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be between 1 and 10"})
			return
		}
		k = n
	}

	mode := api.RecommendationMode(strings.ToUpper(c.Query("mode")))
	if !mode.Valid() {
		mode = api.ModeMixed
	}

	var target models.Food
	if err := models.FindByID(s.db, id, &target); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Food not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load food")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	candidates, ok := s.loadFoods(c, s.db)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, nutrition.Similar(foodResponse(&target), candidates, k, mode))
}
