package server

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/auth"
	"github.com/nutribattle/nutribattle/internal/models"
	"github.com/nutribattle/nutribattle/internal/nutrition"
)

//go:embed foods.yaml
var foodCatalog []byte

type catalogFood struct {
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"`
	Type         string   `yaml:"type"`
	Calories     float64  `yaml:"calories"`
	Protein      float64  `yaml:"protein"`
	Fat          float64  `yaml:"fat"`
	SaturatedFat float64  `yaml:"saturated_fat"`
	Carbs        float64  `yaml:"carbs"`
	Sugar        float64  `yaml:"sugar"`
	Fiber        float64  `yaml:"fiber"`
	Sodium       float64  `yaml:"sodium"`
	VitaminA     *float64 `yaml:"vitamin_a"`
	VitaminC     *float64 `yaml:"vitamin_c"`
	Calcium      *float64 `yaml:"calcium"`
	Iron         *float64 `yaml:"iron"`
	ImageURL     string   `yaml:"image_url"`
	Description  string   `yaml:"description"`
}

func (f catalogFood) input() api.FoodInput {
	return api.FoodInput{
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
}

type seedUser struct {
	username string
	password string
	email    string
	fullName string
	role     string
	profile  func(u *models.User)
	goals    api.NutritionalGoals
}

func ptr[T any](v T) *T { return &v }

var seedUsers = []seedUser{
	{
		username: "admin",
		password: "admin123",
		email:    "admin@nutribattle.com",
		fullName: "System Administrator",
		role:     models.RoleAdmin,
		goals:    api.NutritionalGoals{DailyCalorieGoal: 2000, DailyProteinGoal: 50, DailyCarbGoal: 275, DailyFatGoal: 65},
	},
	{
		username: "testuser",
		password: "test123",
		email:    "test@nutribattle.com",
		fullName: "Test User",
		role:     models.RoleUser,
		profile: func(u *models.User) {
			u.Age = ptr(25)
			u.Gender = "MALE"
			u.Height = ptr(175.0)
			u.Weight = ptr(70.0)
			u.ActivityLevel = "MODERATE"
			u.DietaryPreference = "NONE"
		},
		goals: api.NutritionalGoals{DailyCalorieGoal: 2500, DailyProteinGoal: 65, DailyCarbGoal: 325, DailyFatGoal: 80},
	},
}

// seed loads the food catalog into an empty database and creates the
// admin and test accounts when missing
func (s *Server) seed() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.seedFoods(tx); err != nil {
			return err
		}
		return s.seedUsers(tx)
	})
}

func (s *Server) seedFoods(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.Food{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.logger.Debug().Int64("foods", count).Msg("Food catalog already loaded")
		return nil
	}

	var catalog []catalogFood
	if err := yaml.Unmarshal(foodCatalog, &catalog); err != nil {
		return fmt.Errorf("failed to parse food catalog: %w", err)
	}

	foods := make([]models.Food, 0, len(catalog))
	for _, entry := range catalog {
		input := entry.input()
		if err := s.validator.Struct(&input); err != nil {
			return fmt.Errorf("invalid catalog food %q: %w", entry.Name, err)
		}
		var food models.Food
		applyFoodInput(&food, input)
		foods = append(foods, food)
	}

	if err := tx.CreateInBatches(foods, 50).Error; err != nil {
		return fmt.Errorf("failed to load food catalog: %w", err)
	}
	s.logger.Info().Int("foods", len(foods)).Msg("Loaded food catalog")
	return nil
}

func (s *Server) seedUsers(tx *gorm.DB) error {
	for _, su := range seedUsers {
		err := tx.Where("username = ?", su.username).First(&models.User{}).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		passwordHash, err := auth.HashPassword(su.password)
		if err != nil {
			return err
		}
		user := &models.User{
			Username:     su.username,
			Email:        su.email,
			PasswordHash: passwordHash,
			FullName:     su.fullName,
			Role:         su.role,
			Enabled:      true,
		}
		if su.profile != nil {
			su.profile(user)
			user.BMI = nutrition.BMI(user.Weight, user.Height)
		}
		setUserGoals(user, su.goals)

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create %s account: %w", su.username, err)
		}
		s.logger.Info().Str("username", su.username).Str("role", su.role).Msg("Created seed account")
	}
	return nil
}
