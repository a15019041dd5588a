package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel provides the auto-increment id and creation time shared by all models
type BaseModel struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// Roles stored on User.Role
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an account of the dev backend
type User struct {
	BaseModel
	Username     string     `gorm:"uniqueIndex;not null"`
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	FullName     string     `gorm:"not null"`
	Role         string     `gorm:"not null;default:USER"`
	Enabled      bool       `gorm:"not null;default:true"`
	LastLoginAt  *time.Time // Set on every successful login
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`

	// Profile, all optional
	Age               *int
	Gender            string
	Height            *float64 // cm
	Weight            *float64 // kg
	ActivityLevel     string
	DietaryPreference string

	// Goal profile used by the nutrition tracker
	NutritionGoal string `gorm:"not null;default:MAINTAIN"`
	AgeGroup      string `gorm:"not null;default:MIDDLE_AGE"`
	BMI           *float64

	// Daily macro targets, nil until set
	DailyCalorieGoal *float64
	DailyProteinGoal *float64
	DailyCarbGoal    *float64
	DailyFatGoal     *float64
}

// IsAdmin reports whether the account holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Food represents a catalog entry. Nutrients are per 100g.
type Food struct {
	BaseModel
	Name         string  `gorm:"not null;index"`
	Category     string  `gorm:"not null;index"`
	Type         string  `gorm:"not null;index"` // Traditional or Modern
	Calories     float64 `gorm:"not null"`
	Protein      float64 `gorm:"not null"`
	Fat          float64 `gorm:"not null"`
	SaturatedFat float64 `gorm:"not null"`
	Carbs        float64 `gorm:"not null"`
	Sugar        float64 `gorm:"not null"`
	Fiber        float64 `gorm:"not null"`
	Sodium       float64 `gorm:"not null"` // mg
	VitaminA     *float64
	VitaminC     *float64
	Calcium      *float64
	Iron         *float64
	ImageURL     string
	Description  string `gorm:"type:text"`
}

// FoodIntake is a quantity of food a user logged against a meal. Nutrients
// are scaled to the quantity when the intake is saved.
type FoodIntake struct {
	BaseModel
	UserID     int64   `gorm:"not null;index:idx_intake_user_date"`
	FoodID     int64   `gorm:"not null"`
	Quantity   float64 `gorm:"not null"`                                              // grams
	IntakeDate string  `gorm:"type:varchar(10);not null;index:idx_intake_user_date"` // YYYY-MM-DD
	MealType   string  `gorm:"not null"`
	Calories   float64 `gorm:"not null"`
	Protein    float64 `gorm:"not null"`
	Fat        float64 `gorm:"not null"`
	Carbs      float64 `gorm:"not null"`
	Fiber      float64 `gorm:"not null"`
	Sugar      float64 `gorm:"not null"`
	Sodium     float64 `gorm:"not null"`
	Notes      string

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Food Food  `gorm:"foreignKey:FoodID;constraint:OnDelete:CASCADE"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Food{}, &FoodIntake{})
}

// FindByID finds a record by its numeric ID
func FindByID[T any](db *gorm.DB, id int64, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}

// FindByIDWithPreload finds a record by ID with preloading
func FindByIDWithPreload[T any](db *gorm.DB, id int64, model *T, preloads ...string) error {
	query := db
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	return query.Where("id = ?", id).First(model).Error
}
