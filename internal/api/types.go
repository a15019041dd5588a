// Package api declares the JSON schemas exchanged with the NutriBattle
// backend. Required fields carry validate tags and optional fields get
// their defaults from Defaults, both applied once by the HTTP client when a
// response is decoded.
package api

import "time"

// Role is the authorization role of a user
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// MealType enumerates the meals a food intake can be logged against
type MealType string

const (
	MealBreakfast MealType = "BREAKFAST"
	MealLunch     MealType = "LUNCH"
	MealDinner    MealType = "DINNER"
	MealSnack     MealType = "SNACK"
)

// MealTypes lists meal types in display order
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// Valid reports whether m is a known meal type
func (m MealType) Valid() bool {
	for _, t := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

// RecommendationMode selects which foods the recommender may return
type RecommendationMode string

const (
	ModeSameCategory     RecommendationMode = "SAME_CATEGORY"
	ModeOppositeCategory RecommendationMode = "OPPOSITE_CATEGORY"
	ModeMixed            RecommendationMode = "MIXED"
)

// Valid reports whether m is a known recommendation mode
func (m RecommendationMode) Valid() bool {
	switch m {
	case ModeSameCategory, ModeOppositeCategory, ModeMixed:
		return true
	}
	return false
}

// NutritionGoal is the user's overall objective
type NutritionGoal string

const (
	GoalWeightGain NutritionGoal = "WEIGHT_GAIN"
	GoalWeightLoss NutritionGoal = "WEIGHT_LOSS"
	GoalMaintain   NutritionGoal = "MAINTAIN"
)

// AgeGroup buckets users for calorie recommendations
type AgeGroup string

const (
	AgeChild     AgeGroup = "CHILD"
	AgeMiddleAge AgeGroup = "MIDDLE_AGE"
	AgeOldAge    AgeGroup = "OLD_AGE"
)

// Food types used by the catalog and the opposite-category recommender
const (
	FoodTypeTraditional = "Traditional"
	FoodTypeModern      = "Modern"
)

// Credentials is the login request body
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest is the account creation request body
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required"`
}

// AuthResponse is returned by login and signup
type AuthResponse struct {
	AccessToken string `json:"accessToken" validate:"required"`
	TokenType   string `json:"tokenType"`
	ID          int64  `json:"id" validate:"required"`
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Role        Role   `json:"role" validate:"required,oneof=USER ADMIN"`
}

func (r *AuthResponse) Defaults() {
	if r.TokenType == "" {
		r.TokenType = "Bearer"
	}
}

// Summary extracts the cached user record from an auth response.
// Login only succeeds for enabled accounts.
func (r *AuthResponse) Summary() UserSummary {
	return UserSummary{
		ID:       r.ID,
		Username: r.Username,
		FullName: r.FullName,
		Email:    r.Email,
		Role:     r.Role,
		Enabled:  true,
	}
}

// UserSummary is the client's read-only cached copy of the logged in user
type UserSummary struct {
	ID       int64  `json:"id" validate:"required"`
	Username string `json:"username" validate:"required"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role" validate:"required,oneof=USER ADMIN"`
	Enabled  bool   `json:"enabled"`
}

// IsAdmin reports whether the user holds the admin role
func (u UserSummary) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// APIMessage is the generic {success, message} envelope
type APIMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Food is a catalog entry. Nutrient values are per 100g.
type Food struct {
	ID           int64    `json:"id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Category     string   `json:"category"`
	Type         string   `json:"type"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Fat          float64  `json:"fat"`
	SaturatedFat float64  `json:"saturatedFat"`
	Carbs        float64  `json:"carbs"`
	Sugar        float64  `json:"sugar"`
	Fiber        float64  `json:"fiber"`
	Sodium       float64  `json:"sodium"`
	VitaminA     *float64 `json:"vitaminA,omitempty"`
	VitaminC     *float64 `json:"vitaminC,omitempty"`
	Calcium      *float64 `json:"calcium,omitempty"`
	Iron         *float64 `json:"iron,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Description  string   `json:"description,omitempty"`
	NutriScore   string   `json:"nutriScore,omitempty"`
}

// FoodInput is the admin create/update body
type FoodInput struct {
	Name         string   `json:"name" binding:"required" validate:"required"`
	Category     string   `json:"category" binding:"required" validate:"required"`
	Type         string   `json:"type" binding:"required,oneof=Traditional Modern" validate:"required,oneof=Traditional Modern"`
	Calories     float64  `json:"calories" binding:"gte=0" validate:"gte=0"`
	Protein      float64  `json:"protein" binding:"gte=0" validate:"gte=0"`
	Fat          float64  `json:"fat" binding:"gte=0" validate:"gte=0"`
	SaturatedFat float64  `json:"saturatedFat" binding:"gte=0" validate:"gte=0"`
	Carbs        float64  `json:"carbs" binding:"gte=0" validate:"gte=0"`
	Sugar        float64  `json:"sugar" binding:"gte=0" validate:"gte=0"`
	Fiber        float64  `json:"fiber" binding:"gte=0" validate:"gte=0"`
	Sodium       float64  `json:"sodium" binding:"gte=0" validate:"gte=0"`
	VitaminA     *float64 `json:"vitaminA,omitempty"`
	VitaminC     *float64 `json:"vitaminC,omitempty"`
	Calcium      *float64 `json:"calcium,omitempty"`
	Iron         *float64 `json:"iron,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// CompareRequest is the body of POST /compare
type CompareRequest struct {
	FoodIDs []int64 `json:"foodIds"`
}

// ComparisonResult is returned by the comparison endpoint
type ComparisonResult struct {
	Foods               []Food               `json:"foods" validate:"required,min=1,dive"`
	NutrientComparisons []NutrientComparison `json:"nutrientComparisons"`
	HealthiestFood      *Food                `json:"healthiestFood"`
	Recommendations     []string             `json:"recommendations"`
}

func (r *ComparisonResult) Defaults() {
	if r.NutrientComparisons == nil {
		r.NutrientComparisons = []NutrientComparison{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
}

// NutrientComparison compares one nutrient across the compared foods
type NutrientComparison struct {
	NutrientName string              `json:"nutrientName"`
	Unit         string              `json:"unit"`
	Values       []FoodNutrientValue `json:"values"`
}

// FoodNutrientValue is one food's value for a compared nutrient
type FoodNutrientValue struct {
	FoodID   int64   `json:"foodId"`
	FoodName string  `json:"foodName"`
	Value    float64 `json:"value"`
	Best     bool    `json:"best"`
	Worst    bool    `json:"worst"`
}

// FoodRecommendation is one result of the similarity recommender
type FoodRecommendation struct {
	Food            Food               `json:"food"`
	SimilarityScore float64            `json:"similarityScore" validate:"gte=0,lte=1"`
	Improvements    map[string]float64 `json:"improvements"`
	Reason          string             `json:"reason"`
}

func (r *FoodRecommendation) Defaults() {
	if r.Improvements == nil {
		r.Improvements = map[string]float64{}
	}
}

// NutritionGoalRequest sets the user's goal profile
type NutritionGoalRequest struct {
	NutritionGoal NutritionGoal `json:"nutritionGoal" binding:"required,oneof=WEIGHT_GAIN WEIGHT_LOSS MAINTAIN"`
	AgeGroup      AgeGroup      `json:"ageGroup" binding:"required,oneof=CHILD MIDDLE_AGE OLD_AGE"`
	Weight        *float64      `json:"weight,omitempty"`
	Height        *float64      `json:"height,omitempty"`
}

// NutritionGoalResponse describes the user's goal profile and daily targets
type NutritionGoalResponse struct {
	NutritionGoal       NutritionGoal `json:"nutritionGoal"`
	AgeGroup            AgeGroup      `json:"ageGroup"`
	BMI                 *float64      `json:"bmi"`
	BMICategory         string        `json:"bmiCategory"`
	RecommendedCalories float64       `json:"recommendedCalories"`
	DailyCalorieGoal    float64       `json:"dailyCalorieGoal"`
	DailyProteinGoal    float64       `json:"dailyProteinGoal"`
	DailyCarbGoal       float64       `json:"dailyCarbGoal"`
	DailyFatGoal        float64       `json:"dailyFatGoal"`
	Weight              *float64      `json:"weight"`
	Height              *float64      `json:"height"`
}

// Default daily targets for accounts that never set goals
const (
	DefaultCalorieGoal = 2000.0
	DefaultProteinGoal = 50.0
	DefaultCarbGoal    = 275.0
	DefaultFatGoal     = 65.0
)

func (r *NutritionGoalResponse) Defaults() {
	if r.NutritionGoal == "" {
		r.NutritionGoal = GoalMaintain
	}
	if r.AgeGroup == "" {
		r.AgeGroup = AgeMiddleAge
	}
	if r.BMICategory == "" {
		r.BMICategory = "Unknown"
	}
	if r.DailyCalorieGoal == 0 {
		r.DailyCalorieGoal = DefaultCalorieGoal
	}
	if r.DailyProteinGoal == 0 {
		r.DailyProteinGoal = DefaultProteinGoal
	}
	if r.DailyCarbGoal == 0 {
		r.DailyCarbGoal = DefaultCarbGoal
	}
	if r.DailyFatGoal == 0 {
		r.DailyFatGoal = DefaultFatGoal
	}
}

// Date is a calendar date serialized as YYYY-MM-DD
type Date struct {
	time.Time
}

const DateLayout = "2006-01-02"

// NewDate truncates t to its calendar date
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Layout: DateLayout, Value: s}
	}
	t, err := time.Parse(DateLayout, s[1:len(s)-1])
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// AddFoodIntakeRequest logs a quantity of food against a meal
type AddFoodIntakeRequest struct {
	FoodID     int64    `json:"foodId" binding:"required"`
	Quantity   float64  `json:"quantity" binding:"required,gt=0"` // grams
	MealType   MealType `json:"mealType" binding:"required,oneof=BREAKFAST LUNCH DINNER SNACK"`
	IntakeDate *Date    `json:"intakeDate,omitempty"` // defaults to today
	Notes      string   `json:"notes,omitempty"`
}

// UpdateFoodIntakeRequest changes a logged intake. The food and the day are
// fixed once logged; FoodID and IntakeDate, when sent, must match them.
type UpdateFoodIntakeRequest struct {
	Quantity   float64  `json:"quantity" binding:"required,gt=0"` // grams
	MealType   MealType `json:"mealType" binding:"required,oneof=BREAKFAST LUNCH DINNER SNACK"`
	Notes      string   `json:"notes,omitempty"`
	FoodID     *int64   `json:"foodId,omitempty"`
	IntakeDate *Date    `json:"intakeDate,omitempty"`
}

// FoodIntakeResponse is a logged intake with nutrients scaled to its quantity
type FoodIntakeResponse struct {
	ID           int64    `json:"id" validate:"required"`
	FoodID       int64    `json:"foodId" validate:"required"`
	FoodName     string   `json:"foodName"`
	FoodCategory string   `json:"foodCategory"`
	Quantity     float64  `json:"quantity"`
	MealType     MealType `json:"mealType"`
	IntakeDate   Date     `json:"intakeDate"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Fat          float64  `json:"fat"`
	Carbs        float64  `json:"carbs"`
	Fiber        float64  `json:"fiber"`
	Sugar        float64  `json:"sugar"`
	Sodium       float64  `json:"sodium"`
	Notes        string   `json:"notes,omitempty"`
	NutriScore   string   `json:"nutriScore,omitempty"`
}

// MealSummary totals one meal of a day
type MealSummary struct {
	MealType MealType `json:"mealType"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Fat      float64  `json:"fat"`
	Carbs    float64  `json:"carbs"`
}

// DailyNutritionSummary totals one day against the user's goals
type DailyNutritionSummary struct {
	Date              Date                 `json:"date"`
	CalorieGoal       float64              `json:"calorieGoal"`
	ProteinGoal       float64              `json:"proteinGoal"`
	FatGoal           float64              `json:"fatGoal"`
	CarbGoal          float64              `json:"carbGoal"`
	TotalCalories     float64              `json:"totalCalories"`
	TotalProtein      float64              `json:"totalProtein"`
	TotalFat          float64              `json:"totalFat"`
	TotalCarbs        float64              `json:"totalCarbs"`
	TotalFiber        float64              `json:"totalFiber"`
	TotalSugar        float64              `json:"totalSugar"`
	TotalSodium       float64              `json:"totalSodium"`
	CaloriePercentage float64              `json:"caloriePercentage"`
	ProteinPercentage float64              `json:"proteinPercentage"`
	FatPercentage     float64              `json:"fatPercentage"`
	CarbPercentage    float64              `json:"carbPercentage"`
	MealBreakdown     []MealSummary        `json:"mealBreakdown"`
	FoodItems         []FoodIntakeResponse `json:"foodItems"`
}

func (s *DailyNutritionSummary) Defaults() {
	if s.CalorieGoal == 0 {
		s.CalorieGoal = DefaultCalorieGoal
	}
	if s.ProteinGoal == 0 {
		s.ProteinGoal = DefaultProteinGoal
	}
	if s.CarbGoal == 0 {
		s.CarbGoal = DefaultCarbGoal
	}
	if s.FatGoal == 0 {
		s.FatGoal = DefaultFatGoal
	}
	if s.MealBreakdown == nil {
		s.MealBreakdown = []MealSummary{}
	}
	if s.FoodItems == nil {
		s.FoodItems = []FoodIntakeResponse{}
	}
}

// WeeklyNutritionSummary aggregates seven daily summaries
type WeeklyNutritionSummary struct {
	StartDate         Date                    `json:"startDate"`
	EndDate           Date                    `json:"endDate"`
	AverageCalories   float64                 `json:"averageCalories"`
	AverageProtein    float64                 `json:"averageProtein"`
	AverageFat        float64                 `json:"averageFat"`
	AverageCarbs      float64                 `json:"averageCarbs"`
	DailySummaries    []DailyNutritionSummary `json:"dailySummaries"`
	MostConsumedFoods map[string]int          `json:"mostConsumedFoods"`
	Recommendations   []string                `json:"recommendations"`
}

func (s *WeeklyNutritionSummary) Defaults() {
	if s.DailySummaries == nil {
		s.DailySummaries = []DailyNutritionSummary{}
	}
	for i := range s.DailySummaries {
		s.DailySummaries[i].Defaults()
	}
	if s.MostConsumedFoods == nil {
		s.MostConsumedFoods = map[string]int{}
	}
	if s.Recommendations == nil {
		s.Recommendations = []string{}
	}
}

// CalorieKnnRecommendation suggests foods matching a meal's calorie budget
type CalorieKnnRecommendation struct {
	TargetCalories       float64     `json:"targetCalories"`
	RecommendedFoods     []FoodMatch `json:"recommendedFoods"`
	RecommendationReason string      `json:"recommendationReason"`
}

func (r *CalorieKnnRecommendation) Defaults() {
	if r.RecommendedFoods == nil {
		r.RecommendedFoods = []FoodMatch{}
	}
}

// FoodMatch is one calorie recommendation
type FoodMatch struct {
	Food               Food    `json:"food"`
	MatchScore         float64 `json:"matchScore"` // 0-100
	CaloriesDifference float64 `json:"caloriesDifference"`
	Quantity           float64 `json:"quantity"` // suggested grams
	Reason             string  `json:"reason"`
}

// UserProfile is the full profile of the logged in user
type UserProfile struct {
	ID                int64      `json:"id" validate:"required"`
	Username          string     `json:"username" validate:"required"`
	Email             string     `json:"email"`
	FullName          string     `json:"fullName"`
	Age               int        `json:"age"`
	Gender            string     `json:"gender"`
	Height            float64    `json:"height"`
	Weight            float64    `json:"weight"`
	ActivityLevel     string     `json:"activityLevel"`
	DietaryPreference string     `json:"dietaryPreference"`
	Role              Role       `json:"role"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	LastLoginAt       *time.Time `json:"lastLoginAt,omitempty"`
}

func (p *UserProfile) Defaults() {
	if p.ActivityLevel == "" {
		p.ActivityLevel = "MODERATE"
	}
	if p.DietaryPreference == "" {
		p.DietaryPreference = "NONE"
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
}

// UpdateProfileRequest carries the editable profile fields. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FullName          *string  `json:"fullName,omitempty"`
	Age               *int     `json:"age,omitempty"`
	Gender            *string  `json:"gender,omitempty"`
	Height            *float64 `json:"height,omitempty"`
	Weight            *float64 `json:"weight,omitempty"`
	ActivityLevel     *string  `json:"activityLevel,omitempty"`
	DietaryPreference *string  `json:"dietaryPreference,omitempty"`
}

// NutritionalGoals are the user's daily macro targets
type NutritionalGoals struct {
	DailyCalorieGoal float64 `json:"dailyCalorieGoal"`
	DailyProteinGoal float64 `json:"dailyProteinGoal"`
	DailyCarbGoal    float64 `json:"dailyCarbGoal"`
	DailyFatGoal     float64 `json:"dailyFatGoal"`
}

func (g *NutritionalGoals) Defaults() {
	if g.DailyCalorieGoal == 0 {
		g.DailyCalorieGoal = DefaultCalorieGoal
	}
	if g.DailyProteinGoal == 0 {
		g.DailyProteinGoal = DefaultProteinGoal
	}
	if g.DailyCarbGoal == 0 {
		g.DailyCarbGoal = DefaultCarbGoal
	}
	if g.DailyFatGoal == 0 {
		g.DailyFatGoal = DefaultFatGoal
	}
}

// ChangePasswordRequest is the body of PUT /user/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// AdminUser is a user record as listed in the admin panel
type AdminUser struct {
	ID          int64      `json:"id" validate:"required"`
	Username    string     `json:"username" validate:"required"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	Role        Role       `json:"role" validate:"required,oneof=USER ADMIN"`
	Enabled     bool       `json:"enabled"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// UserPage is one page of the admin user listing
type UserPage struct {
	Content       []AdminUser `json:"content" validate:"dive"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
	Number        int         `json:"number"`
	Size          int         `json:"size"`
}

func (p *UserPage) Defaults() {
	if p.Content == nil {
		p.Content = []AdminUser{}
	}
}

// SystemStats are the admin dashboard counters
type SystemStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalFoods       int64 `json:"totalFoods"`
	TraditionalFoods int   `json:"traditionalFoods"`
	ModernFoods      int   `json:"modernFoods"`
}
