package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/nutriscan/backend/internal/domain"
)

type foodRecord struct {
	ID                 string         `gorm:"primaryKey;size:36"`
	Name               string         `gorm:"not null;index"`
	Category           string         `gorm:"not null;index"`
	Calories           float64        `gorm:"not null;default:0;index"`
	Protein            float64        `gorm:"not null;default:0"`
	Carbs              float64        `gorm:"not null;default:0"`
	Fat                float64        `gorm:"not null;default:0"`
	Fiber              float64        `gorm:"not null;default:0"`
	ServingSize        float64        `gorm:"not null;default:100"`
	ServingUnit        string         `gorm:"not null;default:g"`
	MealTypes          pq.StringArray `gorm:"type:text[]"`
	DietaryPreferences pq.StringArray `gorm:"type:text[]"`
	Description        string
	ImageURL           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (foodRecord) TableName() string { return "foods" }

func newFoodRecord(f *domain.FoodItem) *foodRecord {
	return &foodRecord{
		ID:                 f.ID,
		Name:               f.Name,
		Category:           f.Category,
		Calories:           f.Nutrition.Calories,
		Protein:            f.Nutrition.Protein,
		Carbs:              f.Nutrition.Carbs,
		Fat:                f.Nutrition.Fat,
		Fiber:              f.Nutrition.Fiber,
		ServingSize:        f.ServingSize,
		ServingUnit:        f.ServingUnit,
		MealTypes:          pq.StringArray(f.MealTypes),
		DietaryPreferences: pq.StringArray(f.DietaryPreferences),
		Description:        f.Description,
		ImageURL:           f.ImageURL,
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
	}
}

func (r *foodRecord) toDomain() domain.FoodItem {
	return domain.FoodItem{
		ID:       r.ID,
		Name:     r.Name,
		Category: r.Category,
		Nutrition: domain.NutritionProfile{
			Calories: r.Calories,
			Protein:  r.Protein,
			Carbs:    r.Carbs,
			Fat:      r.Fat,
			Fiber:    r.Fiber,
		},
		ServingSize:        r.ServingSize,
		ServingUnit:        r.ServingUnit,
		MealTypes:          nonNilStrings(r.MealTypes),
		DietaryPreferences: nonNilStrings(r.DietaryPreferences),
		Description:        r.Description,
		ImageURL:           r.ImageURL,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type mealRecord struct {
	ID          string  `gorm:"primaryKey;size:36"`
	UserID      string  `gorm:"not null;size:36;index:idx_meal_user_date"`
	FoodID      string  `gorm:"not null;size:36;index"`
	MealType    string  `gorm:"not null;size:16"`
	ServingSize float64 `gorm:"not null"`
	ServingUnit string
	Date        string `gorm:"not null;size:10;index:idx_meal_user_date"`
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (mealRecord) TableName() string { return "meal_entries" }

func newMealRecord(e *domain.MealEntry) *mealRecord {
	return &mealRecord{
		ID:          e.ID,
		UserID:      e.UserID,
		FoodID:      e.FoodID,
		MealType:    string(e.MealType),
		ServingSize: e.ServingSize,
		ServingUnit: e.ServingUnit,
		Date:        e.Date,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *mealRecord) toDomain() domain.MealEntry {
	return domain.MealEntry{
		ID:          r.ID,
		UserID:      r.UserID,
		FoodID:      r.FoodID,
		MealType:    domain.MealType(r.MealType),
		ServingSize: r.ServingSize,
		ServingUnit: r.ServingUnit,
		Date:        r.Date,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type goalsRecord struct {
	TargetWeight   float64
	WeeklyGoal     float64
	TargetCalories float64
	TargetProtein  float64
	TargetCarbs    float64
	TargetFat      float64
	TargetWater    float64
}

type userRecord struct {
	ID            string `gorm:"primaryKey;size:36"`
	Email         string `gorm:"not null;uniqueIndex"`
	PasswordHash  string `gorm:"not null"`
	Name          string `gorm:"not null"`
	Role          string `gorm:"not null;default:user"`
	Height        float64
	Weight        float64
	Age           int
	Gender        string
	ActivityLevel string      `gorm:"not null;default:sedentary"`
	Goals         goalsRecord `gorm:"embedded;embeddedPrefix:goal_"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (userRecord) TableName() string { return "users" }

func newUserRecord(u *domain.User) *userRecord {
	return &userRecord{
		ID:            u.ID,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Name:          u.Name,
		Role:          string(u.Role),
		Height:        u.Height,
		Weight:        u.Weight,
		Age:           u.Age,
		Gender:        u.Gender,
		ActivityLevel: u.ActivityLevel,
		Goals:         goalsRecord(u.Goals),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (r *userRecord) toDomain() domain.User {
	return domain.User{
		ID:            r.ID,
		Email:         r.Email,
		PasswordHash:  r.PasswordHash,
		Name:          r.Name,
		Role:          domain.Role(r.Role),
		Height:        r.Height,
		Weight:        r.Weight,
		Age:           r.Age,
		Gender:        r.Gender,
		ActivityLevel: r.ActivityLevel,
		Goals:         domain.Goals(r.Goals),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type waterRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"not null;size:36;index:idx_water_user_date"`
	Date      time.Time `gorm:"not null;index:idx_water_user_date"`
	Amount    float64   `gorm:"not null"`
	Unit      string    `gorm:"not null;size:4;default:ml"`
	CreatedAt time.Time
}

func (waterRecord) TableName() string { return "water_intakes" }

func newWaterRecord(w *domain.WaterIntake) *waterRecord {
	return &waterRecord{
		ID:        w.ID,
		UserID:    w.UserID,
		Date:      w.Date,
		Amount:    w.Amount,
		Unit:      w.Unit,
		CreatedAt: w.CreatedAt,
	}
}

func (r *waterRecord) toDomain() domain.WaterIntake {
	return domain.WaterIntake{
		ID:        r.ID,
		UserID:    r.UserID,
		Date:      r.Date,
		Amount:    r.Amount,
		Unit:      r.Unit,
		CreatedAt: r.CreatedAt,
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return []string(values)
}
