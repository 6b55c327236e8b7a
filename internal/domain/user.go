package domain

import "time"

// Role controls access to administrative routes
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account. PasswordHash is never serialized.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	Height        float64   `json:"height,omitempty"`
	Weight        float64   `json:"weight,omitempty"`
	Age           int       `json:"age,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	ActivityLevel string    `json:"activityLevel"`
	Goals         Goals     `json:"goals"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Goals are the user's self-declared daily targets
type Goals struct {
	TargetWeight   float64 `json:"targetWeight,omitempty"`
	WeeklyGoal     float64 `json:"weeklyGoal,omitempty"`
	TargetCalories float64 `json:"targetCalories,omitempty"`
	TargetProtein  float64 `json:"targetProtein,omitempty"`
	TargetCarbs    float64 `json:"targetCarbs,omitempty"`
	TargetFat      float64 `json:"targetFat,omitempty"`
	TargetWater    float64 `json:"targetWater,omitempty"`
}

// DefaultActivityLevel is assigned to new accounts
const DefaultActivityLevel = "sedentary"

// Genders accepted on a profile
var Genders = []string{"male", "female", "other"}

// ActivityLevels accepted on a profile
var ActivityLevels = []string{"sedentary", "light", "moderate", "active", "very-active"}

// AuthClaims is the identity carried by an access token
type AuthClaims struct {
	UserID string
	Role   Role
}
