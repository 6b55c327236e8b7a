package domain

import "strings"

// RecommendationRequest asks for a daily plan built from a maintenance-calorie target
type RecommendationRequest struct {
	MaintenanceCalories float64  `json:"maintenanceCalories"`
	DietaryPreferences  []string `json:"dietaryPreferences,omitempty"`
	ExcludedCategories  []string `json:"excludedCategories,omitempty"`
	MealType            string   `json:"mealType,omitempty"` // a slot or "all"
}

// AlternativesRequest asks for swap candidates for one meal slot
type AlternativesRequest struct {
	MealType           string   `json:"mealType"`
	TargetCalories     float64  `json:"targetCalories"`
	ExcludedFoodIDs    []string `json:"excludedFoods,omitempty"`
	DietaryPreferences []string `json:"dietaryPreferences,omitempty"`
}

// MealCalories is the calorie budget per slot
type MealCalories struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
	Snack     int `json:"snack"`
}

// For returns the budget of a single slot
func (m MealCalories) For(slot MealType) int {
	switch slot {
	case MealTypeBreakfast:
		return m.Breakfast
	case MealTypeLunch:
		return m.Lunch
	case MealTypeDinner:
		return m.Dinner
	case MealTypeSnack:
		return m.Snack
	}
	return 0
}

// Total returns the sum of all four budgets
func (m MealCalories) Total() int {
	return m.Breakfast + m.Lunch + m.Dinner + m.Snack
}

// MacroTargets holds daily gram targets
type MacroTargets struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// RecommendationPlan is the response of a recommendation request.
// A single-slot request carries exactly one key in each map.
type RecommendationPlan struct {
	MealCalories    map[MealType]int        `json:"mealCalories"`
	MacroTargets    MacroTargets            `json:"macroTargets"`
	Recommendations map[MealType][]FoodItem `json:"recommendations"`
}

// CatalogQuery is the filter sent to the food catalog when searching candidates.
//
// A food matches when its meal-type tags intersect MealTypes or its category is one of
// Categories (case-insensitive), its calories per 100 units lie in [MinCalories, MaxCalories],
// it carries at least one of DietaryPreferences (when given), and neither its category nor
// its id is excluded. Limit caps the result; zero means no cap.
type CatalogQuery struct {
	MealTypes          []string
	Categories         []string
	DietaryPreferences []string
	ExcludedCategories []string
	ExcludedIDs        []string
	MinCalories        float64
	MaxCalories        float64
	Limit              int
}

// Matches reports whether food satisfies every clause of q except Limit
func (q CatalogQuery) Matches(food FoodItem) bool {
	if len(q.MealTypes) > 0 || len(q.Categories) > 0 {
		if !intersects(q.MealTypes, food.MealTypes) && !containsFold(q.Categories, food.Category) {
			return false
		}
	}

	calories := food.Nutrition.Sanitized().Calories
	if calories < q.MinCalories || calories > q.MaxCalories {
		return false
	}

	if len(q.DietaryPreferences) > 0 && !intersects(q.DietaryPreferences, food.DietaryPreferences) {
		return false
	}
	if containsFold(q.ExcludedCategories, food.Category) {
		return false
	}
	for _, id := range q.ExcludedIDs {
		if id == food.ID {
			return false
		}
	}
	return true
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if containsFold(b, x) {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
