package domain

import (
	"strings"
	"time"
)

// MealType is one of the four daily meal slots
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// MealTypeAll requests every slot in a recommendation plan
const MealTypeAll = "all"

// TagMainCourse is a catalog meal-type tag that is not a slot of its own
const TagMainCourse = "main course"

// CategoryMainCourse is the catalog category treated as a fit for any main meal
const CategoryMainCourse = "Main Course"

// MealSlots lists the slots in display order
var MealSlots = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

// Dietary preference tags recognized by the catalog
const (
	DietVegetarian  = "vegetarian"
	DietVegan       = "vegan"
	DietGlutenFree  = "gluten-free"
	DietDairyFree   = "dairy-free"
	DietLowCarb     = "low-carb"
	DietHighProtein = "high-protein"
)

// FoodItem is a food catalog entry
type FoodItem struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Category           string           `json:"category"`
	Nutrition          NutritionProfile `json:"nutritionPer100Units"`
	ServingSize        float64          `json:"servingSize"`
	ServingUnit        string           `json:"servingUnit"`
	MealTypes          []string         `json:"mealType"`
	DietaryPreferences []string         `json:"dietaryPreferences"`
	Description        string           `json:"description,omitempty"`
	ImageURL           string           `json:"imageUrl,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// CanonicalMealType maps user or catalog spellings onto a slot.
// "snacks" and "snack" are the same slot.
func CanonicalMealType(s string) (MealType, bool) {
	switch normalizeTag(s) {
	case "breakfast":
		return MealTypeBreakfast, true
	case "lunch":
		return MealTypeLunch, true
	case "dinner":
		return MealTypeDinner, true
	case "snack", "snacks":
		return MealTypeSnack, true
	}
	return "", false
}

// NormalizeTags lowercases, trims, canonicalizes snack spellings and drops
// empty and duplicate tags while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		t := normalizeTag(tag)
		if t == "snacks" {
			t = string(MealTypeSnack)
		}
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// NormalizeFood fills defaults and canonicalizes tags in place
func NormalizeFood(f *FoodItem) {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.Nutrition = f.Nutrition.Sanitized()
	f.ServingSize = nonNegative(f.ServingSize)
	if f.ServingSize == 0 {
		f.ServingSize = 100
	}
	f.ServingUnit = strings.TrimSpace(f.ServingUnit)
	if f.ServingUnit == "" {
		f.ServingUnit = "g"
	}
	f.MealTypes = NormalizeTags(f.MealTypes)
	f.DietaryPreferences = NormalizeTags(f.DietaryPreferences)
}

func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
