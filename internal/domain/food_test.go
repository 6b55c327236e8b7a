package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalMealType(t *testing.T) {
	tests := []struct {
		input string
		want  MealType
		ok    bool
	}{
		{"breakfast", MealTypeBreakfast, true},
		{" Lunch ", MealTypeLunch, true},
		{"DINNER", MealTypeDinner, true},
		{"snack", MealTypeSnack, true},
		{"snacks", MealTypeSnack, true},
		{"Snacks", MealTypeSnack, true},
		{"brunch", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := CanonicalMealType(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Breakfast", "snacks", "snack", "", "Main Course", "breakfast"})
	assert.Equal(t, []string{"breakfast", "snack", "main course"}, got)

	assert.Empty(t, NormalizeTags(nil))
}

func TestNormalizeFood(t *testing.T) {
	food := FoodItem{
		Name:     "  Oatmeal ",
		Category: " Breakfast ",
		Nutrition: NutritionProfile{
			Calories: 307,
			Protein:  -1,
			Carbs:    math.NaN(),
		},
		MealTypes:          []string{"Breakfast", "Snacks"},
		DietaryPreferences: []string{"Vegetarian"},
	}

	NormalizeFood(&food)

	assert.Equal(t, "Oatmeal", food.Name)
	assert.Equal(t, "Breakfast", food.Category)
	assert.Equal(t, 307.0, food.Nutrition.Calories)
	assert.Zero(t, food.Nutrition.Protein)
	assert.Zero(t, food.Nutrition.Carbs)
	assert.Equal(t, 100.0, food.ServingSize)
	assert.Equal(t, "g", food.ServingUnit)
	assert.Equal(t, []string{"breakfast", "snack"}, food.MealTypes)
	assert.Equal(t, []string{"vegetarian"}, food.DietaryPreferences)
}

func TestMacroTotals(t *testing.T) {
	a := MacroTotals{Calories: 100, Protein: 10, Carbs: 20, Fat: 5}
	b := MacroTotals{Calories: 50, Protein: 1, Carbs: 2, Fat: 3}

	assert.Equal(t, MacroTotals{Calories: 150, Protein: 11, Carbs: 22, Fat: 8}, a.Add(b))
	assert.Equal(t, MacroTotals{Calories: 200, Protein: 20, Carbs: 40, Fat: 10}, a.Scale(2))
}
