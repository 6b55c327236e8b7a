package domain

import "math"

// NutritionProfile holds nutrient amounts per 100 units of a food's serving unit
type NutritionProfile struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"` // grams
	Carbs    float64 `json:"carbs"`   // grams
	Fat      float64 `json:"fat"`     // grams
	Fiber    float64 `json:"fiber"`   // grams
}

// Sanitized returns a copy where missing, negative or non-finite values are zero
func (p NutritionProfile) Sanitized() NutritionProfile {
	return NutritionProfile{
		Calories: nonNegative(p.Calories),
		Protein:  nonNegative(p.Protein),
		Carbs:    nonNegative(p.Carbs),
		Fat:      nonNegative(p.Fat),
		Fiber:    nonNegative(p.Fiber),
	}
}

// MacroTotals is the calorie and macronutrient sum for some amount of food
type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the element-wise sum of t and other
func (t MacroTotals) Add(other MacroTotals) MacroTotals {
	return MacroTotals{
		Calories: t.Calories + other.Calories,
		Protein:  t.Protein + other.Protein,
		Carbs:    t.Carbs + other.Carbs,
		Fat:      t.Fat + other.Fat,
	}
}

// Scale returns t with every value multiplied by factor
func (t MacroTotals) Scale(factor float64) MacroTotals {
	return MacroTotals{
		Calories: t.Calories * factor,
		Protein:  t.Protein * factor,
		Carbs:    t.Carbs * factor,
		Fat:      t.Fat * factor,
	}
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
