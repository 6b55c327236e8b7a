package usecase

import (
	"math"

	"github.com/nutriscan/backend/internal/domain"
)

// Integrity warning reasons
const (
	reasonFoodMissing     = "referenced food no longer exists"
	reasonUnknownMealType = "unknown meal type"
)

// ScaleNutrition converts a per-100-unit profile into the totals for servingSize units.
// Missing nutrients count as zero; a negative or non-finite serving size scales to zero.
func ScaleNutrition(profile domain.NutritionProfile, servingSize float64) domain.MacroTotals {
	if servingSize <= 0 || math.IsNaN(servingSize) || math.IsInf(servingSize, 0) {
		return domain.MacroTotals{}
	}

	p := profile.Sanitized()
	factor := servingSize / 100

	return domain.MacroTotals{
		Calories: p.Calories * factor,
		Protein:  p.Protein * factor,
		Carbs:    p.Carbs * factor,
		Fat:      p.Fat * factor,
	}
}

// AggregateByMealType sums scaled nutrition per meal slot and for the whole day.
//
// Entries whose food could not be resolved, or whose meal type is not a slot, are left out
// and reported in Warnings. The result always carries all four slots, zero when empty.
func AggregateByMealType(entries []domain.ResolvedEntry) domain.DailyTotals {
	totals := domain.DailyTotals{
		ByMealType: make(map[domain.MealType]domain.MacroTotals, len(domain.MealSlots)),
	}
	for _, slot := range domain.MealSlots {
		totals.ByMealType[slot] = domain.MacroTotals{}
	}

	for _, resolved := range entries {
		entry := resolved.Entry

		if resolved.Food == nil {
			totals.Warnings = append(totals.Warnings, domain.IntegrityWarning{
				EntryID: entry.ID,
				FoodID:  entry.FoodID,
				Reason:  reasonFoodMissing,
			})
			continue
		}

		slot, ok := domain.CanonicalMealType(string(entry.MealType))
		if !ok {
			totals.Warnings = append(totals.Warnings, domain.IntegrityWarning{
				EntryID: entry.ID,
				FoodID:  entry.FoodID,
				Reason:  reasonUnknownMealType,
			})
			continue
		}

		scaled := ScaleNutrition(resolved.Food.Nutrition, entry.ServingSize)
		totals.ByMealType[slot] = totals.ByMealType[slot].Add(scaled)
		totals.GrandTotal = totals.GrandTotal.Add(scaled)
		totals.EntryCount++
	}

	return totals
}
