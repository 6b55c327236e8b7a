package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for meal entries
const DateLayout = "2006-01-02"

// MealEntry is one logged food in a user's day
type MealEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	FoodID      string    `json:"foodId"`
	MealType    MealType  `json:"mealType"`
	ServingSize float64   `json:"servingSize"`
	ServingUnit string    `json:"servingUnit"`
	Date        string    `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MealWithFood is a meal entry together with its resolved food and scaled nutrition.
// Food is nil when the referenced catalog entry no longer exists.
type MealWithFood struct {
	MealEntry
	Food      *FoodItem   `json:"food"`
	Nutrition MacroTotals `json:"nutrition"`
}

// ResolvedEntry pairs a meal entry with its food for aggregation
type ResolvedEntry struct {
	Entry MealEntry
	Food  *FoodItem
}

// IntegrityWarning reports a meal entry that was left out of a total
type IntegrityWarning struct {
	EntryID string `json:"entryId"`
	FoodID  string `json:"foodId"`
	Reason  string `json:"reason"`
}

// DailyTotals is the per-slot and per-day nutrition sum for a user's date
type DailyTotals struct {
	Date       string                   `json:"date,omitempty"`
	ByMealType map[MealType]MacroTotals `json:"byMealType"`
	GrandTotal MacroTotals              `json:"grandTotal"`
	EntryCount int                      `json:"entryCount"`
	Warnings   []IntegrityWarning       `json:"warnings,omitempty"`
}

// ParseDate validates a calendar date and returns it in DateLayout.
// Full RFC3339 timestamps are accepted and truncated to their date.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", NewValidationError("date", "must be YYYY-MM-DD")
	}
	return t.UTC().Format(DateLayout), nil
}
