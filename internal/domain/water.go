package domain

import "time"

// Water units
const (
	WaterUnitMilliliter = "ml"
	WaterUnitLiter      = "L"
)

// WaterIntake is one logged drink
type WaterIntake struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"createdAt"`
}

// Milliliters returns the intake amount converted to ml
func (w WaterIntake) Milliliters() float64 {
	if w.Unit == WaterUnitLiter {
		return w.Amount * 1000
	}
	return w.Amount
}

// WaterSummary is a day's total intake
type WaterSummary struct {
	TotalIntake float64       `json:"totalIntake"`
	Unit        string        `json:"unit"`
	Intakes     []WaterIntake `json:"intakes"`
}
