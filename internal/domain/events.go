package domain

// Event types pushed to a user's live connections
const (
	EventMealLogged   = "meal.logged"
	EventMealUpdated  = "meal.updated"
	EventMealDeleted  = "meal.deleted"
	EventWaterLogged  = "water.logged"
	EventWaterDeleted = "water.deleted"
)

// Event is a notification about a change to a user's data
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
