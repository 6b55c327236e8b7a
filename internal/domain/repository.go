package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FoodCatalog is the food database. Lookups by id return ErrFoodNotFound on a miss.
type FoodCatalog interface {
	FindCandidates(ctx context.Context, query CatalogQuery) ([]FoodItem, error)
	GetByID(ctx context.Context, id string) (*FoodItem, error)
	// GetByIDs returns the foods that exist, keyed by id; missing ids are simply absent
	GetByIDs(ctx context.Context, ids []string) (map[string]FoodItem, error)
	Search(ctx context.Context, text string, limit int) ([]FoodItem, error)
	List(ctx context.Context) ([]FoodItem, error)
	Create(ctx context.Context, food *FoodItem) error
	Update(ctx context.Context, food *FoodItem) error
	Delete(ctx context.Context, id string) error
}

// MealRepository persists meal entries. Every lookup is scoped to the owner.
type MealRepository interface {
	Create(ctx context.Context, entry *MealEntry) error
	Update(ctx context.Context, entry *MealEntry) error
	GetByID(ctx context.Context, userID, id string) (*MealEntry, error)
	ListByUser(ctx context.Context, userID string) ([]MealEntry, error)
	ListByDate(ctx context.Context, userID, date string) ([]MealEntry, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteByDate(ctx context.Context, userID, date string) (int64, error)
}

// UserRepository persists accounts
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	// List returns users whose name or email contains search, case-insensitively
	List(ctx context.Context, search string) ([]User, error)
	Delete(ctx context.Context, id string) error
}

// WaterRepository persists water intake records
type WaterRepository interface {
	Create(ctx context.Context, intake *WaterIntake) error
	// List returns the user's records newest first, bounded by from/to when set (inclusive)
	List(ctx context.Context, userID string, from, to *time.Time) ([]WaterIntake, error)
	Delete(ctx context.Context, userID, id string) error
}

// FoodRecognizer identifies the food shown in an image
type FoodRecognizer interface {
	Recognize(ctx context.Context, image Image) (*Recognition, error)
}

// ImageStore keeps uploaded images and returns a URL they can be fetched from
type ImageStore interface {
	Save(ctx context.Context, image Image) (string, error)
}

// ChatClient sends one user message with a system prompt to a language model
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, message string) (string, error)
}

// EventPublisher pushes events to a user's live connections
type EventPublisher interface {
	Publish(userID string, event Event)
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer creates and verifies access tokens
type TokenIssuer interface {
	Issue(user User) (string, time.Time, error)
	Parse(token string) (*AuthClaims, error)
}
