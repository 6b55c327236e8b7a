package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/nutriscan/backend/internal/domain"
)

// FoodRepository is the PostgreSQL food catalog
type FoodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a catalog backed by db
func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

// FindCandidates runs a CatalogQuery as a single SELECT in insertion order
func (r *FoodRepository) FindCandidates(ctx context.Context, q domain.CatalogQuery) ([]domain.FoodItem, error) {
	tx := r.db.WithContext(ctx).Model(&foodRecord{})

	tags := pq.StringArray(lowerAll(q.MealTypes))
	categories := lowerAll(q.Categories)
	switch {
	case len(tags) > 0 && len(categories) > 0:
		tx = tx.Where("(meal_types && ? OR lower(category) IN ?)", tags, categories)
	case len(tags) > 0:
		tx = tx.Where("meal_types && ?", tags)
	case len(categories) > 0:
		tx = tx.Where("lower(category) IN ?", categories)
	}

	tx = tx.Where("calories BETWEEN ? AND ?", q.MinCalories, q.MaxCalories)

	if prefs := lowerAll(q.DietaryPreferences); len(prefs) > 0 {
		tx = tx.Where("dietary_preferences && ?", pq.StringArray(prefs))
	}
	if excluded := lowerAll(q.ExcludedCategories); len(excluded) > 0 {
		tx = tx.Where("lower(category) NOT IN ?", excluded)
	}
	if len(q.ExcludedIDs) > 0 {
		tx = tx.Where("id NOT IN ?", q.ExcludedIDs)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var records []foodRecord
	if err := tx.Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	return toFoods(records), nil
}

// GetByID returns one food
func (r *FoodRepository) GetByID(ctx context.Context, id string) (*domain.FoodItem, error) {
	var record foodRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err, domain.ErrFoodNotFound)
	}
	food := record.toDomain()
	return &food, nil
}

// GetByIDs returns the foods that exist among ids
func (r *FoodRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.FoodItem, error) {
	out := make(map[string]domain.FoodItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var records []foodRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for i := range records {
		out[records[i].ID] = records[i].toDomain()
	}
	return out, nil
}

// Search matches any word of text against name or category, case-insensitively
func (r *FoodRepository) Search(ctx context.Context, text string, limit int) ([]domain.FoodItem, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []domain.FoodItem{}, nil
	}

	clauses := make([]string, 0, len(words))
	args := make([]interface{}, 0, 2*len(words))
	for _, w := range words {
		pattern := likePattern(w)
		clauses = append(clauses, "name ILIKE ? OR category ILIKE ?")
		args = append(args, pattern, pattern)
	}

	tx := r.db.WithContext(ctx).
		Where("("+strings.Join(clauses, " OR ")+")", args...).
		Order("name ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var records []foodRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	return toFoods(records), nil
}

// List returns the whole catalog by name
func (r *FoodRepository) List(ctx context.Context) ([]domain.FoodItem, error) {
	var records []foodRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toFoods(records), nil
}

// Create inserts a food and assigns its id and timestamps
func (r *FoodRepository) Create(ctx context.Context, food *domain.FoodItem) error {
	if food.ID == "" {
		food.ID = uuid.NewString()
	}
	record := newFoodRecord(food)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return err
	}
	food.CreatedAt, food.UpdatedAt = record.CreatedAt, record.UpdatedAt
	return nil
}

// Update overwrites every column of an existing food
func (r *FoodRepository) Update(ctx context.Context, food *domain.FoodItem) error {
	record := newFoodRecord(food)
	record.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).Model(&foodRecord{ID: food.ID}).Select("*").Omit("id", "created_at").Updates(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrFoodNotFound
	}
	food.UpdatedAt = record.UpdatedAt
	return nil
}

// Delete removes a food
func (r *FoodRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&foodRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrFoodNotFound
	}
	return nil
}

func toFoods(records []foodRecord) []domain.FoodItem {
	foods := make([]domain.FoodItem, 0, len(records))
	for i := range records {
		foods = append(foods, records[i].toDomain())
	}
	return foods
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// likePattern escapes LIKE wildcards and wraps s for a contains match
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
