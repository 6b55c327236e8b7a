// Package memory holds in-process repositories used by the memory database driver and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nutriscan/backend/internal/domain"
)

// FoodRepository is an in-memory food catalog that keeps insertion order
type FoodRepository struct {
	mu    sync.RWMutex
	foods []domain.FoodItem
}

// NewFoodRepository creates an empty catalog
func NewFoodRepository() *FoodRepository {
	return &FoodRepository{}
}

func (r *FoodRepository) FindCandidates(ctx context.Context, q domain.CatalogQuery) ([]domain.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.FoodItem{}
	for _, f := range r.foods {
		if !q.Matches(f) {
			continue
		}
		out = append(out, f)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (r *FoodRepository) GetByID(ctx context.Context, id string) (*domain.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		food := r.foods[i]
		return &food, nil
	}
	return nil, domain.ErrFoodNotFound
}

func (r *FoodRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.FoodItem, len(ids))
	for _, id := range ids {
		if i := r.indexOf(id); i >= 0 {
			out[id] = r.foods[i]
		}
	}
	return out, nil
}

func (r *FoodRepository) Search(ctx context.Context, text string, limit int) ([]domain.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	words := strings.Fields(strings.ToLower(text))
	out := []domain.FoodItem{}
	for _, f := range r.sortedByName() {
		name, category := strings.ToLower(f.Name), strings.ToLower(f.Category)
		for _, w := range words {
			if strings.Contains(name, w) || strings.Contains(category, w) {
				out = append(out, f)
				break
			}
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *FoodRepository) List(ctx context.Context) ([]domain.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedByName(), nil
}

func (r *FoodRepository) Create(ctx context.Context, food *domain.FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if food.ID == "" {
		food.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	food.CreatedAt, food.UpdatedAt = now, now
	r.foods = append(r.foods, *food)
	return nil
}

func (r *FoodRepository) Update(ctx context.Context, food *domain.FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(food.ID)
	if i < 0 {
		return domain.ErrFoodNotFound
	}
	food.CreatedAt = r.foods[i].CreatedAt
	food.UpdatedAt = time.Now().UTC()
	r.foods[i] = *food
	return nil
}

func (r *FoodRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrFoodNotFound
	}
	r.foods = append(r.foods[:i], r.foods[i+1:]...)
	return nil
}

func (r *FoodRepository) indexOf(id string) int {
	for i, f := range r.foods {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (r *FoodRepository) sortedByName() []domain.FoodItem {
	out := append([]domain.FoodItem(nil), r.foods...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
