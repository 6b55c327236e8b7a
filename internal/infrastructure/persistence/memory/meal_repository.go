package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nutriscan/backend/internal/domain"
)

// MealRepository is an in-memory meal store
type MealRepository struct {
	mu      sync.RWMutex
	entries map[string]domain.MealEntry
}

// NewMealRepository creates an empty meal store
func NewMealRepository() *MealRepository {
	return &MealRepository{entries: make(map[string]domain.MealEntry)}
}

func (r *MealRepository) Create(ctx context.Context, entry *domain.MealEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt, entry.UpdatedAt = now, now
	r.entries[entry.ID] = *entry
	return nil
}

func (r *MealRepository) Update(ctx context.Context, entry *domain.MealEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return domain.ErrMealNotFound
	}
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = time.Now().UTC()
	r.entries[entry.ID] = *entry
	return nil
}

func (r *MealRepository) GetByID(ctx context.Context, userID, id string) (*domain.MealEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return nil, domain.ErrMealNotFound
	}
	return &entry, nil
}

func (r *MealRepository) ListByUser(ctx context.Context, userID string) ([]domain.MealEntry, error) {
	return r.filter(func(e domain.MealEntry) bool { return e.UserID == userID }), nil
}

func (r *MealRepository) ListByDate(ctx context.Context, userID, date string) ([]domain.MealEntry, error) {
	return r.filter(func(e domain.MealEntry) bool { return e.UserID == userID && e.Date == date }), nil
}

func (r *MealRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return domain.ErrMealNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *MealRepository) DeleteByDate(ctx context.Context, userID, date string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, e := range r.entries {
		if e.UserID == userID && e.Date == date {
			delete(r.entries, id)
			n++
		}
	}
	return n, nil
}

func (r *MealRepository) filter(keep func(domain.MealEntry) bool) []domain.MealEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.MealEntry{}
	for _, e := range r.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
