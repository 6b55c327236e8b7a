package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nutriscan/backend/internal/domain"
)

// WaterRepository is an in-memory water intake store
type WaterRepository struct {
	mu      sync.RWMutex
	intakes map[string]domain.WaterIntake
}

// NewWaterRepository creates an empty water store
func NewWaterRepository() *WaterRepository {
	return &WaterRepository{intakes: make(map[string]domain.WaterIntake)}
}

func (r *WaterRepository) Create(ctx context.Context, intake *domain.WaterIntake) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if intake.ID == "" {
		intake.ID = uuid.NewString()
	}
	intake.CreatedAt = time.Now().UTC()
	r.intakes[intake.ID] = *intake
	return nil
}

func (r *WaterRepository) List(ctx context.Context, userID string, from, to *time.Time) ([]domain.WaterIntake, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.WaterIntake{}
	for _, w := range r.intakes {
		if w.UserID != userID {
			continue
		}
		if from != nil && w.Date.Before(*from) {
			continue
		}
		if to != nil && w.Date.After(*to) {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *WaterRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.intakes[id]
	if !ok || w.UserID != userID {
		return domain.ErrWaterNotFound
	}
	delete(r.intakes, id)
	return nil
}
