package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutriscan/backend/internal/domain"
)

// WaterRepository stores water intakes in PostgreSQL
type WaterRepository struct {
	db *gorm.DB
}

// NewWaterRepository creates a water repository backed by db
func NewWaterRepository(db *gorm.DB) *WaterRepository {
	return &WaterRepository{db: db}
}

func (r *WaterRepository) Create(ctx context.Context, intake *domain.WaterIntake) error {
	if intake.ID == "" {
		intake.ID = uuid.NewString()
	}
	record := newWaterRecord(intake)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return err
	}
	intake.CreatedAt = record.CreatedAt
	return nil
}

func (r *WaterRepository) List(ctx context.Context, userID string, from, to *time.Time) ([]domain.WaterIntake, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != nil {
		tx = tx.Where("date >= ?", *from)
	}
	if to != nil {
		tx = tx.Where("date <= ?", *to)
	}

	var records []waterRecord
	if err := tx.Order("date DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	intakes := make([]domain.WaterIntake, 0, len(records))
	for i := range records {
		intakes = append(intakes, records[i].toDomain())
	}
	return intakes, nil
}

func (r *WaterRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Delete(&waterRecord{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrWaterNotFound
	}
	return nil
}
