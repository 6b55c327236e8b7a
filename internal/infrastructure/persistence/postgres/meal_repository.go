package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutriscan/backend/internal/domain"
)

// MealRepository stores meal entries in PostgreSQL
type MealRepository struct {
	db *gorm.DB
}

// NewMealRepository creates a meal repository backed by db
func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{db: db}
}

func (r *MealRepository) Create(ctx context.Context, entry *domain.MealEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	record := newMealRecord(entry)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return err
	}
	entry.CreatedAt, entry.UpdatedAt = record.CreatedAt, record.UpdatedAt
	return nil
}

func (r *MealRepository) Update(ctx context.Context, entry *domain.MealEntry) error {
	record := newMealRecord(entry)
	record.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&mealRecord{}).
		Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
		Select("*").Omit("id", "user_id", "created_at").
		Updates(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMealNotFound
	}
	entry.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *MealRepository) GetByID(ctx context.Context, userID, id string) (*domain.MealEntry, error) {
	var record mealRecord
	err := r.db.WithContext(ctx).First(&record, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, translate(err, domain.ErrMealNotFound)
	}
	entry := record.toDomain()
	return &entry, nil
}

func (r *MealRepository) ListByUser(ctx context.Context, userID string) ([]domain.MealEntry, error) {
	return r.find(ctx, r.db.Where("user_id = ?", userID).Order("date DESC, created_at DESC"))
}

func (r *MealRepository) ListByDate(ctx context.Context, userID, date string) ([]domain.MealEntry, error) {
	return r.find(ctx, r.db.Where("user_id = ? AND date = ?", userID, date).Order("created_at ASC"))
}

func (r *MealRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Delete(&mealRecord{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMealNotFound
	}
	return nil
}

func (r *MealRepository) DeleteByDate(ctx context.Context, userID, date string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&mealRecord{}, "user_id = ? AND date = ?", userID, date)
	return result.RowsAffected, result.Error
}

func (r *MealRepository) find(ctx context.Context, tx *gorm.DB) ([]domain.MealEntry, error) {
	var records []mealRecord
	if err := tx.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	entries := make([]domain.MealEntry, 0, len(records))
	for i := range records {
		entries = append(entries, records[i].toDomain())
	}
	return entries, nil
}
