package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutriscan/backend/internal/domain"
)

// UserRepository stores accounts in PostgreSQL
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository backed by db
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	record := newUserRecord(user)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return err
	}
	user.CreatedAt, user.UpdatedAt = record.CreatedAt, record.UpdatedAt
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	record := newUserRecord(user)
	record.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).Model(&userRecord{ID: user.ID}).Select("*").Omit("id", "created_at").Updates(record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *UserRepository) List(ctx context.Context, search string) ([]domain.User, error) {
	tx := r.db.WithContext(ctx).Order("created_at DESC")
	if search != "" {
		pattern := likePattern(search)
		tx = tx.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var records []userRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&userRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		if err := tx.Delete(&mealRecord{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&waterRecord{}, "user_id = ?", id).Error
	})
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		return nil, translate(err, domain.ErrUserNotFound)
	}
	user := record.toDomain()
	return &user, nil
}
