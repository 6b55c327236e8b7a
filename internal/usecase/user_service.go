package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

// ProfileInput changes the profile fields that are set
type ProfileInput struct {
	Name          *string  `json:"name"`
	Height        *float64 `json:"height"`
	Weight        *float64 `json:"weight"`
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activityLevel"`
}

// ChangePasswordInput replaces a user's password
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserService manages profiles and, for admins, accounts
type UserService struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	logger *zap.Logger
}

// NewUserService creates a user service
func NewUserService(users domain.UserRepository, hasher domain.PasswordHasher, log *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		logger: logger.OrNop(log).Named("users"),
	}
}

// GetProfile returns the user's account
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile validates and applies profile changes
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "must not be empty")
		}
		user.Name = name
	}
	if in.Height != nil {
		if err := validateNonNegative("height", *in.Height); err != nil {
			return nil, err
		}
		user.Height = *in.Height
	}
	if in.Weight != nil {
		if err := validateNonNegative("weight", *in.Weight); err != nil {
			return nil, err
		}
		user.Weight = *in.Weight
	}
	if in.Age != nil {
		if *in.Age < 0 || *in.Age > 150 {
			return nil, domain.NewValidationError("age", "must be between 0 and 150")
		}
		user.Age = *in.Age
	}
	if in.Gender != nil {
		gender := strings.ToLower(strings.TrimSpace(*in.Gender))
		if !containsFold(domain.Genders, gender) {
			return nil, domain.NewValidationError("gender", "must be one of "+strings.Join(domain.Genders, ", "))
		}
		user.Gender = gender
	}
	if in.ActivityLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*in.ActivityLevel))
		if !containsFold(domain.ActivityLevels, level) {
			return nil, domain.NewValidationError("activityLevel", "must be one of "+strings.Join(domain.ActivityLevels, ", "))
		}
		user.ActivityLevel = level
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateGoals replaces the user's goals
func (s *UserService) UpdateGoals(ctx context.Context, userID string, goals domain.Goals) (*domain.User, error) {
	for _, v := range []struct {
		field string
		value float64
	}{
		{"targetWeight", goals.TargetWeight},
		{"targetCalories", goals.TargetCalories},
		{"targetProtein", goals.TargetProtein},
		{"targetCarbs", goals.TargetCarbs},
		{"targetFat", goals.TargetFat},
		{"targetWater", goals.TargetWater},
	} {
		if err := validateNonNegative(v.field, v.value); err != nil {
			return nil, err
		}
	}
	if math.IsNaN(goals.WeeklyGoal) || math.IsInf(goals.WeeklyGoal, 0) {
		return nil, domain.NewValidationError("weeklyGoal", "must be a number")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Goals = goals

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if in.CurrentPassword == "" {
		return domain.NewValidationError("currentPassword", "is required")
	}
	if err := validatePassword("newPassword", in.NewPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(user.PasswordHash, in.CurrentPassword) {
		return domain.NewValidationError("currentPassword", "is incorrect")
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

// ListUsers returns accounts whose name or email contains search
func (s *UserService) ListUsers(ctx context.Context, search string) ([]domain.User, error) {
	users, err := s.users.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return domain.NewValidationError("id", "cannot delete your own account")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", userID), zap.String("by", actorID))
	return nil
}

func validateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return domain.NewValidationError(field, "must be a non-negative number")
	}
	return nil
}
