package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

// LogMealInput is a new meal entry. Zero serving fields fall back to the food's
// own serving, an empty date to today and an empty meal type to lunch.
type LogMealInput struct {
	FoodID      string  `json:"foodId"`
	MealType    string  `json:"mealType"`
	ServingSize float64 `json:"servingSize"`
	ServingUnit string  `json:"servingUnit"`
	Date        string  `json:"date"`
	Notes       string  `json:"notes"`
}

// UpdateMealInput changes the fields that are set
type UpdateMealInput struct {
	FoodID      *string  `json:"foodId"`
	MealType    *string  `json:"mealType"`
	ServingSize *float64 `json:"servingSize"`
	ServingUnit *string  `json:"servingUnit"`
	Date        *string  `json:"date"`
	Notes       *string  `json:"notes"`
}

// MealService manages a user's meal log and daily nutrition summaries
type MealService struct {
	meals     domain.MealRepository
	catalog   domain.FoodCatalog
	publisher domain.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewMealService creates a meal service. A nil publisher drops events.
func NewMealService(
	meals domain.MealRepository,
	catalog domain.FoodCatalog,
	publisher domain.EventPublisher,
	log *zap.Logger,
) *MealService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &MealService{
		meals:     meals,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger.OrNop(log).Named("meals"),
		now:       time.Now,
	}
}

// LogMeal records a food eaten by the user
func (s *MealService) LogMeal(ctx context.Context, userID string, in LogMealInput) (*domain.MealWithFood, error) {
	foodID := strings.TrimSpace(in.FoodID)
	if foodID == "" {
		return nil, domain.NewValidationError("foodId", "is required")
	}

	mealType := domain.MealTypeLunch
	if strings.TrimSpace(in.MealType) != "" {
		slot, err := parseMealType(in.MealType)
		if err != nil {
			return nil, err
		}
		mealType = slot
	}

	date := s.today()
	if strings.TrimSpace(in.Date) != "" {
		d, err := domain.ParseDate(in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}

	if in.ServingSize < 0 {
		return nil, domain.NewValidationError("servingSize", "must not be negative")
	}

	food, err := s.lookupFood(ctx, foodID)
	if err != nil {
		return nil, err
	}

	entry := &domain.MealEntry{
		UserID:      userID,
		FoodID:      food.ID,
		MealType:    mealType,
		ServingSize: in.ServingSize,
		ServingUnit: strings.TrimSpace(in.ServingUnit),
		Date:        date,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if entry.ServingSize == 0 {
		entry.ServingSize = food.ServingSize
	}
	if entry.ServingUnit == "" {
		entry.ServingUnit = food.ServingUnit
	}

	if err := s.meals.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save meal: %w", err)
	}

	result := withFood(*entry, food)
	s.publisher.Publish(userID, domain.Event{Type: domain.EventMealLogged, Data: result})
	s.logger.Debug("meal logged", zap.String("user_id", userID), zap.String("meal_id", entry.ID))

	return result, nil
}

// UpdateMeal changes an existing entry owned by the user
func (s *MealService) UpdateMeal(
	ctx context.Context,
	userID, id string,
	in UpdateMealInput,
) (*domain.MealWithFood, error) {
	entry, err := s.meals.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.FoodID != nil {
		foodID := strings.TrimSpace(*in.FoodID)
		if foodID == "" {
			return nil, domain.NewValidationError("foodId", "must not be empty")
		}
		entry.FoodID = foodID
	}
	if in.MealType != nil {
		slot, err := parseMealType(*in.MealType)
		if err != nil {
			return nil, err
		}
		entry.MealType = slot
	}
	if in.ServingSize != nil {
		if *in.ServingSize <= 0 {
			return nil, domain.NewValidationError("servingSize", "must be a positive number")
		}
		entry.ServingSize = *in.ServingSize
	}
	if in.ServingUnit != nil {
		entry.ServingUnit = strings.TrimSpace(*in.ServingUnit)
	}
	if in.Date != nil {
		d, err := domain.ParseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		entry.Date = d
	}
	if in.Notes != nil {
		entry.Notes = strings.TrimSpace(*in.Notes)
	}

	food, err := s.lookupFood(ctx, entry.FoodID)
	if err != nil {
		return nil, err
	}

	if err := s.meals.Update(ctx, entry); err != nil {
		return nil, err
	}

	result := withFood(*entry, food)
	s.publisher.Publish(userID, domain.Event{Type: domain.EventMealUpdated, Data: result})
	return result, nil
}

// DeleteMeal removes one of the user's entries
func (s *MealService) DeleteMeal(ctx context.Context, userID, id string) error {
	if err := s.meals.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.publisher.Publish(userID, domain.Event{Type: domain.EventMealDeleted, Data: map[string]string{"id": id}})
	return nil
}

// ListMeals returns every entry of the user, newest date first
func (s *MealService) ListMeals(ctx context.Context, userID string) ([]domain.MealWithFood, error) {
	entries, err := s.meals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return s.attachFoods(ctx, entries)
}

// MealsByDate returns the user's entries for one calendar date
func (s *MealService) MealsByDate(ctx context.Context, userID, date string) ([]domain.MealWithFood, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}

	entries, err := s.meals.ListByDate(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	return s.attachFoods(ctx, entries)
}

// ResetDay deletes all of the user's entries for a date and returns how many were removed
func (s *MealService) ResetDay(ctx context.Context, userID, date string) (int64, error) {
	if strings.TrimSpace(date) == "" {
		return 0, domain.NewValidationError("date", "is required")
	}
	day, err := domain.ParseDate(date)
	if err != nil {
		return 0, err
	}

	n, err := s.meals.DeleteByDate(ctx, userID, day)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publisher.Publish(userID, domain.Event{
			Type: domain.EventMealDeleted,
			Data: map[string]interface{}{"date": day, "count": n},
		})
	}
	return n, nil
}

// DailySummary aggregates the user's entries for a date, today when empty
func (s *MealService) DailySummary(ctx context.Context, userID, date string) (*domain.DailyTotals, error) {
	day := s.today()
	if strings.TrimSpace(date) != "" {
		d, err := domain.ParseDate(date)
		if err != nil {
			return nil, err
		}
		day = d
	}

	entries, err := s.meals.ListByDate(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolve(ctx, entries)
	if err != nil {
		return nil, err
	}

	totals := AggregateByMealType(resolved)
	totals.Date = day

	for _, w := range totals.Warnings {
		s.logger.Warn("meal entry skipped in daily total",
			zap.String("user_id", userID),
			zap.String("entry_id", w.EntryID),
			zap.String("food_id", w.FoodID),
			zap.String("reason", w.Reason))
	}

	return &totals, nil
}

func (s *MealService) lookupFood(ctx context.Context, id string) (*domain.FoodItem, error) {
	food, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrFoodNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return food, nil
}

func (s *MealService) resolve(ctx context.Context, entries []domain.MealEntry) ([]domain.ResolvedEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.FoodID)
	}
	foods, err := s.catalog.GetByIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	resolved := make([]domain.ResolvedEntry, 0, len(entries))
	for _, e := range entries {
		r := domain.ResolvedEntry{Entry: e}
		if f, ok := foods[e.FoodID]; ok {
			food := f
			r.Food = &food
		}
		resolved = append(resolved, r)
	}
	return resolved, nil
}

func (s *MealService) attachFoods(ctx context.Context, entries []domain.MealEntry) ([]domain.MealWithFood, error) {
	resolved, err := s.resolve(ctx, entries)
	if err != nil {
		return nil, err
	}

	out := make([]domain.MealWithFood, 0, len(resolved))
	for _, r := range resolved {
		out = append(out, *withFood(r.Entry, r.Food))
	}
	return out, nil
}

func (s *MealService) today() string {
	return s.now().Format(domain.DateLayout)
}

func withFood(entry domain.MealEntry, food *domain.FoodItem) *domain.MealWithFood {
	m := &domain.MealWithFood{MealEntry: entry, Food: food}
	if food != nil {
		m.Nutrition = ScaleNutrition(food.Nutrition, entry.ServingSize)
	}
	return m
}

func parseMealType(s string) (domain.MealType, error) {
	slot, ok := domain.CanonicalMealType(s)
	if !ok {
		return "", domain.NewValidationError("mealType", "must be one of breakfast, lunch, dinner, snack")
	}
	return slot, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, domain.Event) {}
