package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

// Share of the daily calories assigned to each slot
const (
	breakfastShare = 0.25
	lunchShare     = 0.35
	dinnerShare    = 0.30
	snackShare     = 0.10
)

// Share of the daily calories assigned to each macronutrient
const (
	proteinShare = 0.30
	carbsShare   = 0.45
	fatShare     = 0.25
)

// Energy density in kcal per gram
const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// Candidate search bands, as multiples of the slot budget, and result caps.
// The alternatives path uses a narrower upper bound than the plan path.
const (
	candidateMinFactor    = 0.3
	candidateMaxFactor    = 2.5
	alternativesMaxFactor = 2.0
	candidateLimit        = 4
	alternativesLimit     = 5
)

// mealTypeAlternatives widens a slot to the catalog tags that also suit it
var mealTypeAlternatives = map[domain.MealType][]string{
	domain.MealTypeBreakfast: {"breakfast", "snack"},
	domain.MealTypeLunch:     {"lunch", "dinner", domain.TagMainCourse},
	domain.MealTypeDinner:    {"dinner", "lunch", domain.TagMainCourse},
	domain.MealTypeSnack:     {"snack", "breakfast"},
}

// CandidateFilter holds the caller's inclusion and exclusion filters
type CandidateFilter struct {
	DietaryPreferences []string
	ExcludedCategories []string
}

// DietRecommender turns a maintenance-calorie target into a daily meal plan
type DietRecommender struct {
	catalog domain.FoodCatalog
	logger  *zap.Logger
}

// NewDietRecommender creates a recommender backed by the food catalog
func NewDietRecommender(catalog domain.FoodCatalog, log *zap.Logger) *DietRecommender {
	return &DietRecommender{
		catalog: catalog,
		logger:  logger.OrNop(log).Named("recommender"),
	}
}

// DistributeMealCalories splits the daily target 25/35/30/10 across the slots.
// Each slot is rounded on its own, so the sum may drift from the input by up to 2.
func DistributeMealCalories(maintenanceCalories float64) domain.MealCalories {
	return domain.MealCalories{
		Breakfast: roundInt(maintenanceCalories * breakfastShare),
		Lunch:     roundInt(maintenanceCalories * lunchShare),
		Dinner:    roundInt(maintenanceCalories * dinnerShare),
		Snack:     roundInt(maintenanceCalories * snackShare),
	}
}

// CalculateMacroTargets derives gram targets from a 30/45/25 protein/carbs/fat split
func CalculateMacroTargets(calories float64) domain.MacroTargets {
	return domain.MacroTargets{
		Protein: roundInt(calories * proteinShare / kcalPerGramProtein),
		Carbs:   roundInt(calories * carbsShare / kcalPerGramCarbs),
		Fat:     roundInt(calories * fatShare / kcalPerGramFat),
	}
}

// MealTypeAlternatives returns the catalog tags searched for a meal type.
// Unknown meal types fall back to themselves.
func MealTypeAlternatives(mealType string) []string {
	if slot, ok := domain.CanonicalMealType(mealType); ok {
		alternatives := mealTypeAlternatives[slot]
		return append([]string(nil), alternatives...)
	}
	return []string{mealType}
}

// FindCandidates returns up to four catalog foods plausible for a slot budget.
// Results keep catalog order.
func (r *DietRecommender) FindCandidates(
	ctx context.Context,
	filter CandidateFilter,
	mealType domain.MealType,
	targetCalories float64,
) ([]domain.FoodItem, error) {
	query := candidateQuery(filter, mealType, targetCalories)
	return r.search(ctx, query)
}

// GetRecommendations computes budgets, macro targets and candidates for one slot or all four.
// Either every requested slot is filled or the whole request fails.
func (r *DietRecommender) GetRecommendations(
	ctx context.Context,
	request domain.RecommendationRequest,
) (*domain.RecommendationPlan, error) {
	if err := validatePositive("maintenanceCalories", request.MaintenanceCalories); err != nil {
		return nil, err
	}

	slots, err := requestedSlots(request.MealType)
	if err != nil {
		return nil, err
	}

	mealCalories := DistributeMealCalories(request.MaintenanceCalories)
	macroTargets := CalculateMacroTargets(request.MaintenanceCalories)
	filter := CandidateFilter{
		DietaryPreferences: domain.NormalizeTags(request.DietaryPreferences),
		ExcludedCategories: trimAll(request.ExcludedCategories),
	}

	results := make([][]domain.FoodItem, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	for i, slot := range slots {
		g.Go(func() error {
			foods, err := r.FindCandidates(gctx, filter, slot, float64(mealCalories.For(slot)))
			if err != nil {
				return err
			}
			results[i] = foods
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.logger.Error("recommendation failed", zap.Error(err), zap.String("meal_type", request.MealType))
		return nil, err
	}

	plan := &domain.RecommendationPlan{
		MealCalories:    make(map[domain.MealType]int, len(slots)),
		MacroTargets:    macroTargets,
		Recommendations: make(map[domain.MealType][]domain.FoodItem, len(slots)),
	}
	for i, slot := range slots {
		plan.MealCalories[slot] = mealCalories.For(slot)
		plan.Recommendations[slot] = results[i]
	}

	r.logger.Debug("recommendation built",
		zap.Float64("maintenance_calories", request.MaintenanceCalories),
		zap.Int("slots", len(slots)))

	return plan, nil
}

// GetAlternatives returns up to five swap candidates for one slot, skipping excluded foods
func (r *DietRecommender) GetAlternatives(
	ctx context.Context,
	request domain.AlternativesRequest,
) ([]domain.FoodItem, error) {
	mealType := strings.TrimSpace(request.MealType)
	if mealType == "" {
		return nil, domain.NewValidationError("mealType", "is required")
	}
	if err := validatePositive("targetCalories", request.TargetCalories); err != nil {
		return nil, err
	}

	query := alternativesQuery(request)
	return r.search(ctx, query)
}

func (r *DietRecommender) search(ctx context.Context, query domain.CatalogQuery) ([]domain.FoodItem, error) {
	foods, err := r.catalog.FindCandidates(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	if len(foods) > query.Limit {
		foods = foods[:query.Limit]
	}
	if foods == nil {
		foods = []domain.FoodItem{}
	}
	return foods, nil
}

// candidateQuery builds the plan-path filter: slot tags or a matching category,
// the [0.3x, 2.5x] band, and the caller's filters.
func candidateQuery(filter CandidateFilter, mealType domain.MealType, targetCalories float64) domain.CatalogQuery {
	tags := uniqueStrings(append([]string{string(mealType)}, MealTypeAlternatives(string(mealType))...))

	return domain.CatalogQuery{
		MealTypes:          tags,
		Categories:         []string{domain.CategoryMainCourse, string(mealType)},
		DietaryPreferences: filter.DietaryPreferences,
		ExcludedCategories: filter.ExcludedCategories,
		MinCalories:        targetCalories * candidateMinFactor,
		MaxCalories:        targetCalories * candidateMaxFactor,
		Limit:              candidateLimit,
	}
}

// alternativesQuery builds the swap filter: slot tags only, the [0.3x, 2.0x] band,
// excluded ids removed.
func alternativesQuery(request domain.AlternativesRequest) domain.CatalogQuery {
	mealType := strings.ToLower(strings.TrimSpace(request.MealType))
	if slot, ok := domain.CanonicalMealType(mealType); ok {
		mealType = string(slot)
	}
	tags := uniqueStrings(append([]string{mealType}, MealTypeAlternatives(mealType)...))

	return domain.CatalogQuery{
		MealTypes:          tags,
		DietaryPreferences: domain.NormalizeTags(request.DietaryPreferences),
		ExcludedIDs:        trimAll(request.ExcludedFoodIDs),
		MinCalories:        request.TargetCalories * candidateMinFactor,
		MaxCalories:        request.TargetCalories * alternativesMaxFactor,
		Limit:              alternativesLimit,
	}
}

func requestedSlots(mealType string) ([]domain.MealType, error) {
	mealType = strings.TrimSpace(mealType)
	if mealType == "" || strings.EqualFold(mealType, domain.MealTypeAll) {
		return domain.MealSlots, nil
	}
	slot, ok := domain.CanonicalMealType(mealType)
	if !ok {
		return nil, domain.NewValidationError("mealType", "must be one of breakfast, lunch, dinner, snack, all")
	}
	return []domain.MealType{slot}, nil
}

func validatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return domain.NewValidationError(field, "must be a positive number")
	}
	return nil
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func uniqueStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
