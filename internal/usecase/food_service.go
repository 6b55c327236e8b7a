package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

// Food service defaults
const (
	defaultRecognitionCacheTTL = 720 * time.Hour // 30 days
	defaultMaxImageBytes       = 5 << 20
	defaultSearchLimit         = 10
)

var dietaryPreferenceTags = []string{
	domain.DietVegetarian,
	domain.DietVegan,
	domain.DietGlutenFree,
	domain.DietDairyFree,
	domain.DietLowCarb,
	domain.DietHighProtein,
}

// FoodServiceConfig holds configuration for the food service
type FoodServiceConfig struct {
	CacheTTL      time.Duration
	MaxImageBytes int64
	SearchLimit   int
	MinMatchScore float64
}

// FoodService manages the food catalog and photo recognition
type FoodService struct {
	catalog       domain.FoodCatalog
	recognizer    domain.FoodRecognizer
	images        domain.ImageStore
	cache         domain.CacheRepository
	matcher       *FoodMatcher
	cacheTTL      time.Duration
	maxImageBytes int64
	searchLimit   int
	logger        *zap.Logger
}

// NewFoodService creates a food service. recognizer, images and cache may be nil
// when the matching feature is not configured.
func NewFoodService(
	catalog domain.FoodCatalog,
	recognizer domain.FoodRecognizer,
	images domain.ImageStore,
	cache domain.CacheRepository,
	config FoodServiceConfig,
	log *zap.Logger,
) *FoodService {
	log = logger.OrNop(log)

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = defaultRecognitionCacheTTL
	}
	maxImageBytes := config.MaxImageBytes
	if maxImageBytes <= 0 {
		maxImageBytes = defaultMaxImageBytes
	}
	searchLimit := config.SearchLimit
	if searchLimit <= 0 {
		searchLimit = defaultSearchLimit
	}

	return &FoodService{
		catalog:       catalog,
		recognizer:    recognizer,
		images:        images,
		cache:         cache,
		matcher:       NewFoodMatcher(MatchConfig{MinScore: config.MinMatchScore}, log),
		cacheTTL:      cacheTTL,
		maxImageBytes: maxImageBytes,
		searchLimit:   searchLimit,
		logger:        log.Named("foods"),
	}
}

// ListFoods returns the whole catalog
func (s *FoodService) ListFoods(ctx context.Context) ([]domain.FoodItem, error) {
	foods, err := s.catalog.List(ctx)
	if err != nil {
		return nil, catalogError(err)
	}
	if foods == nil {
		foods = []domain.FoodItem{}
	}
	return foods, nil
}

// GetFood returns one catalog entry
func (s *FoodService) GetFood(ctx context.Context, id string) (*domain.FoodItem, error) {
	food, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, catalogError(err)
	}
	return food, nil
}

// SearchFoods matches name or category against the query text
func (s *FoodService) SearchFoods(ctx context.Context, query string) ([]domain.FoodItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("query", "is required")
	}

	foods, err := s.catalog.Search(ctx, query, s.searchLimit)
	if err != nil {
		return nil, catalogError(err)
	}
	if foods == nil {
		foods = []domain.FoodItem{}
	}
	return foods, nil
}

// CreateFood adds a catalog entry, storing the image first when one is given
func (s *FoodService) CreateFood(ctx context.Context, food domain.FoodItem, image *domain.Image) (*domain.FoodItem, error) {
	if err := validateFood(&food); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.storeImage(ctx, *image)
		if err != nil {
			return nil, err
		}
		food.ImageURL = url
	}

	food.ID = ""
	if err := s.catalog.Create(ctx, &food); err != nil {
		return nil, catalogError(err)
	}

	s.logger.Info("food created", zap.String("food_id", food.ID), zap.String("name", food.Name))
	return &food, nil
}

// UpdateFood replaces a catalog entry's fields, keeping its id and creation time
func (s *FoodService) UpdateFood(
	ctx context.Context,
	id string,
	food domain.FoodItem,
	image *domain.Image,
) (*domain.FoodItem, error) {
	existing, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, catalogError(err)
	}

	if err := validateFood(&food); err != nil {
		return nil, err
	}

	food.ID = existing.ID
	food.CreatedAt = existing.CreatedAt
	if image != nil {
		url, err := s.storeImage(ctx, *image)
		if err != nil {
			return nil, err
		}
		food.ImageURL = url
	} else if food.ImageURL == "" {
		food.ImageURL = existing.ImageURL
	}

	if err := s.catalog.Update(ctx, &food); err != nil {
		return nil, catalogError(err)
	}
	return &food, nil
}

// DeleteFood removes a catalog entry. Meal entries that still point at it are
// reported as integrity warnings by the daily summary.
func (s *FoodService) DeleteFood(ctx context.Context, id string) error {
	if err := s.catalog.Delete(ctx, id); err != nil {
		return catalogError(err)
	}
	s.logger.Info("food deleted", zap.String("food_id", id))
	return nil
}

// Recognize identifies the food in a photo and attaches catalog nutrition when a
// catalog entry matches the recognized name.
// Flow: check cache -> recognizer -> cache -> catalog match -> return
func (s *FoodService) Recognize(ctx context.Context, image domain.Image) (*domain.RecognitionResult, error) {
	if err := s.validateImage(image); err != nil {
		return nil, err
	}
	if s.recognizer == nil {
		return nil, fmt.Errorf("%w: no recognizer configured", domain.ErrRecognitionFailed)
	}

	cacheKey := recognitionCacheKey(image.Data)

	recognition, err := s.getFromCache(ctx, cacheKey)
	if err != nil {
		recognition, err = s.recognizer.Recognize(ctx, image)
		if err != nil {
			if errors.Is(err, domain.ErrUnavailable) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrRecognitionFailed, err)
		}
		s.setInCache(ctx, cacheKey, recognition)
	}

	result := &domain.RecognitionResult{
		Name:         recognition.Primary.Name,
		Confidence:   recognition.Primary.Confidence,
		Alternatives: recognition.Alternatives,
	}
	if result.Alternatives == nil {
		result.Alternatives = []domain.Prediction{}
	}

	query := s.matcher.SearchQuery(recognition.Primary.Name)
	if query == "" {
		return result, nil
	}

	candidates, err := s.catalog.Search(ctx, query, s.searchLimit)
	if err != nil {
		return nil, catalogError(err)
	}

	if match, _ := s.matcher.BestMatch(recognition.Primary.Name, candidates); match != nil {
		nutrition := match.Nutrition.Sanitized()
		result.FoodID = match.ID
		result.NutritionInfo = &nutrition
	}

	return result, nil
}

func (s *FoodService) storeImage(ctx context.Context, image domain.Image) (string, error) {
	if err := s.validateImage(image); err != nil {
		return "", err
	}
	if s.images == nil {
		return "", fmt.Errorf("%w: no image store configured", domain.ErrStorageFailed)
	}

	url, err := s.images.Save(ctx, image)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrStorageFailed, err)
	}
	return url, nil
}

func (s *FoodService) validateImage(image domain.Image) error {
	if len(image.Data) == 0 {
		return domain.NewValidationError("image", "is required")
	}
	if !strings.HasPrefix(strings.ToLower(image.ContentType), "image/") {
		return domain.NewValidationError("image", "must be an image file")
	}
	if int64(len(image.Data)) > s.maxImageBytes {
		return domain.NewValidationError("image", fmt.Sprintf("must not exceed %d bytes", s.maxImageBytes))
	}
	return nil
}

// getFromCache retrieves a recognition from cache. Values round-tripped through
// JSON (memory cache) or stored as raw JSON (redis) are decoded.
func (s *FoodService) getFromCache(ctx context.Context, key string) (*domain.Recognition, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, err
	}

	var data []byte
	switch v := value.(type) {
	case *domain.Recognition:
		return v, nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		data, err = json.Marshal(v)
		if err != nil {
			return nil, domain.ErrCacheMiss
		}
	}

	var recognition domain.Recognition
	if err := json.Unmarshal(data, &recognition); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &recognition, nil
}

// setInCache stores a recognition; failures are logged and otherwise ignored
func (s *FoodService) setInCache(ctx context.Context, key string, recognition *domain.Recognition) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, recognition, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// recognitionCacheKey identifies an image by content.
// Format: "recognition:{sha256 hex}"
func recognitionCacheKey(data []byte) string {
	sum := sha256.Sum256(data)
	return "recognition:" + hex.EncodeToString(sum[:])
}

func validateFood(food *domain.FoodItem) error {
	n := food.Nutrition
	for _, v := range []struct {
		field string
		value float64
	}{
		{"calories", n.Calories},
		{"protein", n.Protein},
		{"carbs", n.Carbs},
		{"fat", n.Fat},
		{"fiber", n.Fiber},
		{"servingSize", food.ServingSize},
	} {
		if math.IsInf(v.value, 0) || v.value < 0 {
			return domain.NewValidationError(v.field, "must be a non-negative number")
		}
	}

	domain.NormalizeFood(food)

	if food.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	if food.Category == "" {
		return domain.NewValidationError("category", "is required")
	}
	for _, pref := range food.DietaryPreferences {
		if !containsFold(dietaryPreferenceTags, pref) {
			return domain.NewValidationError("dietaryPreferences", fmt.Sprintf("unknown preference %q", pref))
		}
	}
	return nil
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// catalogError keeps lookup misses and validation errors as they are and reports
// everything else as the catalog being unavailable
func catalogError(err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
}
