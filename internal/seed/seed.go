// Package seed loads the starter food catalog.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

//go:embed foods.json
var foodsJSON []byte

// Result counts what a seed run did
type Result struct {
	Inserted int
	Skipped  int
}

// Foods decodes the embedded catalog and normalizes every entry
func Foods() ([]domain.FoodItem, error) {
	var foods []domain.FoodItem
	if err := json.Unmarshal(foodsJSON, &foods); err != nil {
		return nil, fmt.Errorf("decode embedded foods: %w", err)
	}
	for i := range foods {
		domain.NormalizeFood(&foods[i])
	}
	return foods, nil
}

// Run inserts the starter foods whose names are not in the catalog yet.
// Running it twice inserts nothing the second time.
func Run(ctx context.Context, catalog domain.FoodCatalog, log *zap.Logger) (Result, error) {
	log = logger.OrNop(log).Named("seed")

	foods, err := Foods()
	if err != nil {
		return Result{}, err
	}

	existing, err := catalog.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list catalog: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for _, f := range existing {
		names[strings.ToLower(f.Name)] = true
	}

	var result Result
	for i := range foods {
		food := foods[i]
		key := strings.ToLower(food.Name)
		if names[key] {
			result.Skipped++
			continue
		}
		if err := catalog.Create(ctx, &food); err != nil {
			return result, fmt.Errorf("insert %q: %w", food.Name, err)
		}
		names[key] = true
		result.Inserted++
	}

	log.Info("catalog seeded", zap.Int("inserted", result.Inserted), zap.Int("skipped", result.Skipped))
	return result, nil
}
