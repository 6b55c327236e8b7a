package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriscan/backend/internal/domain"
)

func TestFoodRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFoodRepository()

	foods := []domain.FoodItem{
		{Name: "Oatmeal", Category: "Breakfast", Nutrition: domain.NutritionProfile{Calories: 380}, MealTypes: []string{"breakfast"}},
		{Name: "Salmon", Category: "Main Course", Nutrition: domain.NutritionProfile{Calories: 208}, MealTypes: []string{"dinner"}, DietaryPreferences: []string{"high-protein"}},
		{Name: "Almonds", Category: "Snack", Nutrition: domain.NutritionProfile{Calories: 579}, MealTypes: []string{"snack"}},
	}
	for i := range foods {
		require.NoError(t, repo.Create(ctx, &foods[i]))
		assert.NotEmpty(t, foods[i].ID)
	}

	t.Run("find candidates keeps insertion order", func(t *testing.T) {
		got, err := repo.FindCandidates(ctx, domain.CatalogQuery{
			MealTypes:   []string{"breakfast", "dinner"},
			MinCalories: 0,
			MaxCalories: 1000,
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Oatmeal", got[0].Name)
		assert.Equal(t, "Salmon", got[1].Name)
	})

	t.Run("find candidates applies limit and preferences", func(t *testing.T) {
		got, err := repo.FindCandidates(ctx, domain.CatalogQuery{
			Categories:         []string{"main course", "snack"},
			DietaryPreferences: []string{"high-protein"},
			MaxCalories:        1000,
			Limit:              1,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Salmon", got[0].Name)
	})

	t.Run("search matches name or category", func(t *testing.T) {
		got, err := repo.Search(ctx, "snack salm", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Almonds", got[0].Name)
		assert.Equal(t, "Salmon", got[1].Name)
	})

	t.Run("get by ids skips missing", func(t *testing.T) {
		got, err := repo.GetByIDs(ctx, []string{foods[0].ID, "missing"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Contains(t, got, foods[0].ID)
	})

	t.Run("update and delete", func(t *testing.T) {
		updated := foods[2]
		updated.Name = "Roasted Almonds"
		require.NoError(t, repo.Update(ctx, &updated))

		got, err := repo.GetByID(ctx, updated.ID)
		require.NoError(t, err)
		assert.Equal(t, "Roasted Almonds", got.Name)

		require.NoError(t, repo.Delete(ctx, updated.ID))
		_, err = repo.GetByID(ctx, updated.ID)
		assert.ErrorIs(t, err, domain.ErrFoodNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, updated.ID), domain.ErrNotFound)
		assert.ErrorIs(t, repo.Update(ctx, &updated), domain.ErrNotFound)
	})
}

func TestMealRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMealRepository()

	a := &domain.MealEntry{UserID: "u1", FoodID: "f1", MealType: domain.MealTypeLunch, Date: "2024-03-01"}
	b := &domain.MealEntry{UserID: "u1", FoodID: "f2", MealType: domain.MealTypeDinner, Date: "2024-03-01"}
	c := &domain.MealEntry{UserID: "u2", FoodID: "f1", MealType: domain.MealTypeLunch, Date: "2024-03-01"}
	for _, e := range []*domain.MealEntry{a, b, c} {
		require.NoError(t, repo.Create(ctx, e))
	}

	byDate, err := repo.ListByDate(ctx, "u1", "2024-03-01")
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	_, err = repo.GetByID(ctx, "u2", a.ID)
	assert.ErrorIs(t, err, domain.ErrMealNotFound)

	a.ServingSize = 200
	require.NoError(t, repo.Update(ctx, a))
	got, err := repo.GetByID(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, got.ServingSize)

	assert.ErrorIs(t, repo.Delete(ctx, "u2", a.ID), domain.ErrMealNotFound)

	n, err := repo.DeleteByDate(ctx, "u1", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	ana := &domain.User{Email: "ana@b.co", Name: "Ana Lima"}
	require.NoError(t, repo.Create(ctx, ana))
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{Email: "ana@b.co"}), domain.ErrEmailTaken)
	require.NoError(t, repo.Create(ctx, &domain.User{Email: "bo@b.co", Name: "Bo"}))

	got, err := repo.GetByEmail(ctx, "ana@b.co")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)

	found, err := repo.List(ctx, "LIMA")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, repo.Delete(ctx, ana.ID))
	_, err = repo.GetByID(ctx, ana.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestWaterRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewWaterRepository()
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for h := 8; h <= 20; h += 6 {
		require.NoError(t, repo.Create(ctx, &domain.WaterIntake{UserID: "u1", Amount: 250, Unit: "ml", Date: day.Add(time.Duration(h) * time.Hour)}))
	}

	all, err := repo.List(ctx, "u1", nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 20, all[0].Date.Hour())

	from, to := day.Add(10*time.Hour), day.Add(21*time.Hour)
	ranged, err := repo.List(ctx, "u1", &from, &to)
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	assert.ErrorIs(t, repo.Delete(ctx, "u2", all[0].ID), domain.ErrWaterNotFound)
	require.NoError(t, repo.Delete(ctx, "u1", all[0].ID))
}
