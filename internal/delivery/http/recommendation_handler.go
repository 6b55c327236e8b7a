package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan/backend/internal/domain"
)

// GetRecommendations serves ?maintenanceCalories=&mealType=&dietaryPreferences=&excludedCategories=
func (h *Handler) GetRecommendations(c *gin.Context) {
	calories, err := queryFloat(c, "maintenanceCalories")
	if err != nil {
		h.respondError(c, err)
		return
	}

	plan, err := h.recommender.GetRecommendations(c.Request.Context(), domain.RecommendationRequest{
		MaintenanceCalories: calories,
		DietaryPreferences:  queryList(c, "dietaryPreferences"),
		ExcludedCategories:  queryList(c, "excludedCategories"),
		MealType:            c.Query("mealType"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, plan)
}

// GetAlternatives serves ?mealType=&targetCalories=&excludedFoods=&dietaryPreferences=
func (h *Handler) GetAlternatives(c *gin.Context) {
	if strings.TrimSpace(c.Query("mealType")) == "" {
		h.respondError(c, domain.NewValidationError("mealType", "is required"))
		return
	}
	target, err := queryFloat(c, "targetCalories")
	if err != nil {
		h.respondError(c, err)
		return
	}

	foods, err := h.recommender.GetAlternatives(c.Request.Context(), domain.AlternativesRequest{
		MealType:           c.Query("mealType"),
		TargetCalories:     target,
		ExcludedFoodIDs:    queryList(c, "excludedFoods"),
		DietaryPreferences: queryList(c, "dietaryPreferences"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, foods)
}

func queryFloat(c *gin.Context, key string) (float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, domain.NewValidationError(key, "is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.NewValidationError(key, "must be a number")
	}
	return v, nil
}

// queryList accepts repeated keys, key[] and comma-separated values
func queryList(c *gin.Context, key string) []string {
	values := append(c.QueryArray(key), c.QueryArray(key+"[]")...)

	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
