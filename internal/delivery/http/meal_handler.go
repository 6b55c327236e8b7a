package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan/backend/internal/usecase"
)

// ListMeals returns every entry, or one day's entries with ?date=
func (h *Handler) ListMeals(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	if date := c.Query("date"); date != "" {
		meals, err := h.meals.MealsByDate(ctx, userID, date)
		if err != nil {
			h.respondError(c, err)
			return
		}
		respond(c, http.StatusOK, meals)
		return
	}

	meals, err := h.meals.ListMeals(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, meals)
}

func (h *Handler) MealsByDate(c *gin.Context) {
	meals, err := h.meals.MealsByDate(c.Request.Context(), currentUserID(c), c.Param("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, meals)
}

func (h *Handler) LogMeal(c *gin.Context) {
	var in usecase.LogMealInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	meal, err := h.meals.LogMeal(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, meal)
}

func (h *Handler) UpdateMeal(c *gin.Context) {
	var in usecase.UpdateMealInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	meal, err := h.meals.UpdateMeal(c.Request.Context(), currentUserID(c), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, meal)
}

func (h *Handler) DeleteMeal(c *gin.Context) {
	if err := h.meals.DeleteMeal(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": c.Param("id")})
}

// ResetDay deletes every entry of ?date=
func (h *Handler) ResetDay(c *gin.Context) {
	date := c.Query("date")
	deleted, err := h.meals.ResetDay(c.Request.Context(), currentUserID(c), date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"date": date, "deleted": deleted})
}

// DailySummary aggregates ?date= (today when empty) by meal type
func (h *Handler) DailySummary(c *gin.Context) {
	summary, err := h.meals.DailySummary(c.Request.Context(), currentUserID(c), c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, summary)
}
