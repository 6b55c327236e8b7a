package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan/backend/internal/usecase"
)

func (h *Handler) AddWater(c *gin.Context) {
	var in usecase.AddWaterInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	intake, err := h.water.AddWater(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, intake)
}

// ListWater accepts optional ?startDate= and ?endDate=
func (h *Handler) ListWater(c *gin.Context) {
	intakes, err := h.water.ListWater(c.Request.Context(), currentUserID(c), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, intakes)
}

func (h *Handler) WaterToday(c *gin.Context) {
	summary, err := h.water.Today(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, summary)
}

func (h *Handler) DeleteWater(c *gin.Context) {
	if err := h.water.DeleteWater(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": c.Param("id")})
}
