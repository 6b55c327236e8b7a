package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan/backend/internal/usecase"
)

// Register creates an account and returns a token for it
func (h *Handler) Register(c *gin.Context) {
	var in usecase.RegisterInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, result)
}

// Login exchanges credentials for a token
func (h *Handler) Login(c *gin.Context) {
	var in usecase.LoginInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}
