package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/usecase"
)

func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var in usecase.ProfileInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

func (h *Handler) UpdateGoals(c *gin.Context) {
	var goals domain.Goals
	if err := bindJSON(c, &goals); err != nil {
		h.respondError(c, err)
		return
	}

	user, err := h.users.UpdateGoals(c.Request.Context(), currentUserID(c), goals)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var in usecase.ChangePasswordInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), currentUserID(c), in); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "password updated"})
}

// ListUsers is admin only; ?search= filters on name or email
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, users)
}

// DeleteUser is admin only; admins cannot delete themselves
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": c.Param("id")})
}
