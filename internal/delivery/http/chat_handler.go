package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message"`
}

// Chat answers a question about the app
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	reply, err := h.chat.Reply(c.Request.Context(), req.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"reply": reply})
}
