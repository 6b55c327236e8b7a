package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/infrastructure/realtime"
	"github.com/nutriscan/backend/internal/logger"
	"github.com/nutriscan/backend/internal/usecase"
)

const serviceVersion = "1.0.0"

// Services are the use cases the handlers call
type Services struct {
	Auth        *usecase.AuthService
	Users       *usecase.UserService
	Meals       *usecase.MealService
	Water       *usecase.WaterService
	Foods       *usecase.FoodService
	Recommender *usecase.DietRecommender
	Chat        *usecase.ChatService
	Hub         *realtime.Hub
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	auth        *usecase.AuthService
	users       *usecase.UserService
	meals       *usecase.MealService
	water       *usecase.WaterService
	foods       *usecase.FoodService
	recommender *usecase.DietRecommender
	chat        *usecase.ChatService
	hub         *realtime.Hub

	// maxUploadBytes bounds multipart bodies
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, maxUploadBytes int64, log *zap.Logger) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &Handler{
		auth:           services.Auth,
		users:          services.Users,
		meals:          services.Meals,
		water:          services.Water,
		foods:          services.Foods,
		recommender:    services.Recommender,
		chat:           services.Chat,
		hub:            services.Hub,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.OrNop(log).Named("http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutriscan-backend",
		"version": serviceVersion,
	})
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

// respondError maps a use case error onto a status code and the failure envelope
func (h *Handler) respondError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	respondMessage(c, status, message)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, domain.ErrCatalogUnavailable.Error()
	case errors.Is(err, domain.ErrRecognitionFailed):
		return http.StatusServiceUnavailable, domain.ErrRecognitionFailed.Error()
	case errors.Is(err, domain.ErrChatFailed):
		return http.StatusServiceUnavailable, domain.ErrChatFailed.Error()
	case errors.Is(err, domain.ErrStorageFailed):
		return http.StatusServiceUnavailable, domain.ErrStorageFailed.Error()
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, domain.ErrUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// bindJSON decodes the body into dst, reporting malformed JSON as a validation error
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return domain.NewValidationError("body", "must be valid JSON: "+err.Error())
	}
	return nil
}

func currentUserID(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}
