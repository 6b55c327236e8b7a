package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan/backend/internal/domain"
)

const (
	imageField    = "image"
	foodDataField = "foodData"
)

func (h *Handler) ListFoods(c *gin.Context) {
	foods, err := h.foods.ListFoods(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, foods)
}

func (h *Handler) GetFood(c *gin.Context) {
	food, err := h.foods.GetFood(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, food)
}

// SearchFoods matches ?query= against names and categories
func (h *Handler) SearchFoods(c *gin.Context) {
	foods, err := h.foods.SearchFoods(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, foods)
}

// CreateFood accepts a JSON food, or multipart with a foodData JSON field and an optional image
func (h *Handler) CreateFood(c *gin.Context) {
	food, image, err := h.readFood(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	created, err := h.foods.CreateFood(c.Request.Context(), food, image)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, created)
}

func (h *Handler) UpdateFood(c *gin.Context) {
	food, image, err := h.readFood(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.foods.UpdateFood(c.Request.Context(), c.Param("id"), food, image)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

func (h *Handler) DeleteFood(c *gin.Context) {
	if err := h.foods.DeleteFood(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": c.Param("id")})
}

// RecognizeFood identifies the food in the uploaded image
func (h *Handler) RecognizeFood(c *gin.Context) {
	image, err := h.readImage(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if image == nil {
		h.respondError(c, domain.NewValidationError(imageField, "file is required"))
		return
	}

	result, err := h.foods.Recognize(c.Request.Context(), *image)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h *Handler) readFood(c *gin.Context) (domain.FoodItem, *domain.Image, error) {
	var food domain.FoodItem

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return food, nil, bindJSON(c, &food)
	}

	image, err := h.readImage(c)
	if err != nil {
		return food, nil, err
	}
	raw := c.PostForm(foodDataField)
	if raw == "" {
		return food, nil, domain.NewValidationError(foodDataField, "is required")
	}
	if err := json.Unmarshal([]byte(raw), &food); err != nil {
		return food, nil, domain.NewValidationError(foodDataField, "must be valid JSON")
	}
	return food, image, nil
}

// readImage returns the multipart image, or nil when the request has none
func (h *Handler) readImage(c *gin.Context) (*domain.Image, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	header, err := c.FormFile(imageField)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, domain.NewValidationError(imageField, "exceeds the upload size limit")
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, nil
		default:
			return nil, domain.NewValidationError(imageField, "could not be read: "+err.Error())
		}
	}
	if header.Size > h.maxUploadBytes {
		return nil, domain.NewValidationError(imageField, "exceeds the upload size limit")
	}

	data, err := readFileHeader(header)
	if err != nil {
		return nil, domain.NewValidationError(imageField, "could not be read: "+err.Error())
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &domain.Image{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
