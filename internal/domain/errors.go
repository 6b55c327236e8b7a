package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when request parameters are missing or malformed
	ErrValidation = errors.New("invalid request parameters")

	// ErrNotFound is the base of every lookup miss
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is the base of every collaborator failure
	ErrUnavailable = errors.New("service unavailable")

	// ErrUnauthorized is returned for missing, invalid or expired credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller lacks the required role
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned when email or password do not match
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)

	// ErrEmailTaken is returned when registering an email that already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)

var (
	ErrFoodNotFound  = fmt.Errorf("food %w", ErrNotFound)
	ErrMealNotFound  = fmt.Errorf("meal %w", ErrNotFound)
	ErrWaterNotFound = fmt.Errorf("water intake record %w", ErrNotFound)
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
)

var (
	// ErrCatalogUnavailable is returned when the food catalog query fails
	ErrCatalogUnavailable = fmt.Errorf("food catalog: %w", ErrUnavailable)

	// ErrRecognitionFailed is returned when the image recognizer fails
	ErrRecognitionFailed = fmt.Errorf("food recognition: %w", ErrUnavailable)

	// ErrChatFailed is returned when the chat assistant backend fails
	ErrChatFailed = fmt.Errorf("chat assistant: %w", ErrUnavailable)

	// ErrStorageFailed is returned when an image cannot be stored
	ErrStorageFailed = fmt.Errorf("image storage: %w", ErrUnavailable)
)

// ValidationError names the offending field of a rejected request
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match every ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
