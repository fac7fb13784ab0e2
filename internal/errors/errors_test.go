package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("rating out of range")

	assert.Equal(t, CategoryValidation, err.Category)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Contains(t, err.Error(), "VALIDATION_ERROR")
	assert.Contains(t, err.Error(), "rating out of range")
}

func TestNewValidationErrorWithFields(t *testing.T) {
	err := NewValidationErrorWithFields(map[string]string{
		"avg_rating":            "must be between 1.0 and 5.0",
		"active_days_per_month": "must be between 1 and 31",
	})

	assert.Equal(t, CategoryValidation, err.Category)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Len(t, err.ErrBuilder.Details.Errors, 2)
}

func TestNewPreconditionError(t *testing.T) {
	err := NewPreconditionError("model not loaded")

	assert.Equal(t, CategoryPrecondition, err.Category)
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus)
	assert.Contains(t, err.Error(), "SERVICE_UNAVAILABLE")
}

func TestNewPredictionError(t *testing.T) {
	cause := errors.New("dimension mismatch")
	err := NewPredictionError("model prediction failed", cause)

	assert.Equal(t, CategoryPrediction, err.Category)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.ErrorIs(t, err, cause)
}

func TestNewRateLimitError(t *testing.T) {
	err := NewRateLimitError("60")

	assert.Equal(t, CategoryRateLimit, err.Category)
	assert.Equal(t, http.StatusTooManyRequests, err.HTTPStatus)
}

func TestNewConfigurationError(t *testing.T) {
	err := NewConfigurationError("failed to load feature schema", errors.New("no such file"))

	assert.Equal(t, CategoryConfiguration, err.Category)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestToAppError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToAppError(nil))
	})

	t.Run("app error passes through", func(t *testing.T) {
		original := NewPreconditionError("model not loaded")
		assert.Same(t, original, ToAppError(original))
	})

	t.Run("wrapped app error unwraps", func(t *testing.T) {
		original := NewValidationError("bad input")
		wrapped := WrapError(original, "handling request")

		converted := ToAppError(wrapped)
		require.NotNil(t, converted)
		assert.Equal(t, CategoryValidation, converted.Category)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		converted := ToAppError(errors.New("boom"))
		assert.Equal(t, CategoryInternal, converted.Category)
		assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	})
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "context"))

	base := errors.New("base")
	wrapped := WrapError(base, "loading %s", "model")

	assert.ErrorIs(t, wrapped, base)
	assert.Contains(t, wrapped.Error(), "loading model")
}
