package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetErrorSurfacesCause(t *testing.T) {
	cause := fmt.Errorf("ingredients_db.csv: missing column %q", "kcal_per_100g")
	err := NewDatasetError("load ingredients", cause)

	assert.Contains(t, err.Error(), "kcal_per_100g")
	assert.Contains(t, err.Details, "load ingredients")
	assert.ErrorIs(t, err, cause)
}

func TestDatasetErrorNilCause(t *testing.T) {
	err := NewDatasetError("load recipes", nil)
	assert.Equal(t, "DATASET_ERROR: Recipe dataset operation failed (Failed to load recipes)", err.Error())
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		status int
	}{
		{CodeValidationFailed, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeCorpusEmpty, http.StatusUnprocessableEntity},
		{CodeCorpusExhausted, http.StatusUnprocessableEntity},
		{CodeReplacementExhausted, http.StatusUnprocessableEntity},
		{CodeDatasetError, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewAppError(tt.code, "boom", "")
			assert.Equal(t, tt.status, err.StatusCode())
		})
	}
}

func TestIsMatchesWrappedCode(t *testing.T) {
	inner := NewAppError(CodeCorpusExhausted, "no candidates", "")
	wrapped := fmt.Errorf("fill slot: %w", inner)

	assert.True(t, Is(wrapped, CodeCorpusExhausted))
	assert.False(t, Is(wrapped, CodeCorpusEmpty))

	appErr, ok := IsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeCorpusExhausted, appErr.Code)
}
