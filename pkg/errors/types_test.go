package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", ValidationError("size", "must be positive"), http.StatusBadRequest},
		{"empty store", EmptyStoreError("fortunes"), http.StatusInternalServerError},
		{"database", DatabaseError("find all", stderrors.New("boom")), http.StatusInternalServerError},
		{"connection", New(ErrCodeDatabaseConnection, "down"), http.StatusServiceUnavailable},
		{"wrapped app error", fmt.Errorf("listing: %w", New(ErrCodeNotFound, "gone")), http.StatusNotFound},
		{"plain error", stderrors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPCode(tt.err))
		})
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := fmt.Errorf("random fortune: %w", EmptyStoreError("fortunes"))

	assert.True(t, Is(err, ErrCodeEmptyStore))
	assert.False(t, Is(err, ErrCodeValidation))
	assert.Equal(t, ErrCodeEmptyStore, GetCode(err))
	assert.Equal(t, ErrCodeInternal, GetCode(stderrors.New("other")))
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := DatabaseError("count", cause)

	assert.Equal(t, "DATABASE_QUERY: database count failed (caused by: connection refused)", err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "count", err.Details["operation"])

	plain := New(ErrCodeInternal, "oops")
	assert.Equal(t, "INTERNAL: oops", plain.Error())
}
