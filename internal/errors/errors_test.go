package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "error with cause",
			err:      NewParsingError("bad date range", stderrors.New("unexpected token")),
			expected: "[PARSING] bad date range: unexpected token",
		},
		{
			name:     "error without cause",
			err:      NewValidationError("blank country code"),
			expected: "[VALIDATION] blank country code",
		},
		{
			name:     "not found error",
			err:      NewNotFoundError("analysis"),
			expected: "[NOT_FOUND] analysis not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewNetworkError("fetch failed", cause)

	assert.True(t, stderrors.Is(err, cause))

	var appErr *AppError
	assert.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeNetwork, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewStorageError("write failed", nil).
		WithContext("path", "reports/ipc_afg_national_long.csv").
		WithContext("rows", 42)

	assert.Equal(t, "reports/ipc_afg_national_long.csv", err.Context["path"])
	assert.Equal(t, 42, err.Context["rows"])
}
