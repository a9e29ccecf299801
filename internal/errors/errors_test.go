package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineError(t *testing.T) {
	t.Run("formats type and message", func(t *testing.T) {
		err := NewSchemaError("missing column tahun", nil)
		assert.Equal(t, "[SCHEMA_ERROR] missing column tahun", err.Error())
	})

	t.Run("formats wrapped cause", func(t *testing.T) {
		err := NewStorageError("create output file", io.ErrClosedPipe)
		assert.Contains(t, err.Error(), "[STORAGE_ERROR] create output file")
		assert.Contains(t, err.Error(), io.ErrClosedPipe.Error())
	})

	t.Run("unwraps cause", func(t *testing.T) {
		cause := io.EOF
		err := NewParseError("row 3", cause)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("context is attached", func(t *testing.T) {
		err := NewIntegrityError("duplicate key", nil).
			WithContext("key", "Kota Bandung/2020-01")
		assert.Equal(t, "Kota Bandung/2020-01", err.Context["key"])
	})
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		errType   ErrorType
		partition bool
	}{
		{"schema", NewSchemaError("x", nil), ErrTypeSchema, false},
		{"parse", NewParseError("x", nil), ErrTypeParse, false},
		{"integrity", NewIntegrityError("x", nil), ErrTypeIntegrity, false},
		{"insufficient data", NewInsufficientDataError("x", nil), ErrTypeInsufficientData, true},
		{"validation", NewValidationError("x", nil), ErrTypeValidation, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, TypeOf(tt.err))
			assert.True(t, Is(tt.err, tt.errType))
			assert.Equal(t, tt.partition, IsPartitionError(tt.err))
		})
	}
}

func TestTypeOfWrappedError(t *testing.T) {
	inner := NewInsufficientDataError("partition 2020 has 4 rows", nil)
	wrapped := fmt.Errorf("train year 2020: %w", inner)

	assert.Equal(t, ErrTypeInsufficientData, TypeOf(wrapped))
	assert.True(t, IsInsufficientData(wrapped))
	assert.True(t, IsPartitionError(wrapped))
}

func TestTypeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorType(""), TypeOf(io.EOF))
	assert.False(t, IsPartitionError(io.EOF))
}
