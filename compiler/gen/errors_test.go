package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := NewSchemaError("UsersTable", "Email", "invalid type", cause)

		assert.Contains(t, err.Error(), "narrator: schema error")
		assert.Contains(t, err.Error(), "type UsersTable")
		assert.Contains(t, err.Error(), "field Email")
		assert.Contains(t, err.Error(), "invalid type")
		assert.Contains(t, err.Error(), "underlying error")
	})

	t.Run("Error message with type only", func(t *testing.T) {
		err := &SchemaError{Type: "UsersTable"}
		assert.Contains(t, err.Error(), "type UsersTable")
		assert.NotContains(t, err.Error(), "field")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewSchemaError("UsersTable", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrInvalidSchema", func(t *testing.T) {
		err := NewSchemaError("UsersTable", "", "", nil)
		assert.ErrorIs(t, err, ErrInvalidSchema)
		assert.True(t, IsSchemaError(fmt.Errorf("wrapped: %w", err)))
		assert.False(t, IsSchemaError(errors.New("other")))
	})
}

func TestReferenceError(t *testing.T) {
	err := NewReferenceError("UsersTable", "Home", "example.com/app.Address")
	assert.Equal(t, "narrator: unresolved reference to example.com/app.Address on type UsersTable field Home", err.Error())
	assert.ErrorIs(t, err, ErrUnresolvedReference)
	assert.True(t, IsReferenceError(err))
	assert.False(t, IsSchemaError(err))
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("DaoDir", "../x", "must be relative")

		assert.Contains(t, err.Error(), "narrator: config error")
		assert.Contains(t, err.Error(), "DaoDir")
		assert.Contains(t, err.Error(), "../x")
		assert.Contains(t, err.Error(), "must be relative")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Package", nil, "cannot be empty")

		assert.Contains(t, err.Error(), "Package")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.ErrorIs(t, err, ErrMissingConfig)
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewGenerationError("write", "daos/users/user.go", "", cause)

	assert.Contains(t, err.Error(), "in phase write")
	assert.Contains(t, err.Error(), "(file: daos/users/user.go)")
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsGenerationError(err))
}

func TestIsTableFault(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{NewSchemaError("T", "", "missing", nil), true},
		{fmt.Errorf("model: %w", NewReferenceError("T", "F", "p.R")), true},
		{NewConfigError("Target", nil, "missing"), false},
		{ErrDanglingReference, false},
		{NewGenerationError("render", "", "", nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, isTableFault(tt.err))
		})
	}
}
