package narrator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/narrator"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := narrator.NewNotFoundError("users", nil)
		assert.Equal(t, "narrator: users not found", err.Error())
	})

	t.Run("Error with id", func(t *testing.T) {
		err := narrator.NewNotFoundError("users", 7)
		assert.Equal(t, "narrator: users not found (id=7)", err.Error())
		assert.Equal(t, 7, err.ID)
		assert.Equal(t, "users", err.Table)
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := narrator.NewNotFoundError("roles", nil)
		assert.True(t, narrator.IsNotFound(err))
		assert.True(t, errors.Is(err, narrator.ErrNotFound))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, narrator.IsNotFound(wrapped))
		assert.True(t, narrator.IsNotFound(narrator.ErrNotFound))

		assert.False(t, narrator.IsNotFound(errors.New("other error")))
		assert.False(t, narrator.IsNotFound(nil))
	})
}

func TestConstraintError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := narrator.NewConstraintError("UNIQUE constraint failed", nil)
		assert.Equal(t, "narrator: constraint failed: UNIQUE constraint failed", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("db error")
		err := narrator.NewConstraintError("constraint violated", underlying)
		assert.True(t, errors.Is(err, underlying))
		assert.True(t, errors.Is(err, narrator.ErrConstraint))
	})

	t.Run("IsConstraintError", func(t *testing.T) {
		wrapped := fmt.Errorf("wrapper: %w", narrator.NewConstraintError("check failed", nil))
		assert.True(t, narrator.IsConstraintError(wrapped))
		assert.False(t, narrator.IsConstraintError(errors.New("other error")))
		assert.False(t, narrator.IsConstraintError(nil))
	})
}

func TestQueryAndMutationErrors(t *testing.T) {
	cause := errors.New("connection reset")

	q := narrator.NewQueryError("users", "list", cause)
	assert.Equal(t, "narrator: querying users (list): connection reset", q.Error())
	assert.ErrorIs(t, q, cause)
	assert.Equal(t, "narrator: querying users: connection reset", (&narrator.OpError{Table: "users", Err: cause}).Error())

	m := narrator.NewMutationError("users", "create", cause)
	assert.Equal(t, "narrator: create users: connection reset", m.Error())
	assert.True(t, narrator.IsMutationError(fmt.Errorf("wrap: %w", m)))
	assert.False(t, narrator.IsMutationError(q))
}
