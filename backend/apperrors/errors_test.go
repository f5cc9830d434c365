package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFromDB(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, FromDB(nil, "user"))
	})

	t.Run("record not found maps to ErrNotFound", func(t *testing.T) {
		err := FromDB(gorm.ErrRecordNotFound, "user")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "user")
	})

	t.Run("driver errors map to ErrTransientStore", func(t *testing.T) {
		err := FromDB(errors.New("connection refused"), "progress")
		assert.ErrorIs(t, err, ErrTransientStore)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("classified errors pass through", func(t *testing.T) {
		in := Invalid("progressPercentage", "must be between 0 and 100")
		assert.Same(t, in, FromDB(in, "progress"))
	})
}

func TestValidationError(t *testing.T) {
	err := Invalid("timeSpent", "must not be negative")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "timeSpent: must not be negative", err.Error())
	assert.Equal(t, map[string]string{"timeSpent": "must not be negative"}, Fields(err))
	assert.Nil(t, Fields(NotFound("lesson %s", "x")))
}
