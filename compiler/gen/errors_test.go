package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Package", "1api", "package name must be a Go identifier")

		assert.Contains(t, err.Error(), "crudgen: config error")
		assert.Contains(t, err.Error(), "Package")
		assert.Contains(t, err.Error(), "1api")
		assert.Contains(t, err.Error(), "must be a Go identifier")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Target", nil, "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("Target", nil, "")
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.False(t, errors.Is(err, ErrOutputWrite))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewConfigError("Target", nil, ""))
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestWriteError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := NewWriteError("routes", "/out/routes.go", cause)

		assert.Contains(t, err.Error(), "crudgen: write error")
		assert.Contains(t, err.Error(), "for routes")
		assert.Contains(t, err.Error(), "(file: /out/routes.go)")
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("Error message without artifact", func(t *testing.T) {
		err := &WriteError{}
		assert.Equal(t, "crudgen: write error", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewWriteError("entities", "", cause)
		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrOutputWrite))
	})

	t.Run("IsWriteError helper", func(t *testing.T) {
		assert.True(t, IsWriteError(NewWriteError("entities", "", nil)))
		assert.False(t, IsWriteError(NewSyntaxError("entities", "", nil)))
	})
}

func TestSyntaxError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewSyntaxError("handlers", "api/handlers.go", errors.New("expected ';'"))

		assert.Contains(t, err.Error(), "crudgen: syntax error in handlers")
		assert.Contains(t, err.Error(), "(file: api/handlers.go)")
		assert.Contains(t, err.Error(), "expected ';'")
	})

	t.Run("Is matches ErrOutputSyntax", func(t *testing.T) {
		err := NewSyntaxError("handlers", "", nil)
		assert.True(t, errors.Is(err, ErrOutputSyntax))
		assert.False(t, errors.Is(err, ErrMissingConfig))
		assert.Nil(t, err.Unwrap())
	})

	t.Run("IsSyntaxError helper", func(t *testing.T) {
		err := errors.Join(errors.New("other"), NewSyntaxError("admin", "", nil))
		assert.True(t, IsSyntaxError(err))
		assert.False(t, IsSyntaxError(errors.New("other")))
	})
}
