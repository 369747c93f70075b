package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrudError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewCrudError(OpCreate, "critical error creating product", cause)

	assert.Equal(t, "critical error creating product", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("handler: %w", err)
	ce, ok := AsCrudError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, OpCreate, ce.Op)

	_, ok = AsCrudError(cause)
	assert.False(t, ok)
}
