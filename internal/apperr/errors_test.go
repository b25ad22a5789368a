package apperr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizationError(t *testing.T) {
	err := NewAuthorization("nope")
	assert.True(t, IsAuthorization(err))
	assert.False(t, IsInsufficientStock(err))
	assert.Equal(t, "authorization: nope", err.Error())

	// Detection survives wrapping.
	wrapped := fmt.Errorf("handling request: %w", ErrHeadquartersReadOnly)
	assert.True(t, IsAuthorization(wrapped))
}

func TestInsufficientStockError(t *testing.T) {
	err := &InsufficientStockError{ItemName: "Bolt M8", Requested: 10, Available: 4}
	assert.True(t, IsInsufficientStock(err))
	assert.False(t, IsIntegrity(err))
	assert.Equal(t, `insufficient stock for "Bolt M8": requested 10, available 4`, err.Error())
}

func TestIntegrityError(t *testing.T) {
	err := NewIntegrity("item still has movements")
	assert.True(t, IsIntegrity(err))
	assert.False(t, IsAuthorization(err))

	wrapped := fmt.Errorf("delete: %w", err)
	assert.True(t, IsIntegrity(wrapped))
}

func TestNilAndForeignErrors(t *testing.T) {
	assert.False(t, IsAuthorization(nil))
	assert.False(t, IsInsufficientStock(fmt.Errorf("plain")))
	assert.False(t, IsIntegrity(nil))
}
