package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	e := Validation("amount must not be zero", map[string]string{"amount": "must not be zero"})
	assert.Equal(t, "amount must not be zero", e.Error())
	assert.Equal(t, "must not be zero", e.Detail["amount"])

	cause := errors.New("connection refused")
	e = DataAccess("balance could not be retrieved", cause)
	assert.Equal(t, "balance could not be retrieved: connection refused", e.Error())
	assert.Equal(t, cause, errors.Unwrap(e))
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf(NotFound("account not found"))
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, k)

	// Wrapped errors still classify.
	wrapped := fmt.Errorf("while transferring: %w", Configuration("transfer category is not provisioned", nil))
	assert.True(t, Is(wrapped, KindConfiguration))
	assert.False(t, Is(wrapped, KindValidation))

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
