package port

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	assert.NoError(t, v.OrNil())

	v.Add("type", "Invalid type")
	v.Add("amount", "Amount must be greater than %d", 0)
	v.Add("amount", "ignored")
	v.Merge(map[string]string{"hash": "hash is required", "type": "also ignored"})

	err := v.OrNil()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation error(s):\namount: Amount must be greater than 0\nhash: hash is required\ntype: Invalid type", err.Error())

	var target *ValidationError
	assert.True(t, errors.As(err, &target))
	assert.Len(t, target.Fields, 3)
}
