package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `validate:"required"`
	Count  int    `validate:"gte=0"`
	Status string `validate:"oneof=draft confirmed"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(sample{Name: "a", Status: "draft"}))

	err := ValidateStruct(sample{Count: -1, Status: "gone"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "sample.Name")
	assert.Contains(t, err.Error(), "must be >= 0")
	assert.Contains(t, err.Error(), "must be one of: draft confirmed")
}
