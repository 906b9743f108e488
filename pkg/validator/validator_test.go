package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Date  string `json:"data" validate:"required,datetime=2006-01-02"`
	Name  string `json:"nome" validate:"min=2"`
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Email: "nope", Date: "20/11/2026", Name: "a"})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "email must be a valid email address", errs["email"])
	assert.Equal(t, "data must match the format 2006-01-02", errs["data"])
	assert.Equal(t, "nome must be at least 2 characters", errs["nome"])
}

func TestValidate_OK(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(sample{Email: "a@example.com", Date: "2026-11-20", Name: "Ana"}))
	assert.Empty(t, v.FormatValidationErrors(nil))
}
