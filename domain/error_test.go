package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", NewProductNotFoundError("pao-1"), "product pao-1 is not in the catalog"},
		{"invalid", NewInvalidProductError("priceNow", "must be non-negative", -2.5), "product rejected: priceNow must be non-negative (got -2.5)"},
		{"duplicate", NewDuplicateProductError("leite-2"), "product leite-2 is already in the catalog"},
		{"sort mode", NewUnknownSortModeError("cheapest"), `unknown sort mode: "cheapest"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"not found", NewProductNotFoundError("x"), &ProductNotFoundError{}},
		{"invalid", NewInvalidProductError("name", "cannot be empty", ""), &InvalidProductError{}},
		{"duplicate", NewDuplicateProductError("x"), &DuplicateProductError{}},
		{"sort mode", NewUnknownSortModeError("x"), &UnknownSortModeError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("import products.json: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.target)
		})
	}
}

func TestErrorsAsConversion(t *testing.T) {
	err := fmt.Errorf("row 3: %w", NewInvalidProductError("distanceKm", "must be non-negative", -1.0))
	var ipe *InvalidProductError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "distanceKm", ipe.Field)
	assert.Equal(t, "must be non-negative", ipe.Reason)
}

func TestErrorTypeDiscrimination(t *testing.T) {
	checks := []struct {
		name string
		fn   func(error) bool
	}{
		{"not found", IsProductNotFoundError},
		{"invalid", IsInvalidProductError},
		{"duplicate", IsDuplicateProductError},
		{"sort mode", IsUnknownSortModeError},
	}
	errs := []error{
		NewProductNotFoundError("a"),
		NewInvalidProductError("name", "cannot be empty", ""),
		NewDuplicateProductError("b"),
		NewUnknownSortModeError("c"),
	}

	for i, err := range errs {
		for j, c := range checks {
			assert.Equal(t, i == j, c.fn(err), "%s helper on %T", c.name, err)
		}
	}

	joined := errors.Join(NewDuplicateProductError("d"), NewInvalidProductError("id", "cannot be empty", ""))
	assert.True(t, IsDuplicateProductError(joined), "helpers see every joined error")
	assert.True(t, IsInvalidProductError(joined))
}
