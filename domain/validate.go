package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateProduct checks an incoming product before it enters a data source.
// The catalog engine itself never validates; it accepts whatever it is given.
func ValidateProduct(p Product) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return NewInvalidProductError(fieldName(fe.Field()), reason(fe), fe.Value())
}

// ValidateCategory checks a category before it replaces a source's list.
func ValidateCategory(c Category) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return fmt.Errorf("invalid category: field=%s, reason=%s", fieldName(fe.Field()), reason(fe))
}

var fieldNames = map[string]string{
	"ID":            "id",
	"Name":          "name",
	"DistanceKm":    "distanceKm",
	"PriceOriginal": "priceOriginal",
	"PriceNow":      "priceNow",
}

func fieldName(f string) string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return strings.ToLower(f)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "cannot be empty"
	case "gte":
		return "must be non-negative"
	default:
		return fe.Tag()
	}
}
