// Package domain defines error types for the storefront.
package domain

import (
	"errors"
	"fmt"
)

// ProductNotFoundError means the id is absent from the catalog the caller
// looked in: a session snapshot or a data source.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s is not in the catalog", e.ProductID)
}

// Is matches any *ProductNotFoundError regardless of id.
func (e *ProductNotFoundError) Is(target error) bool {
	_, ok := target.(*ProductNotFoundError)
	return ok
}

// InvalidProductError rejects an incoming product before it reaches a source.
// Field uses the JSON name, so it can be matched against the import file.
type InvalidProductError struct {
	Field  string
	Reason string
	Value  interface{}
}

func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("product rejected: %s %s (got %v)", e.Field, e.Reason, e.Value)
}

func (e *InvalidProductError) Is(target error) bool {
	_, ok := target.(*InvalidProductError)
	return ok
}

// DuplicateProductError rejects an import row whose id is already listed,
// either in the source or earlier in the same batch.
type DuplicateProductError struct {
	ProductID string
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("product %s is already in the catalog", e.ProductID)
}

func (e *DuplicateProductError) Is(target error) bool {
	_, ok := target.(*DuplicateProductError)
	return ok
}

// UnknownSortModeError is returned by ParseSortMode for an unrecognized name.
type UnknownSortModeError struct {
	Name string
}

func (e *UnknownSortModeError) Error() string {
	return fmt.Sprintf("unknown sort mode: %q", e.Name)
}

func (e *UnknownSortModeError) Is(target error) bool {
	_, ok := target.(*UnknownSortModeError)
	return ok
}

func NewProductNotFoundError(productID string) error {
	return &ProductNotFoundError{ProductID: productID}
}

func NewInvalidProductError(field, reason string, value interface{}) error {
	return &InvalidProductError{Field: field, Reason: reason, Value: value}
}

func NewDuplicateProductError(productID string) error {
	return &DuplicateProductError{ProductID: productID}
}

func NewUnknownSortModeError(name string) error {
	return &UnknownSortModeError{Name: name}
}

// IsProductNotFoundError reports whether err, or anything it wraps or joins,
// is a *ProductNotFoundError. The other IsX helpers work the same way.
func IsProductNotFoundError(err error) bool {
	var target *ProductNotFoundError
	return errors.As(err, &target)
}

func IsInvalidProductError(err error) bool {
	var target *InvalidProductError
	return errors.As(err, &target)
}

func IsDuplicateProductError(err error) bool {
	var target *DuplicateProductError
	return errors.As(err, &target)
}

func IsUnknownSortModeError(err error) bool {
	var target *UnknownSortModeError
	return errors.As(err, &target)
}
