package store

import (
	"errors"
	"fmt"

	"ivalid/domain"
	"ivalid/util"
)

// prepareImport assigns ids to products that lack one, validates them and
// drops duplicates, both against exists and within the batch. Accepted
// products keep their input order; every rejection is reported.
func prepareImport(products []domain.Product, exists func(id string) bool) ([]domain.Product, error) {
	accepted := make([]domain.Product, 0, len(products))
	seen := make(map[string]bool, len(products))
	var errs []error

	for i, p := range products {
		if p.ID == "" {
			p.ID = util.NewID()
		}
		if err := domain.ValidateProduct(p); err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		if seen[p.ID] || exists(p.ID) {
			errs = append(errs, fmt.Errorf("row %d: %w", i+1, domain.NewDuplicateProductError(p.ID)))
			continue
		}
		seen[p.ID] = true
		accepted = append(accepted, p)
	}
	return accepted, errors.Join(errs...)
}

// prepareCategories rejects a category list with an invalid or repeated id.
// The list replaces the stored one as a whole, so any failure rejects all of it.
func prepareCategories(categories []domain.Category) error {
	seen := make(map[string]bool, len(categories))
	var errs []error
	for i, c := range categories {
		if err := domain.ValidateCategory(c); err != nil {
			errs = append(errs, fmt.Errorf("category %d: %w", i+1, err))
			continue
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Errorf("category %d: duplicate id %s", i+1, c.ID))
			continue
		}
		seen[c.ID] = true
	}
	return errors.Join(errs...)
}
