// Package catalog derives the on-screen product list from a catalog snapshot
// and the current search text, category and sort mode.
package catalog

import (
	"sort"
	"strings"

	"ivalid/domain"
	"ivalid/util"
)

// ViewState is everything the product list screen renders.
// VisibleProducts is derived; it is only ever replaced by Recompute.
type ViewState struct {
	Query              string
	SelectedCategoryID *string
	Categories         []domain.Category
	AllProducts        []domain.Product
	SortMode           domain.SortMode
	VisibleProducts    []domain.Product
}

// Recompute returns s with a freshly built VisibleProducts. The input's slices
// are never written to.
func Recompute(s ViewState) ViewState {
	q := normalizeQuery(s.Query)
	cat := categoryFilter(s.SelectedCategoryID)

	visible := make([]domain.Product, 0, len(s.AllProducts))
	for _, p := range s.AllProducts {
		if !matchesQuery(p, q) {
			continue
		}
		if cat != "" && p.CategoryID != cat {
			continue
		}
		visible = append(visible, p)
	}
	sortProducts(visible, s.SortMode)

	s.VisibleProducts = visible
	return s
}

func normalizeQuery(q string) string {
	return util.FoldText(strings.TrimSpace(q))
}

// categoryFilter returns "" when no category restriction applies.
func categoryFilter(id *string) string {
	if id == nil || *id == domain.AllCategoryID {
		return ""
	}
	return *id
}

func matchesQuery(p domain.Product, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(util.FoldText(p.Name), q) ||
		strings.Contains(util.FoldText(p.Brand), q) ||
		strings.Contains(util.FoldText(p.StoreName), q)
}

func sortProducts(out []domain.Product, mode domain.SortMode) {
	var less func(a, b domain.Product) bool
	switch mode {
	case domain.SortPriceAsc:
		less = func(a, b domain.Product) bool { return a.PriceNow < b.PriceNow }
	case domain.SortPriceDesc:
		less = func(a, b domain.Product) bool { return a.PriceNow > b.PriceNow }
	case domain.SortDiscountAsc:
		less = func(a, b domain.Product) bool { return a.DiscountPercent() < b.DiscountPercent() }
	case domain.SortDiscountDesc:
		less = func(a, b domain.Product) bool { return a.DiscountPercent() > b.DiscountPercent() }
	case domain.SortDistanceAsc:
		less = func(a, b domain.Product) bool { return a.DistanceKm < b.DistanceKm }
	case domain.SortDistanceDesc:
		less = func(a, b domain.Product) bool { return a.DistanceKm > b.DistanceKm }
	default:
		less = func(a, b domain.Product) bool {
			if a.ExpiresInDays != b.ExpiresInDays {
				return a.ExpiresInDays < b.ExpiresInDays
			}
			return a.DiscountPercent() > b.DiscountPercent()
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
}
