package domain

import "strings"

// SortMode selects the ordering of the visible catalog
type SortMode int

const (
	// SortDefault orders by ascending expiry, then by descending discount.
	SortDefault SortMode = iota
	SortPriceAsc
	SortPriceDesc
	SortDiscountAsc
	SortDiscountDesc
	SortDistanceAsc
	SortDistanceDesc
)

var sortModeNames = [...]string{
	SortDefault:      "default",
	SortPriceAsc:     "price-asc",
	SortPriceDesc:    "price-desc",
	SortDiscountAsc:  "discount-asc",
	SortDiscountDesc: "discount-desc",
	SortDistanceAsc:  "distance-asc",
	SortDistanceDesc: "distance-desc",
}

// SortModes lists every mode in declaration order.
func SortModes() []SortMode {
	return []SortMode{
		SortDefault,
		SortPriceAsc,
		SortPriceDesc,
		SortDiscountAsc,
		SortDiscountDesc,
		SortDistanceAsc,
		SortDistanceDesc,
	}
}

func (m SortMode) String() string {
	if m < 0 || int(m) >= len(sortModeNames) {
		return "unknown"
	}
	return sortModeNames[m]
}

// ParseSortMode accepts names like "price-asc" or "PRICE_ASC".
// An empty name is SortDefault.
func ParseSortMode(name string) (SortMode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	if n == "" {
		return SortDefault, nil
	}
	for i, s := range sortModeNames {
		if s == n {
			return SortMode(i), nil
		}
	}
	return SortDefault, NewUnknownSortModeError(name)
}
