package domain

import (
	"cmp"
	"slices"
)

// SortKey selects the ordering of the catalog list
type SortKey string

const (
	SortNone        SortKey = ""
	SortPriceAsc    SortKey = "priceAsc"
	SortPriceDesc   SortKey = "priceDesc"
	SortYearAsc     SortKey = "yearAsc"
	SortYearDesc    SortKey = "yearDesc"
	SortMileageAsc  SortKey = "mileageAsc"
	SortMileageDesc SortKey = "mileageDesc"
)

// SortKeys lists every selectable key in display order
var SortKeys = []SortKey{
	SortPriceAsc, SortPriceDesc,
	SortYearAsc, SortYearDesc,
	SortMileageAsc, SortMileageDesc,
}

// ParseSortKey maps a query value to a SortKey. Unknown values mean no sorting.
func ParseSortKey(raw string) SortKey {
	key := SortKey(raw)
	if slices.Contains(SortKeys, key) {
		return key
	}
	return SortNone
}

// SortItems returns a new slice ordered by key. The input is never modified.
// Equal keys keep their incoming order; no secondary key is applied.
func SortItems(items []CatalogItem, key SortKey) []CatalogItem {
	sorted := slices.Clone(items)
	if sorted == nil {
		sorted = []CatalogItem{}
	}

	var extract func(CatalogItem) int
	descending := false
	switch key {
	case SortPriceAsc, SortPriceDesc:
		extract = CatalogItem.Price
		descending = key == SortPriceDesc
	case SortYearAsc, SortYearDesc:
		extract = func(c CatalogItem) int { return c.Year }
		descending = key == SortYearDesc
	case SortMileageAsc, SortMileageDesc:
		extract = func(c CatalogItem) int { return c.Mileage }
		descending = key == SortMileageDesc
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b CatalogItem) int {
		if descending {
			return cmp.Compare(extract(b), extract(a))
		}
		return cmp.Compare(extract(a), extract(b))
	})
	return sorted
}
