package domain

import (
	"cmp"
	"slices"
	"strings"
)

// FacetOption is a selectable filter value with its display label
type FacetOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Range is the inclusive span of a numeric attribute across the catalog
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Facets holds the distinct values available for each filterable attribute
type Facets struct {
	Brands        []string      `json:"brands"`
	Models        []FacetOption `json:"models"`
	Years         []int         `json:"years"`
	FuelTypes     []string      `json:"fuelTypes"`
	Transmissions []string      `json:"transmissions"`
	BodyTypes     []string      `json:"bodyTypes"`
	Colors        []string      `json:"colors"`
	PriceRange    Range         `json:"priceRange"`
	MileageRange  Range         `json:"mileageRange"`
}

// ExtractFacets scans the full, unfiltered catalog. Only the model facet depends
// on a filter: when brand is set, models of other brands are left out.
func ExtractFacets(items []CatalogItem, brand string) Facets {
	brands := newStringSet()
	fuelTypes := newStringSet()
	transmissions := newStringSet()
	bodyTypes := newStringSet()
	colors := newStringSet()
	years := map[int]struct{}{}
	models := map[string]string{} // normalized -> first seen label

	var price, mileage Range
	for i, item := range items {
		brands.add(item.Brand)
		fuelTypes.add(item.FuelType)
		transmissions.add(item.Transmission)
		bodyTypes.add(item.BodyType)
		colors.add(item.Color)
		if item.Year != 0 {
			years[item.Year] = struct{}{}
		}

		if item.Model != "" && (brand == "" || strings.EqualFold(item.Brand, brand)) {
			value := NormalizeModel(item.Model)
			if _, seen := models[value]; !seen {
				models[value] = item.Model
			}
		}

		p := item.Price()
		if i == 0 {
			price = Range{Min: p, Max: p}
			mileage = Range{Min: item.Mileage, Max: item.Mileage}
			continue
		}
		price.Min, price.Max = min(price.Min, p), max(price.Max, p)
		mileage.Min, mileage.Max = min(mileage.Min, item.Mileage), max(mileage.Max, item.Mileage)
	}

	modelOptions := make([]FacetOption, 0, len(models))
	for value, label := range models {
		modelOptions = append(modelOptions, FacetOption{Label: label, Value: value})
	}
	slices.SortFunc(modelOptions, func(a, b FacetOption) int {
		return cmp.Or(cmp.Compare(a.Label, b.Label), cmp.Compare(a.Value, b.Value))
	})

	yearList := make([]int, 0, len(years))
	for year := range years {
		yearList = append(yearList, year)
	}
	// newest first
	slices.SortFunc(yearList, func(a, b int) int { return cmp.Compare(b, a) })

	return Facets{
		Brands:        brands.sorted(),
		Models:        modelOptions,
		Years:         yearList,
		FuelTypes:     fuelTypes.sorted(),
		Transmissions: transmissions.sorted(),
		BodyTypes:     bodyTypes.sorted(),
		Colors:        colors.sorted(),
		PriceRange:    price,
		MileageRange:  mileage,
	}
}

type stringSet map[string]struct{}

func newStringSet() stringSet {
	return stringSet{}
}

func (s stringSet) add(value string) {
	if value != "" {
		s[value] = struct{}{}
	}
}

func (s stringSet) sorted() []string {
	values := make([]string, 0, len(s))
	for value := range s {
		values = append(values, value)
	}
	slices.Sort(values)
	return values
}
