package domain

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
)

// FilterState is the set of catalog filters carried in the page query string.
// Every field is kept as the raw query value; an empty value means no constraint.
type FilterState struct {
	Brand        string `json:"brand,omitempty" schema:"brand,omitempty"`
	Model        string `json:"model,omitempty" schema:"model,omitempty"` // normalized, see NormalizeModel
	Year         string `json:"year,omitempty" schema:"year,omitempty"`
	MinPrice     string `json:"minPrice,omitempty" schema:"minPrice,omitempty"`
	MaxPrice     string `json:"maxPrice,omitempty" schema:"maxPrice,omitempty"`
	MinMileage   string `json:"minMileage,omitempty" schema:"minMileage,omitempty"`
	MaxMileage   string `json:"maxMileage,omitempty" schema:"maxMileage,omitempty"`
	FuelType     string `json:"fuelType,omitempty" schema:"fuelType,omitempty"`
	Transmission string `json:"transmission,omitempty" schema:"transmission,omitempty"`
	BodyType     string `json:"bodyType,omitempty" schema:"bodyType,omitempty"`
	Color        string `json:"color,omitempty" schema:"color,omitempty"`
	IsNew        string `json:"isNew,omitempty" schema:"isNew,omitempty"`
	IsAvailable  string `json:"isAvailable,omitempty" schema:"isAvailable,omitempty"`
	Sort         string `json:"sort,omitempty" schema:"sort,omitempty"`
}

var (
	queryDecoder = schema.NewDecoder()
	queryEncoder = schema.NewEncoder()
)

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// ParseFilterState reads a FilterState from URL query values.
// Unknown parameters are ignored.
func ParseFilterState(query url.Values) (FilterState, error) {
	var state FilterState
	if err := queryDecoder.Decode(&state, query); err != nil {
		return state, err
	}
	return state, nil
}

// Query serializes the state back into URL query values, skipping empty filters
func (f FilterState) Query() url.Values {
	values := url.Values{}
	if err := queryEncoder.Encode(f, values); err != nil {
		return url.Values{}
	}
	return values
}

// SortKey returns the parsed sort parameter
func (f FilterState) SortKey() SortKey {
	return ParseSortKey(f.Sort)
}

// WithoutSort returns a copy of the state with the sort parameter cleared
func (f FilterState) WithoutSort() FilterState {
	f.Sort = ""
	return f
}

// Matches reports whether item satisfies every active filter
func (f FilterState) Matches(item CatalogItem) bool {
	if f.Brand != "" && !strings.EqualFold(item.Brand, f.Brand) {
		return false
	}
	if f.Model != "" && NormalizeModel(item.Model) != f.Model {
		return false
	}
	if year, ok := parseInteger(f.Year); ok && item.Year != year {
		return false
	}

	price := float64(item.Price())
	if lo, ok := parseBound(f.MinPrice); ok && price < lo {
		return false
	}
	if hi, ok := parseBound(f.MaxPrice); ok && price > hi {
		return false
	}

	mileage := float64(item.Mileage)
	if lo, ok := parseBound(f.MinMileage); ok && mileage < lo {
		return false
	}
	if hi, ok := parseBound(f.MaxMileage); ok && mileage > hi {
		return false
	}

	if f.FuelType != "" && item.FuelType != f.FuelType {
		return false
	}
	if f.Transmission != "" && item.Transmission != f.Transmission {
		return false
	}
	if f.BodyType != "" && item.BodyType != f.BodyType {
		return false
	}
	if f.Color != "" && item.Color != f.Color {
		return false
	}

	if want, ok := parseTriState(f.IsNew); ok && item.IsNew != want {
		return false
	}
	if want, ok := parseTriState(f.IsAvailable); ok && item.IsAvailable != want {
		return false
	}

	return true
}

// Apply returns the items matching every active filter, in their original order
func (f FilterState) Apply(items []CatalogItem) []CatalogItem {
	matched := make([]CatalogItem, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			matched = append(matched, item)
		}
	}
	return matched
}

// parseBound parses a numeric range bound. Anything that is not a finite number is absent.
func parseBound(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func parseInteger(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

// parseTriState maps "true"/"false" to an active boolean filter; anything else is inactive
func parseTriState(raw string) (bool, bool) {
	switch raw {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
