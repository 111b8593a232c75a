package domain

import (
	"strconv"
	"strings"
)

// CatalogItem represents a single vehicle listing from the content store
type CatalogItem struct {
	ID            string   `json:"id"`
	Brand         string   `json:"brand"`
	Model         string   `json:"model,omitempty"`
	Year          int      `json:"year,omitempty"`
	CurrentPrice  string   `json:"currentPrice"`
	PreviousPrice string   `json:"previousPrice,omitempty"`
	Mileage       int      `json:"mileage,omitempty"` // kilometers
	Range         int      `json:"range,omitempty"`   // kilometers, electric only
	FuelType      string   `json:"fuelType,omitempty"`
	Transmission  string   `json:"transmission,omitempty"`
	BodyType      string   `json:"bodyType,omitempty"`
	Color         string   `json:"color,omitempty"`
	IsNew         bool     `json:"isNew"`
	IsAvailable   bool     `json:"isAvailable"`
	Features      []string `json:"features,omitempty"`
	Gallery       []string `json:"gallery,omitempty"` // opaque image references
}

// Price returns the parsed amount of CurrentPrice
func (c CatalogItem) Price() int {
	return ParsePrice(c.CurrentPrice)
}

// PreviousPriceAmount returns the parsed amount of PreviousPrice, 0 when absent
func (c CatalogItem) PreviousPriceAmount() int {
	return ParsePrice(c.PreviousPrice)
}

// OnSale reports whether the previous price strictly exceeds the current one
func (c CatalogItem) OnSale() bool {
	if c.PreviousPrice == "" {
		return false
	}
	return c.PreviousPriceAmount() > c.Price()
}

// DetailPath builds the detail page path for the item.
// Missing brand or model segments are replaced by a placeholder so links never break.
func (c CatalogItem) DetailPath() string {
	brand := Slugify(c.Brand)
	if brand == "" {
		brand = placeholderSegment
	}
	model := Slugify(c.Model)
	if model == "" {
		model = placeholderSegment
	}
	return "/cars/" + brand + "/" + model + "/" + c.ID
}

const placeholderSegment = "unknown"

// ParsePrice extracts the integer amount from a display price such as "20,000 €".
// Every non-digit character is dropped; an empty or overflowing result yields 0.
func ParsePrice(display string) int {
	var b strings.Builder
	for _, r := range display {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	amount, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return amount
}

// CatalogPage is the filtered, sorted catalog together with its facets
type CatalogPage struct {
	Items       []CatalogItem `json:"items"`
	Total       int           `json:"total"`
	CatalogSize int           `json:"catalogSize"`
	Facets      Facets        `json:"facets"`
	Filters     FilterState   `json:"filters"`
	Sort        SortKey       `json:"sort"`
}

// Highlights is the marketing selection shown on the home page
type Highlights struct {
	Latest []CatalogItem `json:"latest"`
	OnSale []CatalogItem `json:"onSale"`
}
