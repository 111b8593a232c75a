package cms

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/carhaven/backend/internal/domain"
)

// cmsCar is a car document as returned by the query API
type cmsCar struct {
	ID            string     `json:"_id"`
	Brand         string     `json:"brand"`
	Model         string     `json:"model"`
	Year          flexNumber `json:"year"`
	CurrentPrice  flexString `json:"currentPrice"`
	PreviousPrice flexString `json:"previousPrice"`
	Mileage       flexNumber `json:"mileage"`
	Range         flexNumber `json:"range"`
	FuelType      string     `json:"fuelType"`
	Transmission  string     `json:"transmission"`
	BodyType      string     `json:"bodyType"`
	Color         string     `json:"color"`
	IsNew         *bool      `json:"isNew"`
	IsAvailable   *bool      `json:"isAvailable"`
	Features      []string   `json:"features"`
	Gallery       []cmsImage `json:"gallery"`
}

type cmsImage struct {
	Asset struct {
		Ref string `json:"_ref"`
		URL string `json:"url"`
	} `json:"asset"`
}

// flexNumber accepts a JSON number, a numeric string or null
type flexNumber int

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexNumber(int(value))
	return nil
}

// flexString accepts a JSON string or a bare number
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*s = flexString(value)
		return nil
	}
	if string(data) == "null" {
		*s = ""
		return nil
	}
	*s = flexString(data)
	return nil
}

// MapToCatalogItems converts content store documents to domain items.
// Documents without an id or brand are dropped.
func MapToCatalogItems(docs []cmsCar) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" || strings.TrimSpace(doc.Brand) == "" {
			continue
		}
		items = append(items, mapToCatalogItem(doc))
	}
	return items
}

func mapToCatalogItem(doc cmsCar) domain.CatalogItem {
	item := domain.CatalogItem{
		ID:            doc.ID,
		Brand:         strings.TrimSpace(doc.Brand),
		Model:         strings.TrimSpace(doc.Model),
		Year:          int(doc.Year),
		CurrentPrice:  string(doc.CurrentPrice),
		PreviousPrice: string(doc.PreviousPrice),
		Mileage:       int(doc.Mileage),
		Range:         int(doc.Range),
		FuelType:      doc.FuelType,
		Transmission:  doc.Transmission,
		BodyType:      doc.BodyType,
		Color:         doc.Color,
		IsNew:         boolOr(doc.IsNew, false),
		IsAvailable:   boolOr(doc.IsAvailable, true), // unset means not sold
		Features:      doc.Features,
	}

	for _, image := range doc.Gallery {
		ref := image.Asset.Ref
		if ref == "" {
			ref = image.Asset.URL
		}
		if ref != "" {
			item.Gallery = append(item.Gallery, ref)
		}
	}
	return item
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
