package domain

import "slices"

// ComparisonAttribute is one comparable row of the comparison table
type ComparisonAttribute struct {
	Key   string
	Value func(CatalogItem) any
}

// ComparisonSection groups attributes under a heading
type ComparisonSection struct {
	Key        string
	Attributes []ComparisonAttribute
}

// DefaultComparisonSections is the fixed, ordered layout of the comparison table
var DefaultComparisonSections = []ComparisonSection{
	{
		Key: "highlights",
		Attributes: []ComparisonAttribute{
			{Key: "brand", Value: func(c CatalogItem) any { return c.Brand }},
			{Key: "model", Value: func(c CatalogItem) any { return c.Model }},
			{Key: "year", Value: func(c CatalogItem) any { return c.Year }},
			{Key: "currentPrice", Value: func(c CatalogItem) any { return c.CurrentPrice }},
			{Key: "mileage", Value: func(c CatalogItem) any { return c.Mileage }},
			{Key: "range", Value: func(c CatalogItem) any { return c.Range }},
		},
	},
	{
		Key: "details",
		Attributes: []ComparisonAttribute{
			{Key: "fuelType", Value: func(c CatalogItem) any { return c.FuelType }},
			{Key: "transmission", Value: func(c CatalogItem) any { return c.Transmission }},
			{Key: "bodyType", Value: func(c CatalogItem) any { return c.BodyType }},
			{Key: "color", Value: func(c CatalogItem) any { return c.Color }},
			{Key: "isNew", Value: func(c CatalogItem) any { return c.IsNew }},
			{Key: "isAvailable", Value: func(c CatalogItem) any { return c.IsAvailable }},
		},
	},
	{
		Key: "features",
		Attributes: []ComparisonAttribute{
			{Key: "features", Value: func(c CatalogItem) any { return c.Features }},
		},
	},
}

// ComparisonRow holds one attribute's value for every compared item
type ComparisonRow struct {
	Key       string `json:"key"`
	Label     string `json:"label,omitempty"`
	Values    []any  `json:"values"`
	Identical bool   `json:"identical"`
}

// ComparisonViewSection is a section with at least one visible row
type ComparisonViewSection struct {
	Key   string          `json:"key"`
	Label string          `json:"label,omitempty"`
	Rows  []ComparisonRow `json:"rows"`
}

// ComparisonView is the projected comparison table
type ComparisonView struct {
	Items         []CatalogItem           `json:"items"`
	Sections      []ComparisonViewSection `json:"sections"`
	HideIdentical bool                    `json:"hideIdentical"`
}

// ProjectComparison computes, for every attribute, whether all entries agree.
// With hideIdentical set, agreeing rows are dropped and empty sections omitted.
func ProjectComparison(entries []CatalogItem, sections []ComparisonSection, hideIdentical bool) ComparisonView {
	view := ComparisonView{
		Items:         entries,
		Sections:      make([]ComparisonViewSection, 0, len(sections)),
		HideIdentical: hideIdentical,
	}
	if view.Items == nil {
		view.Items = []CatalogItem{}
	}

	for _, section := range sections {
		rows := make([]ComparisonRow, 0, len(section.Attributes))
		for _, attr := range section.Attributes {
			values := make([]any, len(entries))
			for i, entry := range entries {
				values[i] = attr.Value(entry)
			}
			identical := allIdentical(values)
			if hideIdentical && identical {
				continue
			}
			rows = append(rows, ComparisonRow{Key: attr.Key, Values: values, Identical: identical})
		}
		if len(rows) == 0 {
			continue
		}
		view.Sections = append(view.Sections, ComparisonViewSection{Key: section.Key, Rows: rows})
	}
	return view
}

// Localize fills section and row labels from the translator
func (v *ComparisonView) Localize(t Translator, lang string) {
	for i := range v.Sections {
		section := &v.Sections[i]
		section.Label = t.Translate(lang, "compare.section."+section.Key, nil)
		for j := range section.Rows {
			row := &section.Rows[j]
			row.Label = t.Translate(lang, "compare.attribute."+row.Key, nil)
		}
	}
}

func allIdentical(values []any) bool {
	for i := 1; i < len(values); i++ {
		if !valuesEqual(values[0], values[i]) {
			return false
		}
	}
	return true
}

// valuesEqual compares primitives directly and string lists as ordered sequences
func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case []string:
		bv, ok := b.([]string)
		return ok && slices.Equal(av, bv)
	case string, int, bool:
		return a == b
	default:
		return false
	}
}
