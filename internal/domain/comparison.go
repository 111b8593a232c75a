package domain

// MaxComparisonItems is the upper bound of a comparison set
const MaxComparisonItems = 5

// ComparisonSet is the state of a visitor's comparison tray
type ComparisonSet struct {
	Items   []CatalogItem `json:"items"`
	Count   int           `json:"count"`
	Max     int           `json:"max"`
	Full    bool          `json:"full"`
	Changed bool          `json:"changed"`
}

// NewComparisonSet wraps the current entries of a comparison tray
func NewComparisonSet(items []CatalogItem, changed bool) ComparisonSet {
	if items == nil {
		items = []CatalogItem{}
	}
	return ComparisonSet{
		Items:   items,
		Count:   len(items),
		Max:     MaxComparisonItems,
		Full:    len(items) >= MaxComparisonItems,
		Changed: changed,
	}
}
