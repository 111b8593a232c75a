package http

import "github.com/carhaven/backend/internal/domain"

// carResponse is a catalog item enriched for display
type carResponse struct {
	domain.CatalogItem
	Price               int      `json:"price"`
	PreviousPriceAmount int      `json:"previousPriceAmount,omitempty"`
	OnSale              bool     `json:"onSale"`
	DetailPath          string   `json:"detailPath"`
	Images              []string `json:"images"`
}

// comparisonResponse is a comparison set with display-ready items
type comparisonResponse struct {
	Items   []carResponse `json:"items"`
	Count   int           `json:"count"`
	Max     int           `json:"max"`
	Full    bool          `json:"full"`
	Changed bool          `json:"changed"`
}

func (h *Handler) toCarResponse(item domain.CatalogItem) carResponse {
	images := []string{}
	if h.images != nil {
		images = h.images.ResolveAll(item.Gallery)
	}

	return carResponse{
		CatalogItem:         item,
		Price:               item.Price(),
		PreviousPriceAmount: item.PreviousPriceAmount(),
		OnSale:              item.OnSale(),
		DetailPath:          item.DetailPath(),
		Images:              images,
	}
}

func (h *Handler) toCarResponses(items []domain.CatalogItem) []carResponse {
	responses := make([]carResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, h.toCarResponse(item))
	}
	return responses
}

func (h *Handler) toComparisonResponse(set domain.ComparisonSet) comparisonResponse {
	return comparisonResponse{
		Items:   h.toCarResponses(set.Items),
		Count:   set.Count,
		Max:     set.Max,
		Full:    set.Full,
		Changed: set.Changed,
	}
}
