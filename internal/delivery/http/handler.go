package http

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/carhaven/backend/internal/domain"
	"github.com/carhaven/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// Localizer translates UI strings and negotiates the response language
type Localizer interface {
	domain.Translator
	Match(preferences ...string) string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog       *usecase.CatalogService
	comparison    *usecase.ComparisonService
	images        domain.ImageResolver
	localizer     Localizer
	webhookSecret string
}

// HandlerDeps groups the services a Handler serves. Nil services make their
// endpoints answer 503.
type HandlerDeps struct {
	Catalog       *usecase.CatalogService
	Comparison    *usecase.ComparisonService
	Images        domain.ImageResolver
	Localizer     Localizer
	WebhookSecret string
}

// NewHandler creates a new HTTP handler
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		catalog:       deps.Catalog,
		comparison:    deps.Comparison,
		images:        deps.Images,
		localizer:     deps.Localizer,
		webhookSecret: deps.WebhookSecret,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "carhaven-backend",
		"version": "1.0.0",
	})
}

// ListCars returns the filtered and sorted catalog with its facets
func (h *Handler) ListCars(c *gin.Context) {
	if !h.requireCatalog(c) {
		return
	}

	state, err := domain.ParseFilterState(c.Request.URL.Query())
	if err != nil {
		// filters are permissive; keep whatever decoded
		log.Printf("[HTTP] Filter decode: %v", err)
	}

	page, err := h.catalog.Browse(c.Request.Context(), state)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       h.toCarResponses(page.Items),
		"total":       page.Total,
		"catalogSize": page.CatalogSize,
		"facets":      page.Facets,
		"filters":     page.Filters,
		"sort":        page.Sort,
		"sortOptions": domain.SortKeys,
		"query":       page.Filters.Query().Encode(),
		"sortBase":    page.Filters.WithoutSort().Query().Encode(),
	})
}

// GetFacets returns the filter options; the brand parameter scopes models
func (h *Handler) GetFacets(c *gin.Context) {
	if !h.requireCatalog(c) {
		return
	}

	facets, err := h.catalog.Facets(c.Request.Context(), c.Query("brand"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, facets)
}

// GetCar returns a single car
func (h *Handler) GetCar(c *gin.Context) {
	if !h.requireCatalog(c) {
		return
	}

	car, err := h.catalog.GetCar(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toCarResponse(*car))
}

// Home returns the home page highlights
func (h *Handler) Home(c *gin.Context) {
	if !h.requireCatalog(c) {
		return
	}

	highlights, err := h.catalog.Highlights(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"latest": h.toCarResponses(highlights.Latest),
		"onSale": h.toCarResponses(highlights.OnSale),
	})
}

// RefreshCatalog drops the cached catalog snapshot (content store webhook)
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if !h.requireCatalog(c) {
		return
	}

	// without a configured secret the endpoint stays closed
	given := c.GetHeader(WebhookSecretHeader)
	if h.webhookSecret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.webhookSecret)) != 1 {
		h.respondError(c, domain.ErrUnauthorized)
		return
	}

	dropped, err := h.catalog.Invalidate(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "refreshing", "dropped": dropped})
}

// addComparisonRequest is the body of an add-to-comparison call
type addComparisonRequest struct {
	ID string `json:"id" binding:"required"`
}

// GetComparison returns the visitor's comparison set
func (h *Handler) GetComparison(c *gin.Context) {
	if !h.requireComparison(c) {
		return
	}

	set := h.comparison.List(c.Request.Context(), visitorID(c))
	c.JSON(http.StatusOK, h.toComparisonResponse(set))
}

// AddToComparison adds a car to the visitor's comparison set
func (h *Handler) AddToComparison(c *gin.Context) {
	if !h.requireComparison(c) {
		return
	}

	var req addComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain a car id"})
		return
	}

	set, err := h.comparison.Add(c.Request.Context(), visitorID(c), req.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toComparisonResponse(set))
}

// RemoveFromComparison removes a car from the visitor's comparison set
func (h *Handler) RemoveFromComparison(c *gin.Context) {
	if !h.requireComparison(c) {
		return
	}

	set := h.comparison.Remove(c.Request.Context(), visitorID(c), c.Param("id"))
	c.JSON(http.StatusOK, h.toComparisonResponse(set))
}

// ClearComparison empties the visitor's comparison set
func (h *Handler) ClearComparison(c *gin.Context) {
	if !h.requireComparison(c) {
		return
	}

	set := h.comparison.Clear(c.Request.Context(), visitorID(c))
	c.JSON(http.StatusOK, h.toComparisonResponse(set))
}

// ComparisonView returns the side-by-side table for the visitor's set
func (h *Handler) ComparisonView(c *gin.Context) {
	if !h.requireComparison(c) {
		return
	}

	hideIdentical, _ := strconv.ParseBool(c.Query("hideIdentical"))
	view := h.comparison.View(c.Request.Context(), visitorID(c), hideIdentical)

	lang := ""
	if h.localizer != nil {
		lang = h.localizer.Match(c.Query("lang"), c.GetHeader("Accept-Language"))
		view.Localize(h.localizer, lang)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":         h.toCarResponses(view.Items),
		"sections":      view.Sections,
		"hideIdentical": view.HideIdentical,
		"lang":          lang,
	})
}

func (h *Handler) requireCatalog(c *gin.Context) bool {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog service not configured"})
		return false
	}
	return true
}

func (h *Handler) requireComparison(c *gin.Context) bool {
	if h.comparison == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "comparison service not configured"})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCarNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		log.Printf("[HTTP] Catalog unavailable: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog is currently unavailable"})
	default:
		log.Printf("[HTTP] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
