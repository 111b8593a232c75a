package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/carhaven/backend/config"
	"github.com/carhaven/backend/internal/domain"
	"github.com/carhaven/backend/internal/infrastructure/cache"
	"github.com/carhaven/backend/internal/infrastructure/cms"
	"github.com/carhaven/backend/internal/infrastructure/i18n"
	"github.com/carhaven/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "test-webhook-secret"

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	// Run tests
	exitCode := m.Run()

	// Exit with the test result code
	os.Exit(exitCode)
}

// stubCatalogClient serves a fixed catalog or a fixed error
type stubCatalogClient struct {
	items []domain.CatalogItem
	err   error
}

func (s *stubCatalogClient) FetchCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		CMS: config.CMSConfig{
			ProjectID: "test-project",
			Dataset:   "production",
		},
		Cache: config.CacheConfig{
			Type: "memory",
		},
	}
}

func testCars() []domain.CatalogItem {
	return []domain.CatalogItem{
		{
			ID: "a", Brand: "Tesla", Model: "Model 3", Year: 2021, CurrentPrice: "20,000 €", PreviousPrice: "22,000 €",
			Mileage: 30000, FuelType: "electric", IsAvailable: true,
			Gallery: []string{"image-abc123-800x600-jpg"},
		},
		{
			ID: "b", Brand: "Tesla", Model: "Model Y", Year: 2023, CurrentPrice: "35,000 €", Mileage: 5000, FuelType: "electric", IsNew: true, IsAvailable: true,
			Gallery: []string{"not-an-asset", "https://img.example.com/b.jpg"},
		},
		{ID: "c", Brand: "BMW", Model: "X5", Year: 2022, CurrentPrice: "25,000 €", Mileage: 15000, FuelType: "diesel", IsAvailable: true},
	}
}

// setupTestRouter creates a test router with the services wired to client.
// A nil client leaves the services unconfigured.
func setupTestRouter(t *testing.T, client domain.CatalogClient) *gin.Engine {
	t.Helper()

	deps := HandlerDeps{WebhookSecret: testWebhookSecret}
	if client != nil {
		store := cache.NewMemoryCache()
		t.Cleanup(func() { _ = store.Close() })

		catalog := usecase.NewCatalogService(store, client, usecase.CatalogServiceConfig{SnapshotTTL: time.Minute})
		translator, err := i18n.NewTranslator()
		require.NoError(t, err)

		deps.Catalog = catalog
		deps.Comparison = usecase.NewComparisonService(store, catalog)
		deps.Images = cms.NewImageResolver("https://cdn.example.com", "test-project", "production")
		deps.Localizer = translator
	}

	return SetupRouter(testConfig(), NewHandler(deps))
}

// visitorSession replays the visitor cookie issued on the first request
type visitorSession struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func (s *visitorSession) do(method, target string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == VisitorCookie {
			s.cookie = cookie
		}
	}
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func responseIDs(t *testing.T, items any) []string {
	t.Helper()
	list, ok := items.([]any)
	require.True(t, ok, "items is not a list: %v", items)
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, item.(map[string]any)["id"].(string))
	}
	return out
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "carhaven-backend", response["service"])
}

func TestUnconfiguredServices(t *testing.T) {
	router := setupTestRouter(t, nil)

	for _, target := range []string{"/api/v1/cars", "/api/v1/cars/a", "/api/v1/home", "/api/v1/comparison"} {
		t.Run(target, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		})
	}
}

func TestListCarsEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubCatalogClient{items: testCars()})
	session := &visitorSession{t: t, router: router}

	t.Run("filters and sorts", func(t *testing.T) {
		w := session.do("GET", "/api/v1/cars?brand=Tesla&sort=priceDesc", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decodeBody(t, w)
		assert.Equal(t, []string{"b", "a"}, responseIDs(t, response["items"]))
		assert.EqualValues(t, 2, response["total"])
		assert.EqualValues(t, 3, response["catalogSize"])
		assert.Equal(t, "priceDesc", response["sort"])
		assert.Equal(t, "brand=Tesla&sort=priceDesc", response["query"])
		assert.Equal(t, "brand=Tesla", response["sortBase"])
	})

	t.Run("min price applies regardless of brand", func(t *testing.T) {
		w := session.do("GET", "/api/v1/cars?minPrice=21000", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"b", "c"}, responseIDs(t, decodeBody(t, w)["items"]))
	})

	t.Run("malformed filters are ignored", func(t *testing.T) {
		w := session.do("GET", "/api/v1/cars?minPrice=cheap&isNew=maybe&sort=random&utm_source=ad", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"a", "b", "c"}, responseIDs(t, decodeBody(t, w)["items"]))
	})

	t.Run("items carry display fields", func(t *testing.T) {
		w := session.do("GET", "/api/v1/cars?model=model-3", nil)
		require.Equal(t, http.StatusOK, w.Code)

		items := decodeBody(t, w)["items"].([]any)
		require.Len(t, items, 1)
		car := items[0].(map[string]any)
		assert.EqualValues(t, 20000, car["price"])
		assert.Equal(t, true, car["onSale"])
		assert.Equal(t, "/cars/tesla/model-3/a", car["detailPath"])
		assert.Equal(t, []any{"https://cdn.example.com/images/test-project/production/abc123-800x600.jpg"}, car["images"])
	})

	t.Run("unresolvable gallery entries are skipped", func(t *testing.T) {
		w := session.do("GET", "/api/v1/cars?model=model-y", nil)
		require.Equal(t, http.StatusOK, w.Code)

		items := decodeBody(t, w)["items"].([]any)
		require.Len(t, items, 1)
		assert.Equal(t, []any{"https://img.example.com/b.jpg"}, items[0].(map[string]any)["images"])
	})

	t.Run("cars without a gallery have no images", func(t *testing.T) {
		w := session.do("GET", "/api/v1/cars/c", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []any{}, decodeBody(t, w)["images"])
	})

	t.Run("facets are scoped by brand", func(t *testing.T) {
		w := session.do("GET", "/api/v1/cars/facets?brand=BMW", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decodeBody(t, w)
		assert.Equal(t, []any{"BMW", "Tesla"}, response["brands"])
		models := response["models"].([]any)
		require.Len(t, models, 1)
		assert.Equal(t, "x5", models[0].(map[string]any)["value"])
	})
}

func TestGetCarEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubCatalogClient{items: testCars()})
	session := &visitorSession{t: t, router: router}

	w := session.do("GET", "/api/v1/cars/c", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BMW", decodeBody(t, w)["brand"])

	w = session.do("GET", "/api/v1/cars/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHomeEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubCatalogClient{items: testCars()})
	session := &visitorSession{t: t, router: router}

	w := session.do("GET", "/api/v1/home", nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, []string{"a", "b", "c"}, responseIDs(t, response["latest"]))
	assert.Equal(t, []string{"a"}, responseIDs(t, response["onSale"]))
}

func TestCatalogUnavailable(t *testing.T) {
	router := setupTestRouter(t, &stubCatalogClient{err: domain.ErrCatalogUnavailable})
	session := &visitorSession{t: t, router: router}

	w := session.do("GET", "/api/v1/cars", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "items")

	w = session.do("POST", "/api/v1/comparison/items", map[string]string{"id": "a"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRefreshCatalogEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubCatalogClient{items: testCars()})

	t.Run("rejects a missing secret", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/catalog/refresh", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts the configured secret", func(t *testing.T) {
		session := &visitorSession{t: t, router: router}
		require.Equal(t, http.StatusOK, session.do("GET", "/api/v1/cars", nil).Code)

		refresh := func() map[string]any {
			req := httptest.NewRequest("POST", "/api/v1/catalog/refresh", nil)
			req.Header.Set(WebhookSecretHeader, testWebhookSecret)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			require.Equal(t, http.StatusAccepted, w.Code)
			return decodeBody(t, w)
		}

		assert.Equal(t, true, refresh()["dropped"])
		assert.Equal(t, false, refresh()["dropped"])
	})
}

func TestComparisonFlow(t *testing.T) {
	router := setupTestRouter(t, &stubCatalogClient{items: testCars()})
	session := &visitorSession{t: t, router: router}

	w := session.do("GET", "/api/v1/comparison", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, session.cookie, "expected a visitor cookie")
	response := decodeBody(t, w)
	assert.EqualValues(t, 0, response["count"])
	assert.EqualValues(t, domain.MaxComparisonItems, response["max"])

	for _, id := range []string{"a", "b"} {
		w = session.do("POST", "/api/v1/comparison/items", map[string]string{"id": id})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["changed"])
	}

	w = session.do("POST", "/api/v1/comparison/items", map[string]string{"id": "a"})
	require.Equal(t, http.StatusOK, w.Code)
	response = decodeBody(t, w)
	assert.Equal(t, false, response["changed"])
	assert.Equal(t, []string{"a", "b"}, responseIDs(t, response["items"]))

	w = session.do("GET", "/api/v1/comparison/view?hideIdentical=true&lang=de", nil)
	require.Equal(t, http.StatusOK, w.Code)
	response = decodeBody(t, w)
	assert.Equal(t, "de", response["lang"])
	assert.NotContains(t, w.Body.String(), `"key":"brand"`)
	assert.Contains(t, w.Body.String(), `"key":"currentPrice"`)
	assert.Contains(t, w.Body.String(), `"label":"Preis"`)

	w = session.do("DELETE", "/api/v1/comparison/items/a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"b"}, responseIDs(t, decodeBody(t, w)["items"]))

	w = session.do("DELETE", "/api/v1/comparison", nil)
	require.Equal(t, http.StatusOK, w.Code)
	response = decodeBody(t, w)
	assert.EqualValues(t, 0, response["count"])
	assert.Equal(t, true, response["changed"])
}

func TestComparisonIsScopedToVisitor(t *testing.T) {
	router := setupTestRouter(t, &stubCatalogClient{items: testCars()})
	alice := &visitorSession{t: t, router: router}
	bob := &visitorSession{t: t, router: router}

	w := alice.do("POST", "/api/v1/comparison/items", map[string]string{"id": "c"})
	require.Equal(t, http.StatusOK, w.Code)

	w = bob.do("GET", "/api/v1/comparison", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decodeBody(t, w)["count"])

	w = alice.do("GET", "/api/v1/comparison", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"c"}, responseIDs(t, decodeBody(t, w)["items"]))
}

func TestAddToComparisonValidation(t *testing.T) {
	router := setupTestRouter(t, &stubCatalogClient{items: testCars()})
	session := &visitorSession{t: t, router: router}

	w := session.do("POST", "/api/v1/comparison/items", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = session.do("POST", "/api/v1/comparison/items", map[string]string{"id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(t, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter(t, nil)
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

	// Gin's default recovery returns 500
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubCatalogClient{items: testCars()})
	session := &visitorSession{t: t, router: router}
	session.do("GET", "/api/v1/cars", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "carhaven_catalog_fetches_total")
}
