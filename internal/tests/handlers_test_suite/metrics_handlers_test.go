package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	handler "github.com/rogerio-castellano/inventory-dashboard/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-dashboard/internal/http/router"
	"github.com/rogerio-castellano/inventory-dashboard/internal/inventory"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

func seedMetrics(t *testing.T, env *testEnv) {
	t.Helper()
	for _, p := range []handler.ProductRequest{
		{CategoryID: 1, Name: "Milk", UnitPrice: 1.2, Stock: 10},
		{CategoryID: 1, Name: "Cheese", UnitPrice: 3.333, Stock: 0},
		{CategoryID: 2, Name: "Bread", UnitPrice: 2.5, Stock: 4},
	} {
		require.Equal(t, http.StatusCreated, env.createProduct(p).Code)
	}
}

func TestGetMetricsHandler(t *testing.T) {
	env := setupTestEnv(t)
	seedMetrics(t, env)

	w := env.send(http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []handler.MetricRow
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rows))
	require.Equal(t, []handler.MetricRow{
		{Category: "Bakery", TotalProducts: 4, TotalValue: "10.00", AveragePrice: "2.50"},
		{Category: "Dairy", TotalProducts: 10, TotalValue: "12.00", AveragePrice: "1.20"},
		{Category: "Overall", TotalProducts: 14, TotalValue: "22.00", AveragePrice: "1.85"},
	}, rows)
}

func TestGetCategoriesAndOverview(t *testing.T) {
	env := setupTestEnv(t)
	seedMetrics(t, env)

	w := env.send(http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []models.Category
	require.NoError(t, json.NewDecoder(w.Body).Decode(&categories))
	require.Len(t, categories, 4)

	w = env.send(http.MethodGet, "/api/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overview handler.OverviewResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&overview))
	require.Equal(t, categories, overview.Categories)
	require.Len(t, overview.Metrics, 3)
	require.Equal(t, "Overall", overview.Metrics[2].Category)

	env.api.Close()
	w = env.send(http.MethodGet, "/api/overview", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
	w = env.send(http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestMetricRows_Empty(t *testing.T) {
	rows := handler.MetricRows(models.Metrics{})
	require.Equal(t, []handler.MetricRow{{Category: "Overall", TotalValue: "0.00", AveragePrice: "0.00"}}, rows)
}

func TestLoginHandler(t *testing.T) {
	env := setupTestEnv(t)

	body, _ := json.Marshal(handler.UserLogin{Username: adminUser, Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	disabled := router.NewRouter(router.Config{
		Server: handler.NewServer(inventory.NewStore(nil), nil, handler.Options{}),
	})
	req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w = httptest.NewRecorder()
	disabled.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestHealthAndPrometheus(t *testing.T) {
	env := setupTestEnv(t)
	seedMetrics(t, env)

	w := env.send(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = env.send(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	out, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	require.Contains(t, string(out), `inventory_dashboard_store_transitions_total{op="create",outcome="ok"} 3`)
	require.Contains(t, string(out), "inventory_dashboard_products 3")
}

func TestMalformedToken(t *testing.T) {
	env := setupTestEnv(t)
	env.token = "not.a.token"

	w := env.createProduct(handler.ProductRequest{CategoryID: 1, Name: "Milk"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
