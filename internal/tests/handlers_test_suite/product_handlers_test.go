package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	handler "github.com/rogerio-castellano/inventory-dashboard/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-dashboard/internal/inventory"
	"github.com/rogerio-castellano/inventory-dashboard/internal/logx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

func TestMain(m *testing.M) {
	logx.Init(logx.LoggerOpts{Environment: logx.Testing})
	os.Exit(m.Run())
}

func TestCreateProductHandler_Valid(t *testing.T) {
	env := setupTestEnv(t)
	exp := models.NewDate(2026, 3, 5)

	w := env.createProduct(handler.ProductRequest{CategoryID: 1, Name: "Milk", UnitPrice: 1.2, Stock: 7, ExpirationDate: &exp})

	require.Equal(t, http.StatusCreated, w.Code)
	var row rowResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&row))
	require.Equal(t, 1, row.ID)
	require.Equal(t, "Dairy", row.Category)
	require.Equal(t, "warning", row.StockLevel)
	require.False(t, row.OutOfStock)
	require.Equal(t, "sooner", row.Expiration)
	require.Equal(t, "2026-03-05", row.ExpirationDate)

	resp := env.listProducts(t)
	require.Equal(t, handler.Meta{Total: 1, Shown: 1}, resp.Meta)
	require.Equal(t, row, resp.Data[0])
}

func TestCreateProductHandler_Invalid(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name    string
		payload handler.ProductRequest
		message string
	}{
		{
			name:    "Empty name",
			payload: handler.ProductRequest{CategoryID: 1, Name: "", UnitPrice: 1},
			message: "Error while creating product: Name is required",
		},
		{
			name:    "Unknown category",
			payload: handler.ProductRequest{CategoryID: 9, Name: "Tea", UnitPrice: 1},
			message: "Error while creating product: Category does not exist",
		},
		{
			name:    "Negative stock",
			payload: handler.ProductRequest{CategoryID: 4, Name: "Tea", UnitPrice: 1, Stock: -1},
			message: "Error while creating product: Stock cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.createProduct(tt.payload)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, tt.message, errorBody(t, w))
		})
	}

	require.Zero(t, env.store.Size())
}

func TestCreateProductHandler_MalformedBody(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid input", errorBody(t, w))
}

func TestMutations_RequireToken(t *testing.T) {
	env := setupTestEnv(t)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/1"},
		{http.MethodDelete, "/api/products/1"},
		{http.MethodPost, "/api/products/import"},
	}
	for _, rq := range requests {
		t.Run(rq.method+" "+rq.path, func(t *testing.T) {
			req := httptest.NewRequest(rq.method, rq.path, nil)
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)
			require.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestUpdateProductHandler(t *testing.T) {
	env := setupTestEnv(t)
	require.Equal(t, http.StatusCreated, env.createProduct(handler.ProductRequest{CategoryID: 2, Name: "Bread", UnitPrice: 2, Stock: 20}).Code)

	w := env.send(http.MethodPut, "/api/products/1", handler.ProductRequest{CategoryID: 2, Name: "Bread", UnitPrice: 2.2, Stock: 0})
	require.Equal(t, http.StatusOK, w.Code)
	var row rowResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&row))
	require.True(t, row.OutOfStock)
	require.Equal(t, "low", row.StockLevel)
	require.Equal(t, "none", row.Expiration)

	products := env.store.Products()
	require.Len(t, products, 1)
	require.Equal(t, 2.2, products[0].UnitPrice)

	w = env.send(http.MethodPut, "/api/products/99", handler.ProductRequest{CategoryID: 2, Name: "Ghost"})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Error while updating product: Product not found", errorBody(t, w))
	require.Len(t, env.store.Products(), 1)

	w = env.send(http.MethodPut, "/api/products/abc", handler.ProductRequest{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteProductHandler(t *testing.T) {
	env := setupTestEnv(t)
	require.Equal(t, http.StatusCreated, env.createProduct(handler.ProductRequest{CategoryID: 3, Name: "Apple", UnitPrice: 0.5, Stock: 30}).Code)

	w := env.send(http.MethodDelete, "/api/products/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, handler.Meta{}, env.listProducts(t).Meta)

	w = env.send(http.MethodDelete, "/api/products/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Error while deleting product: Product not found", errorBody(t, w))
}

func TestFilterHandlers(t *testing.T) {
	env := setupTestEnv(t)
	for _, p := range []handler.ProductRequest{
		{CategoryID: 1, Name: "Milk", UnitPrice: 1, Stock: 12},
		{CategoryID: 1, Name: "Yogurt", UnitPrice: 1, Stock: 0},
		{CategoryID: 2, Name: "Bread", UnitPrice: 2, Stock: 3},
	} {
		require.Equal(t, http.StatusCreated, env.createProduct(p).Code)
	}

	w := env.send(http.MethodPut, "/api/filter", map[string]any{"category": "Dairy", "availability": true})
	require.Equal(t, http.StatusOK, w.Code)
	var resp productsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, handler.Meta{Total: 3, Shown: 1}, resp.Meta)
	require.Equal(t, "Milk", resp.Data[0].Name)

	w = env.send(http.MethodGet, "/api/filter", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"searchName":"","category":"Dairy","availability":"in_stock"}`, w.Body.String())

	w = env.send(http.MethodPut, "/api/filter", map[string]any{"searchName": "bR", "availability": "any"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = env.listProducts(t)
	require.Equal(t, handler.Meta{Total: 3, Shown: 1}, resp.Meta)
	require.Equal(t, "Bread", resp.Data[0].Name)

	w = env.send(http.MethodPut, "/api/filter", map[string]any{"availability": "sometimes"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "bR", env.store.Criteria().SearchName)
}

func TestReloadProductsHandler(t *testing.T) {
	env := setupTestEnv(t)
	for i := 0; i < 3; i++ {
		_, err := env.products.Create(models.NewProduct{CategoryID: 4, Name: fmt.Sprintf("Juice %d", i), UnitPrice: 3, Stock: 10})
		require.NoError(t, err)
	}
	require.Zero(t, env.store.Size())

	w := env.send(http.MethodPost, "/api/reload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp productsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, handler.Meta{Total: 3, Shown: 3}, resp.Meta)
	require.Equal(t, "Beverages", resp.Data[2].Category)
}

func TestErrorHandlers_TransportFailures(t *testing.T) {
	env := setupTestEnv(t)
	require.Equal(t, http.StatusCreated, env.createProduct(handler.ProductRequest{CategoryID: 1, Name: "Milk", UnitPrice: 1, Stock: 1}).Code)
	env.api.Close()

	w := env.send(http.MethodPost, "/api/reload", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Equal(t, inventory.MsgLoadFailed, errorBody(t, w))
	require.Equal(t, 1, env.store.Size())

	w = env.createProduct(handler.ProductRequest{CategoryID: 1, Name: "Cream", UnitPrice: 1})
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Equal(t, inventory.MsgUnknownError, errorBody(t, w))

	w = env.send(http.MethodGet, "/api/error", nil)
	require.Equal(t, inventory.MsgUnknownError, errorBody(t, w))

	w = env.send(http.MethodDelete, "/api/error", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.send(http.MethodGet, "/api/error", nil)
	require.Equal(t, "", errorBody(t, w))
	require.Equal(t, 1, env.store.Size())
}

func TestErrorMessage_SurvivesSuccess(t *testing.T) {
	env := setupTestEnv(t)

	w := env.createProduct(handler.ProductRequest{CategoryID: 1, Name: ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, http.StatusCreated, env.createProduct(handler.ProductRequest{CategoryID: 1, Name: "Milk"}).Code)

	w = env.send(http.MethodGet, "/api/error", nil)
	require.Equal(t, "Error while creating product: Name is required", errorBody(t, w))
}

func TestErrorResponse_KeepsOwnMessage(t *testing.T) {
	env := setupTestEnv(t)
	// A failure cleared by another client before the response is written.
	env.store.Subscribe(func(ev inventory.Event) {
		if ev.Err != nil {
			env.store.ClearError()
		}
	})

	w := env.createProduct(handler.ProductRequest{CategoryID: 9, Name: "Tea"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Error while creating product: Category does not exist", errorBody(t, w))
	require.Equal(t, "", env.store.ErrorMessage())

	w = env.importCSV(t, "name,categoryId,unitPrice,stock\nTea,9,1.00,5")
	require.Equal(t, http.StatusOK, w.Code)
	var resp handler.ImportProductsResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, []handler.ImportRowError{
		{Row: 2, Description: "Error while creating product: Category does not exist"},
	}, resp.Errors)
}
