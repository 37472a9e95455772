package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-dashboard/internal/errx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/mockapi"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
	"github.com/rogerio-castellano/inventory-dashboard/internal/repo"
)

func newAPI(t *testing.T) (*Client, *repo.InMemoryProductRepository) {
	t.Helper()
	products := repo.NewInMemoryProductRepository(repo.DefaultCategories)
	srv := httptest.NewServer(mockapi.NewRouter(mockapi.NewHandlers(products, repo.NewInMemoryMetricsRepository(products))))
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/api/", Timeout: time.Second}, srv.Client()), products
}

func statusServer(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL}, srv.Client())
}

func TestClient_CRUD(t *testing.T) {
	ctx := context.Background()
	c, _ := newAPI(t)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
	require.NotNil(t, list)

	exp := models.NewDate(2026, time.May, 1)
	created, err := c.Create(ctx, models.NewProduct{CategoryID: 1, Name: "Milk", UnitPrice: 1.5, Stock: 3, ExpirationDate: &exp})
	require.NoError(t, err)
	require.Equal(t, 1, created.ID)
	require.Equal(t, "Dairy", created.Category)
	require.Equal(t, "2026-05-01", created.ExpirationDate.String())

	created.Stock = 9
	updated, err := c.Update(ctx, created.Product)
	require.NoError(t, err)
	require.Equal(t, 9, updated.Stock)

	list, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, updated, list[0])

	require.NoError(t, c.Delete(ctx, created.ID))
	list, err = c.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestClient_CategoriesAndMetrics(t *testing.T) {
	ctx := context.Background()
	c, products := newAPI(t)
	_, err := products.Create(models.NewProduct{CategoryID: 2, Name: "Bread", UnitPrice: 2.5, Stock: 4})
	require.NoError(t, err)

	categories, err := c.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, repo.DefaultCategories, categories)

	m, err := c.Metrics(ctx)
	require.NoError(t, err)
	require.Equal(t, models.Metric{TotalProducts: 4, TotalValue: 10, AveragePrice: 2.5}, m.Overall)
	require.Equal(t, m.Overall, m.ByCategory["Bakery"])
}

func TestClient_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	c, _ := newAPI(t)

	_, err := c.Create(ctx, models.NewProduct{CategoryID: 1, Name: "", UnitPrice: 1})
	var verr *errx.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Name is required", verr.Message)

	_, err = c.Update(ctx, models.Product{ID: 99, CategoryID: 1, Name: "Ghost"})
	var nf *errx.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, 99, nf.ID)
	require.Equal(t, "Product not found", nf.Error())

	err = c.Delete(ctx, 99)
	require.Equal(t, errx.KindNotFound, errx.Kind(err))
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    errx.ErrorKind
		message string
	}{
		{"not found without body", http.StatusNotFound, "", errx.KindNotFound, "product 0 not found"},
		{"message body", http.StatusBadRequest, `{"message":"Name is required"}`, errx.KindValidation, "Name is required"},
		{"error body", http.StatusUnprocessableEntity, `{"error":"Stock cannot be negative"}`, errx.KindValidation, "Stock cannot be negative"},
		{"unstructured 4xx", http.StatusBadRequest, "bad request", errx.KindTransport, "list products: status 400: bad request"},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, errx.KindTransport, "list products: status 500: boom"},
		{"empty server error", http.StatusBadGateway, "", errx.KindTransport, "list products: unexpected status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := statusServer(t, tt.status, tt.body).List(context.Background())
			require.Error(t, err)
			require.Equal(t, tt.want, errx.Kind(err))
			require.EqualError(t, err, tt.message)
		})
	}
}

func TestClient_TransportFailures(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		_, err := statusServer(t, http.StatusOK, "{not json").List(context.Background())
		require.Equal(t, errx.KindTransport, errx.Kind(err))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewClient(Config{BaseURL: url, Timeout: time.Second}, nil).List(context.Background())
		require.Equal(t, errx.KindTransport, errx.Kind(err))
	})

	t.Run("canceled context", func(t *testing.T) {
		c := statusServer(t, http.StatusOK, "[]")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.List(ctx)
		require.Equal(t, errx.KindTransport, errx.Kind(err))
	})
}

func TestClient_RateLimit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL, RequestsPerSecond: 0.001, Burst: 1}, srv.Client())
	_, err := c.List(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.List(ctx)
	require.Equal(t, errx.KindTransport, errx.Kind(err))
	require.Equal(t, int32(1), hits.Load())
}

func TestClient_ListResponseLimit(t *testing.T) {
	products := make([]models.ProductWithCategory, 20000)
	for i := range products {
		products[i] = models.ProductWithCategory{
			Product:  models.Product{ID: i + 1, CategoryID: 1, Name: fmt.Sprintf("Product %d", i+1), UnitPrice: 1.5, Stock: 3},
			Category: "Dairy",
		}
	}
	body, err := json.Marshal(products)
	require.NoError(t, err)
	require.Greater(t, len(body), maxResponseBytes)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	got, err := NewClient(Config{BaseURL: srv.URL}, srv.Client()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(products))

	_, err = NewClient(Config{BaseURL: srv.URL, MaxListBytes: 1024}, srv.Client()).List(context.Background())
	require.Equal(t, errx.KindTransport, errx.Kind(err))
	require.ErrorContains(t, err, "response exceeds 1024 bytes")
}
