package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/inventory-dashboard/internal/auth"
	"github.com/rogerio-castellano/inventory-dashboard/internal/gateway"
	handler "github.com/rogerio-castellano/inventory-dashboard/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-dashboard/internal/http/router"
	"github.com/rogerio-castellano/inventory-dashboard/internal/inventory"
	"github.com/rogerio-castellano/inventory-dashboard/internal/mockapi"
	"github.com/rogerio-castellano/inventory-dashboard/internal/repo"
	"github.com/rogerio-castellano/inventory-dashboard/internal/telemetry"
)

const (
	adminUser     = "admin"
	adminPassword = "secret"
)

var now = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	router   http.Handler
	store    *inventory.Store
	products *repo.InMemoryProductRepository
	api      *httptest.Server
	token    string
}

// rowResponse mirrors inventory.Row on the wire.
type rowResponse struct {
	ID             int     `json:"id"`
	CategoryID     int     `json:"categoryId"`
	Name           string  `json:"name"`
	UnitPrice      float64 `json:"unitPrice"`
	Stock          int     `json:"stock"`
	ExpirationDate string  `json:"expirationDate"`
	Category       string  `json:"category"`
	StockLevel     string  `json:"stockLevel"`
	OutOfStock     bool    `json:"outOfStock"`
	Expiration     string  `json:"expiration"`
}

type productsResponse struct {
	Data []rowResponse `json:"data"`
	Meta handler.Meta  `json:"meta"`
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	products := repo.NewInMemoryProductRepository(repo.DefaultCategories)
	api := httptest.NewServer(mockapi.NewRouter(mockapi.NewHandlers(products, repo.NewInMemoryMetricsRepository(products))))
	t.Cleanup(api.Close)

	client := gateway.NewClient(gateway.Config{BaseURL: api.URL + "/api", Timeout: 2 * time.Second}, nil)
	store := inventory.NewStore(client)

	reg := prometheus.NewRegistry()
	collector, err := telemetry.NewCollector(reg)
	require.NoError(t, err)
	store.Subscribe(collector.Observe)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	authenticator := auth.NewAuthenticator("test-secret", time.Minute)

	srv := handler.NewServer(store, client, handler.Options{
		Authenticator:     authenticator,
		AdminUser:         adminUser,
		AdminPasswordHash: string(hash),
		Now:               func() time.Time { return now },
	})
	r := router.NewRouter(router.Config{
		Server:        srv,
		Authenticator: authenticator,
		Gatherer:      reg,
	})

	token, err := generateToken(r, adminUser, adminPassword)
	require.NoError(t, err)

	return &testEnv{router: r, store: store, products: products, api: api, token: token}
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.UserLogin{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", w.Code)
	}

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func (e *testEnv) send(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+e.token)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createProduct(p handler.ProductRequest) *httptest.ResponseRecorder {
	return e.send(http.MethodPost, "/api/products", p)
}

func (e *testEnv) listProducts(t *testing.T) productsResponse {
	t.Helper()
	w := e.send(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp productsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
