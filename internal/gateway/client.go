// Package gateway talks to the remote inventory API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rogerio-castellano/inventory-dashboard/internal/errx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

const (
	maxResponseBytes    = 1 << 20 // one megabyte
	DefaultMaxListBytes = 64 << 20
	contentTypeJSON     = "application/json"
)

type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// MaxListBytes caps the product list response. Zero means
	// DefaultMaxListBytes.
	MaxListBytes int64
}

// Client implements the product, category and metrics calls of the API.
type Client struct {
	baseURL      string
	http         *http.Client
	limiter      *rate.Limiter
	maxListBytes int64
}

// NewClient builds a Client. A nil httpClient gets one with cfg.Timeout.
// A non-positive RequestsPerSecond disables client-side rate limiting.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	maxList := cfg.MaxListBytes
	if maxList <= 0 {
		maxList = DefaultMaxListBytes
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		http:         httpClient,
		limiter:      limiter,
		maxListBytes: maxList,
	}
}

func (c *Client) List(ctx context.Context) ([]models.ProductWithCategory, error) {
	var products []models.ProductWithCategory
	if err := c.doLimit(ctx, "list products", http.MethodGet, "/products", 0, c.maxListBytes, nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.ProductWithCategory{}
	}
	return products, nil
}

func (c *Client) Create(ctx context.Context, p models.NewProduct) (models.ProductWithCategory, error) {
	var created models.ProductWithCategory
	if err := c.do(ctx, "create product", http.MethodPost, "/products", 0, p, &created); err != nil {
		return models.ProductWithCategory{}, err
	}
	return created, nil
}

func (c *Client) Update(ctx context.Context, p models.Product) (models.ProductWithCategory, error) {
	var updated models.ProductWithCategory
	path := fmt.Sprintf("/products/%d", p.ID)
	if err := c.do(ctx, "update product", http.MethodPut, path, p.ID, p, &updated); err != nil {
		return models.ProductWithCategory{}, err
	}
	return updated, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, "delete product", http.MethodDelete, fmt.Sprintf("/products/%d", id), id, nil, nil)
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, "list categories", http.MethodGet, "/categories", 0, nil, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (c *Client) Metrics(ctx context.Context) (models.Metrics, error) {
	var m models.Metrics
	if err := c.do(ctx, "get metrics", http.MethodGet, "/metrics", 0, nil, &m); err != nil {
		return models.Metrics{}, err
	}
	if m.ByCategory == nil {
		m.ByCategory = map[string]models.Metric{}
	}
	return m, nil
}

// do issues one request. id is the product addressed by the path, 0 if none.
func (c *Client) do(ctx context.Context, op, method, path string, id int, in, out any) error {
	return c.doLimit(ctx, op, method, path, id, maxResponseBytes, in, out)
}

// doLimit is do with a cap of limit bytes on the response body.
func (c *Client) doLimit(ctx context.Context, op, method, path string, id int, limit int64, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &errx.TransportError{Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &errx.TransportError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &errx.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", contentTypeJSON)
	if in != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &errx.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return &errx.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if int64(len(data)) > limit {
		return &errx.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("response exceeds %d bytes", limit)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp.StatusCode, id, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &errx.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// serverMessage extracts the text of a {message} or {error} body.
func serverMessage(data []byte) (string, bool) {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil {
		return "", false
	}
	switch {
	case eb.Message != "":
		return eb.Message, true
	case eb.Error != "":
		return eb.Error, true
	}
	return "", false
}

func statusError(op string, status, id int, data []byte) error {
	msg, structured := serverMessage(data)

	switch {
	case status == http.StatusNotFound:
		return &errx.NotFoundError{ID: id, Message: msg}
	case status >= 400 && status < 500 && structured:
		return &errx.ValidationError{Status: status, Message: msg}
	default:
		text := strings.TrimSpace(string(data))
		if structured {
			text = msg
		}
		var err error
		if text != "" {
			err = errors.New(text)
		}
		return &errx.TransportError{Op: op, Status: status, Err: err}
	}
}
