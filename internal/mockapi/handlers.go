// Package mockapi serves an in-memory version of the inventory API for local
// development and tests.
package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/inventory-dashboard/internal/logx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
	"github.com/rogerio-castellano/inventory-dashboard/internal/repo"
)

type Handlers struct {
	products repo.ProductRepository
	metrics  repo.MetricsRepository
}

func NewHandlers(products repo.ProductRepository, metrics repo.MetricsRepository) *Handlers {
	return &Handlers{products: products, metrics: metrics}
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logx.Error().Err(err).Msg("failed to write JSON response")
	}
}

// GetProductsHandler godoc
// @Summary List all products with their category name
// @Tags products
// @Produce json
// @Success 200 {array} models.ProductWithCategory
// @Router /api/products [get]
func (h *Handlers) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAll()
	if err != nil {
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.NewProduct true "Product to add"
// @Success 201 {object} models.ProductWithCategory
// @Failure 400 {object} messageResponse
// @Router /api/products [post]
func (h *Handlers) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req models.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid input"})
		return
	}

	created, err := h.products.Create(req)
	if err != nil {
		var verrs repo.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: verrs.Error()})
			return
		}
		http.Error(w, "could not create product", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetProductHandler godoc
// @Summary Get a product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.ProductWithCategory
// @Failure 404 {object} errorResponse
// @Router /api/products/{id} [get]
func (h *Handlers) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product ID"})
		return
	}

	p, err := h.products.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Product not found"})
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body models.Product true "Updated product"
// @Success 200 {object} models.ProductWithCategory
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/products/{id} [put]
func (h *Handlers) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product ID"})
		return
	}

	var req models.Product
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input"})
		return
	}
	req.ID = id

	updated, err := h.products.Update(req)
	if err != nil {
		var verrs repo.ValidationErrors
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Product not found"})
		case errors.As(err, &verrs):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: verrs.Error()})
		default:
			http.Error(w, "could not update product", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Param id path int true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 404 {object} messageResponse
// @Router /api/products/{id} [delete]
func (h *Handlers) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid product ID"})
		return
	}
	if err := h.products.Delete(id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, messageResponse{Message: "Product not found"})
			return
		}
		http.Error(w, "could not delete product", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.Categories()
	if err != nil {
		http.Error(w, "could not fetch categories", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetMetricsHandler godoc
// @Summary Inventory metrics overall and by category
// @Tags metrics
// @Produce json
// @Success 200 {object} models.Metrics
// @Router /api/metrics [get]
func (h *Handlers) GetMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := h.metrics.GetInventoryMetrics()
	if err != nil {
		http.Error(w, "failed to fetch metrics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
