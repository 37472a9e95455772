package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/inventory-dashboard/internal/errx"
	mw "github.com/rogerio-castellano/inventory-dashboard/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-dashboard/internal/inventory"
	"github.com/rogerio-castellano/inventory-dashboard/internal/logx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

// GetProductsHandler godoc
// @Summary Filtered products with display classification
// @Tags products
// @Produce json
// @Success 200 {object} ProductsResult
// @Router /api/products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.productsResult())
}

// CreateProductHandler godoc
// @Summary Create a product through the inventory API
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} inventory.Row
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	created, err := s.store.Create(r.Context(), req.toNewProduct())
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	logx.Info().Str("user", mw.GetSubject(r)).Int("product_id", created.ID).Msg("product created")
	respond(w, http.StatusCreated, inventory.ClassifyRow(created, s.now()))
}

// UpdateProductHandler godoc
// @Summary Update a product through the inventory API
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "New product values"
// @Success 200 {object} inventory.Row
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/products/{id} [put]
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	updated, err := s.store.Update(r.Context(), req.toNewProduct().WithID(id))
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	logx.Info().Str("user", mw.GetSubject(r)).Int("product_id", id).Msg("product updated")
	respond(w, http.StatusOK, inventory.ClassifyRow(updated, s.now()))
}

// DeleteProductHandler godoc
// @Summary Delete a product through the inventory API
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/products/{id} [delete]
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	logx.Info().Str("user", mw.GetSubject(r)).Int("product_id", id).Msg("product deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ReloadProductsHandler godoc
// @Summary Reload the product collection from the inventory API
// @Tags products
// @Produce json
// @Success 200 {object} ProductsResult
// @Failure 502 {object} ErrorResponse
// @Router /api/reload [post]
func (s *Server) ReloadProductsHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Load(r.Context()); err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respond(w, http.StatusOK, s.productsResult())
}

// GetFilterHandler godoc
// @Summary Active filter criteria
// @Tags filter
// @Produce json
// @Success 200 {object} FilterRequest
// @Router /api/filter [get]
func (s *Server) GetFilterHandler(w http.ResponseWriter, r *http.Request) {
	c := s.store.Criteria()
	respond(w, http.StatusOK, FilterRequest{
		SearchName:   c.SearchName,
		Category:     c.Category,
		Availability: c.Availability,
	})
}

// SetFilterHandler godoc
// @Summary Replace the filter criteria
// @Tags filter
// @Accept json
// @Produce json
// @Param filter body FilterRequest true "Criteria"
// @Success 200 {object} ProductsResult
// @Failure 400 {object} ErrorResponse
// @Router /api/filter [put]
func (s *Server) SetFilterHandler(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid filter")
		return
	}

	s.store.SetFilter(models.FilterCriteria{
		SearchName:   req.SearchName,
		Category:     req.Category,
		Availability: req.Availability,
	})
	respond(w, http.StatusOK, s.productsResult())
}

// GetErrorHandler godoc
// @Summary Message of the last failed operation
// @Tags products
// @Produce json
// @Success 200 {object} ErrorResponse
// @Router /api/error [get]
func (s *Server) GetErrorHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, ErrorResponse{Error: s.store.ErrorMessage()})
}

// ClearErrorHandler godoc
// @Summary Dismiss the surfaced error message
// @Tags products
// @Success 204
// @Router /api/error [delete]
func (s *Server) ClearErrorHandler(w http.ResponseWriter, r *http.Request) {
	s.store.ClearError()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) productsResult() ProductsResult {
	snap := s.store.Snapshot()
	return ProductsResult{
		Data: inventory.ClassifyRows(snap.Filtered, s.now()),
		Meta: Meta{Total: len(snap.Products), Shown: len(snap.Filtered)},
	}
}

// respondStoreError maps a failed store transition to its status code. The
// body carries the message recorded for this failure.
func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status := errx.HTTPStatus(err)
	logx.Debug().Err(err).Str("user", mw.GetSubject(r)).Int("status", status).Msg("store operation failed")
	respondError(w, status, inventory.Message(err))
}
