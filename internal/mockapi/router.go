package mockapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/rogerio-castellano/inventory-dashboard/internal/http/middleware"
)

// NewRouter mounts the API under /api.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.AccessLog)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.GetProductsHandler)
		r.Post("/products", h.CreateProductHandler)
		r.Get("/products/{id}", h.GetProductHandler)
		r.Put("/products/{id}", h.UpdateProductHandler)
		r.Delete("/products/{id}", h.DeleteProductHandler)
		r.Get("/categories", h.GetCategoriesHandler)
		r.Get("/metrics", h.GetMetricsHandler)
	})
	return r
}
