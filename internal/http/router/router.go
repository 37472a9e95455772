package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rogerio-castellano/inventory-dashboard/internal/auth"
	"github.com/rogerio-castellano/inventory-dashboard/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-dashboard/internal/http/middleware"
	rl "github.com/rogerio-castellano/inventory-dashboard/internal/http/rate_limiter"
)

// Config wires the dashboard routes. A nil Authenticator leaves mutations
// open; a nil Visitors disables per-client rate limiting; a nil Gatherer
// hides /metrics.
type Config struct {
	Server        *handlers.Server
	Authenticator *auth.Authenticator
	Visitors      *rl.Visitors
	Gatherer      prometheus.Gatherer
}

func NewRouter(cfg Config) http.Handler {
	s := cfg.Server
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.AccessLog)

	limited := func(next http.Handler) http.Handler { return next }
	if cfg.Visitors != nil {
		limited = mw.RateLimit(cfg.Visitors)
	}

	r.Get("/healthz", s.HealthHandler)
	r.With(limited).Post("/login", s.LoginHandler)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.GetProductsHandler)
		r.Get("/filter", s.GetFilterHandler)
		r.Put("/filter", s.SetFilterHandler)
		r.Get("/error", s.GetErrorHandler)
		r.Delete("/error", s.ClearErrorHandler)
		r.Get("/categories", s.GetCategoriesHandler)
		r.Get("/metrics", s.GetMetricsHandler)
		r.Get("/overview", s.GetOverviewHandler)
		r.With(limited).Post("/reload", s.ReloadProductsHandler)

		r.Group(func(r chi.Router) {
			r.Use(limited)
			r.Use(mw.Auth(cfg.Authenticator))
			r.Post("/products", s.CreateProductHandler)
			r.Post("/products/import", s.ImportProductsHandler)
			r.Put("/products/{id}", s.UpdateProductHandler)
			r.Delete("/products/{id}", s.DeleteProductHandler)
		})
	})

	return r
}
