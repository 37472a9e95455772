package handlers

import (
	"net/http"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/rogerio-castellano/inventory-dashboard/internal/logx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

const overallLabel = "Overall"

// GetCategoriesHandler godoc
// @Summary Product categories
// @Tags metrics
// @Produce json
// @Success 200 {array} models.Category
// @Failure 502 {object} ErrorResponse
// @Router /api/categories [get]
func (s *Server) GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		logx.Warn().Err(err).Msg("fetch categories failed")
		respondError(w, http.StatusBadGateway, "failed to fetch categories")
		return
	}
	respond(w, http.StatusOK, categories)
}

// GetMetricsHandler godoc
// @Summary Inventory metrics table
// @Description One row per category sorted by name, followed by the overall row.
// @Tags metrics
// @Produce json
// @Success 200 {array} MetricRow
// @Failure 502 {object} ErrorResponse
// @Router /api/metrics [get]
func (s *Server) GetMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := s.catalog.Metrics(r.Context())
	if err != nil {
		logx.Warn().Err(err).Msg("fetch metrics failed")
		respondError(w, http.StatusBadGateway, "failed to fetch metrics")
		return
	}
	respond(w, http.StatusOK, MetricRows(m))
}

// GetOverviewHandler godoc
// @Summary Categories and metrics in one response
// @Tags metrics
// @Produce json
// @Success 200 {object} OverviewResult
// @Failure 502 {object} ErrorResponse
// @Router /api/overview [get]
func (s *Server) GetOverviewHandler(w http.ResponseWriter, r *http.Request) {
	var (
		categories []models.Category
		metrics    models.Metrics
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		categories, err = s.catalog.Categories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		metrics, err = s.catalog.Metrics(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logx.Warn().Err(err).Msg("fetch overview failed")
		respondError(w, http.StatusBadGateway, "failed to fetch overview")
		return
	}

	respond(w, http.StatusOK, OverviewResult{
		Categories: categories,
		Metrics:    MetricRows(metrics),
	})
}

// MetricRows flattens m into table rows: categories in name order, then the
// overall row.
func MetricRows(m models.Metrics) []MetricRow {
	names := make([]string, 0, len(m.ByCategory))
	for name := range m.ByCategory {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([]MetricRow, 0, len(names)+1)
	for _, name := range names {
		rows = append(rows, metricRow(name, m.ByCategory[name]))
	}
	return append(rows, metricRow(overallLabel, m.Overall))
}

func metricRow(label string, m models.Metric) MetricRow {
	return MetricRow{
		Category:      label,
		TotalProducts: m.TotalProducts,
		TotalValue:    decimal.NewFromFloat(m.TotalValue).StringFixed(2),
		AveragePrice:  decimal.NewFromFloat(m.AveragePrice).StringFixed(2),
	}
}
