package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rogerio-castellano/inventory-dashboard/internal/config"
	"github.com/rogerio-castellano/inventory-dashboard/internal/logx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/mockapi"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
	"github.com/rogerio-castellano/inventory-dashboard/internal/repo"
)

// @title Inventory API (development)
// @version 1.0
// @description In-memory products, categories and metrics for the dashboard.
// @host localhost:8080
// @BasePath /api
func main() {
	_ = godotenv.Load()
	logx.Init()

	cfg, err := config.LoadAPI()
	if err != nil {
		logx.Fatal().Err(err).Msg("load config")
	}
	logx.Init(logx.LoggerOpts{Environment: logx.ParseEnvironment(cfg.Environment)})

	productRepo := repo.NewInMemoryProductRepository(repo.DefaultCategories)
	if cfg.SeedDemoData {
		if err := seedDemoData(productRepo, time.Now()); err != nil {
			logx.Fatal().Err(err).Msg("seed demo data")
		}
	}
	metricsRepo := repo.NewInMemoryMetricsRepository(productRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mockapi.NewRouter(mockapi.NewHandlers(productRepo, metricsRepo)),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		logx.Info().Str("addr", cfg.HTTPAddr).Bool("seeded", cfg.SeedDemoData).Msg("inventory API running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func seedDemoData(r repo.ProductRepository, now time.Time) error {
	in := func(days int) *models.Date {
		t := now.AddDate(0, 0, days)
		d := models.NewDate(t.Year(), t.Month(), t.Day())
		return &d
	}

	demo := []models.NewProduct{
		{CategoryID: 1, Name: "Whole Milk", UnitPrice: 1.25, Stock: 24, ExpirationDate: in(5)},
		{CategoryID: 1, Name: "Cheddar Cheese", UnitPrice: 4.5, Stock: 8, ExpirationDate: in(30)},
		{CategoryID: 1, Name: "Greek Yogurt", UnitPrice: 0.95, Stock: 0, ExpirationDate: in(10)},
		{CategoryID: 2, Name: "Sourdough Bread", UnitPrice: 3.2, Stock: 4, ExpirationDate: in(2)},
		{CategoryID: 2, Name: "Croissant", UnitPrice: 1.1, Stock: 15},
		{CategoryID: 3, Name: "Bananas", UnitPrice: 0.3, Stock: 60, ExpirationDate: in(12)},
		{CategoryID: 3, Name: "Avocado", UnitPrice: 1.75, Stock: 6},
		{CategoryID: 4, Name: "Orange Juice", UnitPrice: 2.8, Stock: 12, ExpirationDate: in(20)},
		{CategoryID: 4, Name: "Sparkling Water", UnitPrice: 0.6, Stock: 0},
	}
	for _, p := range demo {
		if _, err := r.Create(p); err != nil {
			return err
		}
	}
	return nil
}
