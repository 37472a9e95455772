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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"github.com/rogerio-castellano/inventory-dashboard/internal/auth"
	"github.com/rogerio-castellano/inventory-dashboard/internal/config"
	"github.com/rogerio-castellano/inventory-dashboard/internal/gateway"
	"github.com/rogerio-castellano/inventory-dashboard/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-dashboard/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-dashboard/internal/http/router"
	"github.com/rogerio-castellano/inventory-dashboard/internal/inventory"
	"github.com/rogerio-castellano/inventory-dashboard/internal/logx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/messaging"
	"github.com/rogerio-castellano/inventory-dashboard/internal/redissvc"
	"github.com/rogerio-castellano/inventory-dashboard/internal/telemetry"
)

const (
	visitorCleanupInterval = time.Minute
	visitorMaxIdle         = 3 * time.Minute
)

type backend interface {
	inventory.Gateway
	handlers.Catalog
}

// @title Inventory Dashboard
// @version 1.0
// @description Filtered, classified view over the inventory API.
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	logx.Init()

	cfg, err := config.LoadDashboard()
	if err != nil {
		logx.Fatal().Err(err).Msg("load config")
	}
	logx.Init(logx.LoggerOpts{Environment: logx.ParseEnvironment(cfg.Environment)})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := gateway.NewClient(gateway.Config{
		BaseURL:           cfg.APIBaseURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.GatewayRPS,
		Burst:             cfg.GatewayBurst,
		MaxListBytes:      cfg.MaxListBytes,
	}, nil)

	var api backend = client
	if cfg.RedisURL != "" {
		rdb, err := redissvc.NewClient(ctx, redissvc.Config{URL: cfg.RedisURL})
		if err != nil {
			logx.Warn().Err(err).Msg("redis unavailable, serving without cache")
		} else {
			defer rdb.Close()
			cache := redissvc.NewRedisService(rdb, cfg.CachePrefix)
			api = gateway.NewCachedGateway(client, cache, cfg.CategoriesTTL, cfg.MetricsTTL)
			logx.Info().Msg("redis cache enabled")
		}
	}

	store := inventory.NewStore(api)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := telemetry.NewCollector(reg)
	if err != nil {
		logx.Fatal().Err(err).Msg("register metrics")
	}
	store.Subscribe(collector.Observe)

	if cfg.RabbitMQURL != "" {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			logx.Fatal().Err(err).Msg("connect rabbitmq")
		}
		defer conn.Close()

		publisher, err := messaging.NewRabbitPublisher(conn, cfg.EventsQueue)
		if err != nil {
			logx.Fatal().Err(err).Msg("create rabbitmq publisher")
		}
		defer publisher.Close()
		store.Subscribe(messaging.NewNotifier(publisher).Observe)
		logx.Info().Str("queue", cfg.EventsQueue).Msg("publishing product events")
	}

	warmUp(ctx, store, api)

	var authenticator *auth.Authenticator
	if cfg.AuthEnabled() {
		authenticator = auth.NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL)
	}

	visitors := rl.NewVisitors(cfg.ClientRPS, cfg.ClientBurst)
	go visitors.StartCleanupLoop(ctx, visitorCleanupInterval, visitorMaxIdle)

	srv := handlers.NewServer(store, api, handlers.Options{
		Authenticator:     authenticator,
		AdminUser:         cfg.AdminUser,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: router.NewRouter(router.Config{
			Server:        srv,
			Authenticator: authenticator,
			Visitors:      visitors,
			Gatherer:      reg,
		}),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		logx.Info().Str("addr", cfg.HTTPAddr).Str("api", cfg.APIBaseURL).Bool("auth", cfg.AuthEnabled()).Msg("dashboard running")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	logx.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// warmUp loads the products and primes the categories cache concurrently.
// Failures are logged; the store keeps the load error for display. A failed
// prime does not cancel the load.
func warmUp(ctx context.Context, store *inventory.Store, api handlers.Catalog) {
	var g errgroup.Group
	g.Go(func() error {
		return store.Load(ctx)
	})
	g.Go(func() error {
		_, err := api.Categories(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logx.Warn().Err(err).Msg("initial load incomplete")
		return
	}
	logx.Info().Int("products", store.Size()).Msg("initial load complete")
}
