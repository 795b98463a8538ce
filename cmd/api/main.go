package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neutron-labs/inventory-service/api/controllers"
	"github.com/neutron-labs/inventory-service/api/routes"
	"github.com/neutron-labs/inventory-service/internal/catalog"
	"github.com/neutron-labs/inventory-service/internal/products"
	"github.com/neutron-labs/inventory-service/internal/stock"
	"github.com/neutron-labs/inventory-service/pkg/config"
	"github.com/neutron-labs/inventory-service/pkg/db"
	"github.com/neutron-labs/inventory-service/pkg/eventbus"
	"github.com/neutron-labs/inventory-service/pkg/logger"
	"github.com/neutron-labs/inventory-service/pkg/metrics"
	"github.com/neutron-labs/inventory-service/pkg/migrate"
	"github.com/neutron-labs/inventory-service/pkg/redis"
	"github.com/neutron-labs/inventory-service/pkg/storage/images"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	broker, err := eventbus.NewRabbitMQ(context.Background(), cfg.AMQP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap rabbitmq", err)
		os.Exit(1)
	}
	defer broker.Close()

	imageStore, err := images.NewStore(cfg.Images)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap image store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	catalogResolver, err := catalog.NewResolver(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog resolver", err)
		os.Exit(1)
	}

	productCache := products.NewCache(redisClient, cfg.Redis.ProductTTL, logg)
	productService, err := products.NewService(
		products.NewRepository(dbClient.DB()),
		dbClient,
		catalogResolver,
		imageStore,
		productCache,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	stockService, err := stock.NewService(
		stock.NewRepository(dbClient.DB()),
		broker,
		logg,
		cfg.Stock.LowThreshold,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock service", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
		"rabbitmq": broker,
	}

	handler := routes.NewRouter(
		cfg,
		logg,
		httpMetrics,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		readiness,
		productService,
		stockService,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stopCh:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
