package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/fulfilment-app/fulfilment/internal/app"
	"github.com/fulfilment-app/fulfilment/internal/fulfilments"
	"github.com/fulfilment-app/fulfilment/internal/locations"
	"github.com/fulfilment-app/fulfilment/internal/observability"
	"github.com/fulfilment-app/fulfilment/internal/platform/cache"
	"github.com/fulfilment-app/fulfilment/internal/platform/db"
	"github.com/fulfilment-app/fulfilment/internal/products"
	"github.com/fulfilment-app/fulfilment/internal/shared"
	"github.com/fulfilment-app/fulfilment/internal/stores"
	"github.com/fulfilment-app/fulfilment/internal/warehouses"
	"github.com/fulfilment-app/fulfilment/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, link cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("connect job queue", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(pool)
	resolver := locations.NewGateway()

	warehouseRepo := warehouses.NewRepository(pool)
	warehouseService := warehouses.NewService(warehouseRepo, resolver, auditLogger, logger)
	warehouseHandler := warehouses.NewHandler(logger, warehouseService, metrics)

	storeRepo := stores.NewRepository(pool)
	storeService := stores.NewService(storeRepo, jobClient, logger)
	storeHandler := stores.NewHandler(logger, storeService)

	productRepo := products.NewRepository(pool)
	productService := products.NewService(productRepo)
	productHandler := products.NewHandler(logger, productService)

	linkRepo := fulfilments.NewRepository(pool)
	linkCache := fulfilments.NewCache(redisClient, cfg.LinkCacheTTL)
	fulfilmentService := fulfilments.NewService(linkRepo, storeService, productService, warehouseService, linkCache, auditLogger, logger)
	fulfilmentHandler := fulfilments.NewHandler(logger, fulfilmentService, metrics)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		WarehouseHandler:  warehouseHandler,
		FulfilmentHandler: fulfilmentHandler,
		StoreHandler:      storeHandler,
		ProductHandler:    productHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
