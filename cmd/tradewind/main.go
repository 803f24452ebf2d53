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
	"github.com/joho/godotenv"

	"github.com/tradewind-bv/tradewind/internal/analytics"
	analytichttp "github.com/tradewind-bv/tradewind/internal/analytics/http"
	"github.com/tradewind-bv/tradewind/internal/app"
	"github.com/tradewind-bv/tradewind/internal/auth"
	"github.com/tradewind-bv/tradewind/internal/masterdata/brands"
	"github.com/tradewind-bv/tradewind/internal/masterdata/clients"
	"github.com/tradewind-bv/tradewind/internal/masterdata/costs"
	"github.com/tradewind-bv/tradewind/internal/masterdata/products"
	"github.com/tradewind-bv/tradewind/internal/masterdata/suppliers"
	"github.com/tradewind-bv/tradewind/internal/migrations"
	"github.com/tradewind-bv/tradewind/internal/observability"
	"github.com/tradewind-bv/tradewind/internal/orders"
	"github.com/tradewind-bv/tradewind/internal/platform/cache"
	"github.com/tradewind-bv/tradewind/internal/platform/db"
	"github.com/tradewind-bv/tradewind/internal/rbac"
	"github.com/tradewind-bv/tradewind/internal/shared"
	"github.com/tradewind-bv/tradewind/internal/users"
	"github.com/tradewind-bv/tradewind/internal/view"
	"github.com/tradewind-bv/tradewind/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, usedFallback, err := db.NewWithFallback(ctx, cfg.PGDSN, cfg.PGDSNFallback)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()
	if usedFallback {
		logger.Warn("primary database unreachable, running on fallback DSN")
	}

	if err := migrations.Apply(ctx, dbpool); err != nil {
		logger.Error("apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, continuing degraded", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "tradewind_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	rbacService := rbac.NewService(dbpool)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	clientRepo := clients.NewRepository(dbpool)
	clientService := clients.NewService(clientRepo)
	clientHandler := clients.NewHandler(logger, clientService, templates, csrfManager)

	supplierService := suppliers.NewService(suppliers.NewRepository(dbpool))
	supplierHandler := suppliers.NewHandler(logger, supplierService, templates, csrfManager)

	brandService := brands.NewService(brands.NewRepository(dbpool))
	brandHandler := brands.NewHandler(logger, brandService, supplierService, templates, csrfManager)

	productService := products.NewService(products.NewRepository(dbpool))
	productHandler := products.NewHandler(logger, productService, brandService, supplierService, templates, csrfManager)

	costService := costs.NewService(costs.NewRepository(dbpool), clientRepo)
	costHandler := costs.NewHandler(logger, costService, productService, clientService, templates, csrfManager)

	orderService := orders.NewService(orders.NewRepository(dbpool))
	orderHandler := orders.NewHandler(logger, orderService, clientService, supplierService, productService, templates, csrfManager)

	usersHandler := users.NewHandler(logger, users.NewRepository(dbpool), templates, csrfManager)

	reportCache := analytics.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := analytics.NewService(analytics.NewRepository(dbpool), reportCache, analytics.Options{
		MinClosedMonth: cfg.ForecastMinClosedMonth,
		SmoothingAlpha: cfg.ForecastSmoothingAlpha,
		DefaultMethod:  cfg.ForecastDefaultMethod,
	})
	reportsHandler := analytichttp.NewHandler(logger, reportService, clientService, templates, csrfManager)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Templates:        templates,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		RBACMiddleware:   rbacMiddleware,
		AuthHandler:      authHandler,
		ClientsHandler:   clientHandler,
		SuppliersHandler: supplierHandler,
		BrandsHandler:    brandHandler,
		ProductsHandler:  productHandler,
		CostsHandler:     costHandler,
		OrdersHandler:    orderHandler,
		UsersHandler:     usersHandler,
		ReportsHandler:   reportsHandler,
		JobHandler:       jobHandler,
		ReportCache:      reportCache,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
