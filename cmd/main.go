package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"unieats/internal/caching"
	"unieats/internal/config"
	"unieats/internal/handlers"
	"unieats/internal/jobs/background"
	"unieats/internal/messaging"
	"unieats/internal/middleware"
	"unieats/internal/models"
	"unieats/internal/repositories"
	"unieats/internal/services"
	"unieats/internal/telemetry"
	"unieats/pkg/database"
)

const (
	serviceName     = "unieats"
	version         = "1.0.0"
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load(os.Getenv("UNIEATS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(os.Stdout, telemetry.ParseLevel(cfg.Server.LogLevel))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry.OTLPEndpoint, serviceName, version)
	if err != nil {
		return fmt.Errorf("failed to init tracer: %w", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, version)
	if err != nil {
		return fmt.Errorf("failed to init metrics: %w", err)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	orderMetrics, err := telemetry.NewOrderMetrics()
	if err != nil {
		return fmt.Errorf("failed to register order metrics: %w", err)
	}

	if cfg.Auth.GeneratedSecret {
		logger.Warn("JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)

	minioSvc, err := services.NewMinioService(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.UseSSL)
	if err != nil {
		return fmt.Errorf("failed to initialize MinIO service: %w", err)
	}
	if err := minioSvc.EnsureBucketExists(ctx, cfg.MinIO.StatementsBucket); err != nil {
		// Non-fatal: only revenue statements use the bucket.
		logger.Warn("statement bucket unavailable", "bucket", cfg.MinIO.StatementsBucket, "error", err)
	}

	var publisher messaging.Publisher = messaging.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info("publishing activity events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	defer func() { _ = publisher.Close() }()

	// Repositories
	orderRepo := repositories.NewOrderRepo(pool)
	shopRepo := repositories.NewShopRepo(pool)
	foodRepo := repositories.NewFoodRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)
	statsRepo := repositories.NewStatsRepo(pool)
	activityRepo := repositories.NewActivityLogRepo(pool)

	// Services
	activitySvc := services.NewActivityLogService(activityRepo, publisher, logger)
	catalogSvc := services.NewCatalogService(shopRepo, foodRepo, customerRepo, activitySvc, logger)
	statsSvc := services.NewStatsService(statsRepo, activitySvc, logger)
	checkoutSvc := services.NewCheckoutService(catalogSvc, orderRepo, statsSvc, activitySvc, orderMetrics, logger, cfg.Checkout.MaxItemQuantity)
	orderSvc := services.NewOrderService(orderRepo, activitySvc, orderMetrics, logger)
	revenueSvc := services.NewRevenueService(orderRepo, logger)
	statementSvc := services.NewStatementService(shopRepo, revenueSvc, minioSvc, cfg.MinIO.StatementsBucket, cfg.MinIO.PresignExpiry(), logger)

	scheduler, err := background.NewJobScheduler(statsSvc, statementSvc, background.Options{
		ReconcileInterval: cfg.Jobs.ReconcileInterval(),
		StatementsEnabled: cfg.Jobs.StatementsEnabled,
	}, logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.Error("failed to stop scheduler", "error", err)
		}
	}()

	// Handlers
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, version)
	customerHandlers := handlers.NewCustomerOrderHandlers(checkoutSvc, orderSvc, cacheSvc, cfg.Checkout.IdempotencyTTL(), logger)
	shopHandlers := handlers.NewShopOrderHandlers(orderSvc, revenueSvc, statementSvc, logger)
	adminHandlers := handlers.NewAdminHandlers(catalogSvc, activitySvc, statsSvc, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.RequestLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}))

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/metrics", echo.WrapHandler(metricsHandler))

	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))
	v1.Use(middleware.JWT(cfg.Auth.JWTSecret))

	customer := v1.Group("/customer", middleware.RequireRole(models.RoleCustomer))
	customer.POST("/orders/checkout", customerHandlers.Checkout,
		middleware.RateLimit(cacheSvc, "checkout", cfg.Checkout.RateLimit, cfg.Checkout.RateWindow(), logger))
	customer.GET("/orders", customerHandlers.ListOrders)
	customer.GET("/orders/:id", customerHandlers.GetOrder)
	customer.POST("/orders/:id/cancel", customerHandlers.CancelOrder)

	shop := v1.Group("/shop", middleware.RequireRole(models.RoleShop))
	shop.GET("/orders", shopHandlers.ListOrders)
	shop.GET("/orders/:id", shopHandlers.GetOrder)
	shop.PUT("/orders/:id/status", shopHandlers.UpdateStatus)
	shop.PUT("/orders/:id/payment-status", shopHandlers.UpdatePaymentStatus)
	shop.GET("/revenue", shopHandlers.Revenue)
	shop.GET("/dashboard", shopHandlers.Dashboard)
	shop.GET("/revenue/statements/:month", shopHandlers.StatementURL)

	admin := v1.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.DELETE("/shops/:id", adminHandlers.DeleteShop)
	admin.GET("/activity-logs", adminHandlers.ListActivityLogs)
	admin.POST("/stats/reconcile", adminHandlers.ReconcileStats)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "version", version, "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
