package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ledgerapp "github.com/chamanguitech/backend/internal/application/ledger"
	logisticsapp "github.com/chamanguitech/backend/internal/application/logistics"
	purchaseapp "github.com/chamanguitech/backend/internal/application/purchase"
	saleapp "github.com/chamanguitech/backend/internal/application/sale"
	"github.com/chamanguitech/backend/internal/infrastructure/auth"
	"github.com/chamanguitech/backend/internal/infrastructure/cache"
	"github.com/chamanguitech/backend/internal/infrastructure/config"
	"github.com/chamanguitech/backend/internal/infrastructure/logger"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence"
	"github.com/chamanguitech/backend/internal/infrastructure/telemetry"
	"github.com/chamanguitech/backend/internal/interfaces/http/handler"
	"github.com/chamanguitech/backend/internal/interfaces/http/middleware"
	"github.com/chamanguitech/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Bootstrap logger, used until the OTEL log bridge is known
	bootLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}

	log := bootLog
	if logsProvider.IsEnabled() {
		log, err = logger.New(&logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: cfg.Log.Output,
		}, logsProvider.Core(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting back office API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.TracingEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := meterProvider.Meter(telemetry.MeterName)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Pyroscope.Enabled,
		ServerAddress:     cfg.Pyroscope.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Pyroscope.BasicAuthUser,
		BasicAuthPassword: cfg.Pyroscope.BasicAuthPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles not enabled", zap.Error(err))
		}
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowQuery))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if db.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate SQLite schema", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	dbSystem := "postgresql"
	if db.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.TracingEnabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:        dbSystem,
		SlowQueryThresh: cfg.Database.SlowQuery,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to access connection pool", zap.Error(err))
		}
		if _, err := telemetry.RegisterDBMetrics(db.DB, sqlDB, meter, cfg.Database.SlowQuery); err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
	}

	ledgerMetrics, err := telemetry.NewLedgerMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register ledger metrics", zap.Error(err))
	}

	// Application services
	uow := persistence.NewGormUnitOfWork(db.DB, persistence.WithTxObserver(ledgerMetrics))

	purchaseService := purchaseapp.NewPurchaseService(uow)
	purchaseService.SetMetrics(ledgerMetrics)
	companySaleService := saleapp.NewCompanySaleService(uow)
	companySaleService.SetMetrics(ledgerMetrics)
	localSaleService := saleapp.NewLocalSaleService(uow)
	localSaleService.SetMetrics(ledgerMetrics)
	logisticsService := logisticsapp.NewLogisticsService(uow)
	logisticsService.SetMetrics(ledgerMetrics)

	purchasePayments := ledgerapp.NewPurchasePaymentService(uow, ledgerapp.WithMetrics(ledgerMetrics))
	companySalePayments := ledgerapp.NewCompanySalePaymentService(uow, ledgerapp.WithMetrics(ledgerMetrics))
	detailPayments := ledgerapp.NewLocalCompanySaleDetailPaymentService(uow, ledgerapp.WithMetrics(ledgerMetrics))
	paymentMethodService := ledgerapp.NewPaymentMethodService(uow)

	opts := router.Options{
		Logger:           log,
		ServiceName:      cfg.Telemetry.ServiceName,
		TracingEnabled:   tracerProvider.IsEnabled(),
		Meter:            meter,
		ProfilingEnabled: profiler.IsEnabled(),
		CORS: middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		},
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}
	if cfg.HTTP.RateLimitEnabled {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	}
	if cfg.JWT.Enabled {
		opts.TokenVerifier = auth.NewJWTService(cfg.JWT)
	}
	if cfg.Idempotency.Enabled {
		store := cache.NewIdempotencyStore(ctx, cfg.Redis, log)
		defer func() { _ = store.Close() }()
		opts.Idempotency = store
		opts.IdempotencyTTL = cfg.Idempotency.TTL
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.NewEngine(opts, router.Handlers{
		Health:                         handler.NewHealthHandler(cfg.App.Name, version, db),
		PaymentMethods:                 handler.NewPaymentMethodHandler(paymentMethodService),
		Purchases:                      handler.NewPurchaseHandler(purchaseService, purchasePayments, logisticsService),
		PurchasePayments:               handler.NewPaymentHandler(purchasePayments),
		CompanySales:                   handler.NewCompanySaleHandler(companySaleService),
		CompanySalePayments:            handler.NewPaymentHandler(companySalePayments),
		LocalSales:                     handler.NewLocalSaleHandler(localSaleService),
		LocalCompanySaleDetailPayments: handler.NewPaymentHandler(detailPayments),
		Logistics:                      handler.NewLogisticsHandler(logisticsService),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down meter provider", zap.Error(err))
	}
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
