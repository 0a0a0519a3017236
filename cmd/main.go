package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "pay2u/docs"
	"pay2u/internal/analytics"
	"pay2u/internal/billing"
	"pay2u/internal/caching"
	"pay2u/internal/config"
	"pay2u/internal/handlers"
	"pay2u/internal/jobs/background"
	"pay2u/internal/middleware"
	"pay2u/internal/repositories"
	"pay2u/internal/services"
	"pay2u/pkg/database"
	"pay2u/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		version, err := database.MigrateUp(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		zapLogger.Info("database schema up to date", zap.Uint("version", version))
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, zapLogger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, zapLogger)
	defer cacheSvc.Close()

	var logoSvc services.LogoService
	var storagePinger handlers.Pinger
	if cfg.MinioEnabled() {
		logoSvc, err = services.NewLogoService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioLogoBucket)
		if err != nil {
			return fmt.Errorf("failed to initialize logo storage: %w", err)
		}
		if err := logoSvc.EnsureBucketExists(ctx); err != nil {
			zapLogger.Warn("logo bucket unavailable, logos will be omitted", zap.String("bucket", cfg.MinioLogoBucket), zap.Error(err))
		}
		storagePinger = logoSvc
	} else {
		zapLogger.Info("MinIO not configured, service logos disabled")
	}

	// Repositories
	txManager := repositories.NewTxManager(pool)
	cardRepo := repositories.NewCardRepo(pool)
	subscriptionRepo := repositories.NewSubscriptionRepo(pool)
	catalogRepo := repositories.NewCatalogRepo(pool)
	comparisonRepo := repositories.NewComparisonRepo(pool)

	// Billing
	calculator := billing.NewCalculator(billing.NewDurationPolicy(cfg.BillingYearDays, cfg.BillingStrictDuration))

	// Services
	ledgerSvc := services.NewLedgerService(txManager, cardRepo, subscriptionRepo, cfg.BillingDefaultCardBalance, zapLogger)
	catalogSvc := services.NewCatalogService(catalogRepo, logoSvc, cacheSvc, zapLogger)
	subscriptionSvc := services.NewSubscriptionService(txManager, subscriptionRepo, catalogRepo, cardRepo, ledgerSvc, calculator, cacheSvc, zapLogger, nil)
	comparisonSvc := services.NewComparisonService(comparisonRepo, catalogSvc)
	analyticsSvc := analytics.NewAnalyticsService(subscriptionRepo, catalogSvc, cacheSvc, cfg.SummaryCacheTTL, zapLogger, nil)

	scheduler, err := background.NewJobScheduler(analyticsSvc, subscriptionRepo, cfg.RenewalJobInterval, zapLogger)
	if err != nil {
		return fmt.Errorf("failed to create job scheduler: %w", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			zapLogger.Warn("job scheduler shutdown failed", zap.Error(err))
		}
	}()

	auth, err := middleware.NewAuthenticator(cfg.JWTSecret, cfg.JWKSURL, zapLogger)
	if err != nil {
		return err
	}
	defer auth.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(zapLogger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	routes := &handlers.Routes{
		Health:         handlers.NewHealthHandlers(pool, cacheSvc, storagePinger),
		Catalog:        handlers.NewCatalogHandlers(catalogSvc),
		Subscriptions:  handlers.NewSubscriptionHandlers(subscriptionSvc),
		Cards:          handlers.NewCardHandlers(ledgerSvc),
		Reports:        handlers.NewReportHandlers(analyticsSvc),
		Comparison:     handlers.NewComparisonHandlers(comparisonSvc),
		Version:        middleware.NewVersionMiddleware(),
		Auth:           auth.Middleware(),
		SubscribeLimit: middleware.RateLimit(cacheSvc, "subscribe", cfg.RateLimitPerMinute, time.Minute, zapLogger),
	}
	routes.Register(e)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	serverErr := make(chan error, 1)
	go func() {
		zapLogger.Info("pay2u server starting",
			zap.String("version", handlers.Version),
			zap.String("port", cfg.ServerPort),
			zap.String("env", cfg.Environment),
		)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
