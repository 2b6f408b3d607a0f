package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/sales_ledger/internal/adapters/events"
	"github.com/SscSPs/sales_ledger/internal/adapters/metrics"
	"github.com/SscSPs/sales_ledger/internal/adapters/rateproviders"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/core/services"
	"github.com/SscSPs/sales_ledger/internal/handlers"
	"github.com/SscSPs/sales_ledger/internal/middleware"
	"github.com/SscSPs/sales_ledger/internal/platform/config"
	"github.com/SscSPs/sales_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/sales_ledger/internal/repositories/memory"
	"github.com/SscSPs/sales_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title Sales Ledger API
// @version 1.0
// @description Posts sales and invoices as balanced double-entry transactions and keeps currency rates fresh.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			logger.Error("Error closing event publisher", slog.String("error", cerr.Error()))
		}
	}()

	container, updater := services.NewServiceContainer(cfg, repos, services.Dependencies{
		Providers: rateProviders(cfg),
		Publisher: publisher,
		Metrics:   ledgerMetrics,
	})

	if err := container.Account.Bootstrap(ctx); err != nil {
		logger.Error("Failed to bootstrap ledger accounts", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if _, err := container.CurrencySettings.Bootstrap(ctx); err != nil {
		logger.Error("Failed to bootstrap currency settings", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Ledger bootstrapped", slog.String("base_currency", cfg.BaseCurrency))

	scheduler := services.NewRateScheduler(updater, cfg.RateStartupDelay, cfg.RateCheckInterval, logger)
	scheduler.Start(ctx)

	adminLimiter, err := middleware.NewMemoryLimiter(cfg.AdminRateLimit)
	if err != nil {
		logger.Error("Invalid ADMIN_RATE_LIMIT", slog.String("rate", cfg.AdminRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.ActorHeader, "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, handlers.RouteOptions{
		Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		AdminLimiter: adminLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

// setupRepositories connects to PostgreSQL and applies migrations when a database URL is configured,
// otherwise it falls back to the in-memory store.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("No database configured, ledger state will not survive a restart")
		return memory.NewStore().Repositories(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func rateProviders(cfg *config.Config) []portssvc.RateProvider {
	built := rateproviders.Default(rateproviders.Endpoints{
		OpenERAPI:                 cfg.OpenERAPIURL,
		ExchangerateHost:          cfg.ExchangeRateHostURL,
		ExchangerateHostAccessKey: cfg.ExchangeRateHostAccessKey,
		CurrencyAPI:               cfg.CurrencyAPIURL,
	}, rateproviders.Options{
		Timeout:   cfg.RateProviderTimeout,
		UserAgent: cfg.RateUserAgent,
	})
	out := make([]portssvc.RateProvider, len(built))
	for i, p := range built {
		out[i] = p
	}
	return out
}
