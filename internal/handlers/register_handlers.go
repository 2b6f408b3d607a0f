package handlers

import (
	"net/http"

	"github.com/SscSPs/sales_ledger/cmd/docs"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/middleware"
	"github.com/SscSPs/sales_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteOptions carries the optional pieces of the HTTP surface.
type RouteOptions struct {
	// Metrics serves the Prometheus scrape endpoint when set.
	Metrics http.Handler
	// AdminLimiter throttles settings changes and manual refreshes when set.
	AdminLimiter *limiter.Limiter
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	opts RouteOptions,
) {
	r.GET("/health", getHealth)

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	setupAPIV1Routes(r, services, opts)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, service *portssvc.ServiceContainer, opts RouteOptions) {
	v1 := r.Group("/api/v1", middleware.ActorMiddleware())

	var admin []gin.HandlerFunc
	if opts.AdminLimiter != nil {
		admin = append(admin, middleware.RateLimit(opts.AdminLimiter))
	}

	registerLedgerRoutes(v1, service.Ledger)
	registerAccountRoutes(v1, service.Account)
	registerCurrencyRoutes(v1, service.CurrencySettings, service.RateUpdater, admin...)
	registerExchangeRateRoutes(v1, service.ExchangeRate)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg == nil || cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// withMiddleware returns a fresh handler chain so routes never share a backing array.
func withMiddleware(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(mw)+1)
	chain = append(chain, mw...)
	return append(chain, h)
}
