package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// adminLimiterPrefix namespaces the admin buckets inside the shared memory store.
const adminLimiterPrefix = "sales-ledger-admin"

// NewMemoryLimiter builds a limiter from a formatted rate such as "5-M" backed by an in-process store.
func NewMemoryLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          adminLimiterPrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
	return limiter.New(store, rate), nil
}

// rateLimitKey gives every route its own bucket per client address.
func rateLimitKey(c *gin.Context) string {
	return c.Request.Method + " " + c.FullPath() + "|" + c.ClientIP()
}

// RateLimit rejects requests with 429 once the caller's bucket for the route is exhausted.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		key := rateLimitKey(c)

		lctx, err := limiterInstance.Get(c.Request.Context(), key)
		if err != nil {
			logger.Error("Failed to get rate limit context", slog.String("key", key), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			logger.Warn("Rate limit exceeded", slog.String("key", key), slog.Int64("limit", lctx.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}
