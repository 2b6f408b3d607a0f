package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// contextKey keeps middleware values from colliding with other packages' context keys.
type contextKey string

const loggerKey = contextKey("logger")

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// quietPaths are probe endpoints whose successful requests are not logged.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// StructuredLoggingMiddleware gives each request a logger tagged with its request ID, method and path,
// stores it in the request context and logs the outcome once the handler chain returns.
func StructuredLoggingMiddleware(baseLogger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		requestLogger := baseLogger.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)

		c.Header(RequestIDHeader, requestID)
		c.Set(string(loggerKey), requestLogger)
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), requestLogger))

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest && quietPaths[c.Request.URL.Path] {
			return
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		requestLogger.Log(c.Request.Context(), level, "Request completed",
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("actor", GetActorFromContext(c)),
		)
	}
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLoggerFromCtx retrieves the logger stored by WithLogger, falling back to slog.Default.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
