package middleware

import (
	"strings"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// ActorHeader carries the identifier of whoever triggered the request.
// Authentication happens upstream; the ledger only records the value.
const ActorHeader = "X-Actor-ID"

// actorKey is the key used to store the acting user's ID in the Gin context.
const actorKey = contextKey("actorID")

// ActorMiddleware copies the actor header into the Gin context.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := strings.TrimSpace(c.GetHeader(ActorHeader)); actor != "" {
			c.Set(string(actorKey), actor)
		}
		c.Next()
	}
}

// GetActorFromContext retrieves the acting user ID from the Gin context.
// Requests without one are attributed to domain.SystemUser.
func GetActorFromContext(c *gin.Context) string {
	val, exists := c.Get(string(actorKey))
	if !exists {
		return domain.SystemUser
	}

	actor, ok := val.(string)
	if !ok || actor == "" {
		return domain.SystemUser
	}

	return actor
}
