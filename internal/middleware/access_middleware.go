package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mixtape-backend-go/internal/core"
)

// RequireAccess gates authenticated requests through the allowlist/invite
// access gate. A one-time invite token may ride along as the "invite"
// query parameter and is redeemed before the allowlist check. Lookup
// failures deny access (fail closed).
func RequireAccess(gate *core.AccessGate, logger *zap.Logger) gin.HandlerFunc {
	if gate == nil {
		panic("RequireAccess requires a non-nil AccessGate")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
			return
		}

		if err := gate.Authorize(c.Request.Context(), &identity, c.Query("invite")); err != nil {
			logger.Info("Access denied",
				zap.String("uid", identity.UID), zap.String("email", identity.Email), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Error: "Access denied. You need an invitation to use this app.",
			})
			return
		}

		c.Next()
	}
}
