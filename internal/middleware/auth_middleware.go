package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mixtape-backend-go/internal/models"
)

// ErrorResponse is a local definition for sending standardized error
// messages. It mirrors the one in internal/api/dto_models.go to avoid
// import cycles.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// identityContextKey is where the authenticated identity is stored in the
// gin context.
const identityContextKey = "identity"

// AuthMiddleware provides Gin middleware for Firebase token authentication.
type AuthMiddleware struct {
	firebaseAuthClient *auth.Client
	logger             *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance. It panics if
// the auth client is nil, as authenticated routes cannot function without it.
func NewAuthMiddleware(fbAuthClient *auth.Client, logger *zap.Logger) *AuthMiddleware {
	if fbAuthClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{firebaseAuthClient: fbAuthClient, logger: logger}
}

// VerifyToken verifies a Firebase ID token from the Authorization header
// and stores the resulting identity in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.firebaseAuthClient.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Warn("Error verifying Firebase ID token", zap.Error(err))
			// Generic message to the client; details stay server-side.
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		identity := models.Identity{UID: token.UID}
		if email, ok := token.Claims["email"].(string); ok {
			identity.Email = email
		}
		if name, ok := token.Claims["name"].(string); ok {
			identity.DisplayName = name
		}
		if picture, ok := token.Claims["picture"].(string); ok {
			identity.PhotoURL = picture
		}
		c.Set(identityContextKey, identity)

		c.Next()
	}
}

// IdentityFrom extracts the authenticated identity stored by VerifyToken.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}
