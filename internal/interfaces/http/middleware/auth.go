package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nmqueue/internal/infrastructure/auth"
	"nmqueue/internal/shared/constants"
	"nmqueue/internal/shared/logger"
	"nmqueue/internal/shared/utils"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyPersonID, claims.PersonID)
		c.Set(constants.ContextKeyUID, claims.UID)

		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present
// but lets anonymous requests through. Handlers project the response through
// the capability engine, so anonymous simply means fewer visible fields.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err == nil {
			c.Set(constants.ContextKeyPersonID, claims.PersonID)
			c.Set(constants.ContextKeyUID, claims.UID)
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// ViewerID returns the authenticated person ID, or zero for anonymous.
func ViewerID(c *gin.Context) uint {
	if v, exists := c.Get(constants.ContextKeyPersonID); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
