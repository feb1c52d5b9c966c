package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nmqueue/internal/infrastructure/permission"
	"nmqueue/internal/shared/logger"
	"nmqueue/internal/shared/utils"
)

// PermissionMiddleware gates admin routes on the site roles mirrored from AM
// flags. Relational checks (is this viewer the subject's manager) stay in the
// domain capability engine; this layer only answers role questions.
type PermissionMiddleware struct {
	enforcer *permission.Enforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer *permission.Enforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// Require allows the request through only when the authenticated person's
// roles grant the given action on the given resource.
func (m *PermissionMiddleware) Require(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		personID := ViewerID(c)
		if personID == 0 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		allowed, err := m.enforcer.Enforce(permission.Subject(personID), resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed",
				"person_id", personID,
				"resource", resource,
				"action", action,
				"error", err)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}
		if !allowed {
			m.logger.Warnw("access denied",
				"person_id", personID,
				"resource", resource,
				"action", action)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
