package routes

import (
	"github.com/gin-gonic/gin"

	"nmqueue/internal/interfaces/http/handlers"
	"nmqueue/internal/interfaces/http/middleware"
)

// InconsistencyRouteConfig holds dependencies for inconsistency routes.
type InconsistencyRouteConfig struct {
	InconsistencyHandler *handlers.InconsistencyHandler
	AuthMiddleware       *middleware.AuthMiddleware
	Permission           *middleware.PermissionMiddleware
}

// SetupInconsistencyRoutes configures the front desk review surface.
func SetupInconsistencyRoutes(engine *gin.Engine, cfg *InconsistencyRouteConfig) {
	inconsistencies := engine.Group("/inconsistencies")
	inconsistencies.Use(cfg.AuthMiddleware.RequireAuth())
	{
		inconsistencies.GET("",
			cfg.Permission.Require("inconsistency", "read"),
			cfg.InconsistencyHandler.List)
		inconsistencies.POST("/fix",
			cfg.Permission.Require("inconsistency", "apply"),
			cfg.InconsistencyHandler.ApplyFix)
	}
}
