package routes

import (
	"github.com/gin-gonic/gin"

	"nmqueue/internal/interfaces/http/handlers"
	"nmqueue/internal/interfaces/http/middleware"
)

// ProcessRouteConfig holds dependencies for process routes.
type ProcessRouteConfig struct {
	ProcessHandler *handlers.ProcessHandler
	AuthMiddleware *middleware.AuthMiddleware
	Permission     *middleware.PermissionMiddleware
}

// SetupProcessRoutes configures process routes. Fine-grained transition
// rights are decided by the domain capability engine; the role middleware
// only gates the administrative surface.
func SetupProcessRoutes(engine *gin.Engine, cfg *ProcessRouteConfig) {
	processes := engine.Group("/processes")
	{
		processes.GET("/:id/timeline", cfg.AuthMiddleware.OptionalAuth(), cfg.ProcessHandler.GetTimeline)

		authed := processes.Group("")
		authed.Use(cfg.AuthMiddleware.RequireAuth())
		{
			authed.POST("", cfg.ProcessHandler.CreateProcess)
			authed.POST("/:id/transition", cfg.ProcessHandler.ApplyTransition)
			authed.POST("/:id/advocates", cfg.ProcessHandler.AddAdvocate)

			authed.POST("/:id/manager",
				cfg.Permission.Require("process", "write"),
				cfg.ProcessHandler.AssignManager)
			authed.POST("/:id/uncancel",
				cfg.Permission.Require("process", "write"),
				cfg.ProcessHandler.Uncancel)
		}
	}

	admin := engine.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	{
		admin.POST("/change-status",
			cfg.Permission.Require("person", "write"),
			cfg.ProcessHandler.ChangeStatus)
	}
}
