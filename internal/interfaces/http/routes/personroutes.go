package routes

import (
	"github.com/gin-gonic/gin"

	"nmqueue/internal/interfaces/http/handlers"
	"nmqueue/internal/interfaces/http/middleware"
)

// PersonRouteConfig holds dependencies for person routes.
type PersonRouteConfig struct {
	PersonHandler  *handlers.PersonHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

// SetupPersonRoutes configures person routes. Reads are open to anonymous
// viewers; the capability engine decides field visibility, not the router.
func SetupPersonRoutes(engine *gin.Engine, cfg *PersonRouteConfig) {
	persons := engine.Group("/persons")
	{
		persons.POST("", cfg.RateLimiter.Limit(), cfg.PersonHandler.Register)
		persons.POST("/:id/confirm", cfg.RateLimiter.Limit(), cfg.PersonHandler.Confirm)

		persons.GET("", cfg.AuthMiddleware.OptionalAuth(), cfg.PersonHandler.ListPersons)
		persons.GET("/:key", cfg.AuthMiddleware.OptionalAuth(), cfg.PersonHandler.GetPerson)
	}
}
