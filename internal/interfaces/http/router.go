package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authusecases "nmqueue/internal/application/auth/usecases"
	consistencyusecases "nmqueue/internal/application/consistency/usecases"
	personusecases "nmqueue/internal/application/person/usecases"
	processusecases "nmqueue/internal/application/process/usecases"
	"nmqueue/internal/infrastructure/auth"
	"nmqueue/internal/infrastructure/config"
	"nmqueue/internal/infrastructure/email"
	"nmqueue/internal/infrastructure/permission"
	"nmqueue/internal/infrastructure/ratelimit"
	"nmqueue/internal/infrastructure/repository"
	"nmqueue/internal/interfaces/http/handlers"
	"nmqueue/internal/interfaces/http/middleware"
	"nmqueue/internal/interfaces/http/routes"
	"nmqueue/internal/shared/db"
	"nmqueue/internal/shared/logger"
	"nmqueue/internal/shared/services/markdown"
	"nmqueue/internal/shared/utils"
)

// Router wires the HTTP surface: handlers, middleware and routes.
type Router struct {
	engine               *gin.Engine
	authHandler          *handlers.AuthHandler
	personHandler        *handlers.PersonHandler
	processHandler       *handlers.ProcessHandler
	inconsistencyHandler *handlers.InconsistencyHandler
	authMiddleware       *middleware.AuthMiddleware
	permMiddleware       *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter
	cfg                  *config.Config
}

// NewRouter builds the full HTTP dependency graph from the shared database
// handle and configuration.
func NewRouter(gdb *gorm.DB, enforcer *permission.Enforcer, cfg *config.Config, log logger.Interface) *Router {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := gin.New()

	personRepo := repository.NewPersonRepository(gdb)
	processRepo := repository.NewProcessRepository(gdb)
	logRepo := repository.NewProcessLogRepository(gdb)
	amRepo := repository.NewAMRepository(gdb)
	incRepo := repository.NewInconsistencyRepository(gdb)

	txManager := db.NewTransactionManager(gdb)
	renderer := markdown.NewService()

	sender := email.NewSMTPSender(&cfg.Email)
	notifier := email.NewTransitionNotifier(personRepo, processRepo, sender, cfg.Email.ArchiveAddr, log)

	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost)
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessExpMinutes)

	loginUC := authusecases.NewLoginUseCase(personRepo, amRepo, hasher, jwtService, log)

	createPersonUC := personusecases.NewCreatePersonUseCase(personRepo, log)
	confirmUC := personusecases.NewConfirmRegistrationUseCase(personRepo, log)
	getPersonUC := personusecases.NewGetPersonUseCase(personRepo, processRepo, amRepo, log)
	listPersonsUC := personusecases.NewListPersonsUseCase(personRepo, log)

	createProcessUC := processusecases.NewCreateProcessUseCase(processRepo, logRepo, personRepo, log)
	transitionUC := processusecases.NewApplyTransitionUseCase(
		processRepo, logRepo, personRepo, amRepo, txManager, notifier, log)
	timelineUC := processusecases.NewGetTimelineUseCase(
		processRepo, logRepo, personRepo, amRepo, renderer, log)
	assignManagerUC := processusecases.NewAssignManagerUseCase(processRepo, logRepo, personRepo, amRepo, log)
	addAdvocateUC := processusecases.NewAddAdvocateUseCase(processRepo, logRepo, personRepo, log)
	uncancelUC := processusecases.NewUncancelUseCase(processRepo, logRepo, amRepo, log)
	changeStatusUC := processusecases.NewChangeStatusUseCase(
		personRepo, processRepo, createProcessUC, transitionUC, log)

	listIncUC := consistencyusecases.NewListInconsistenciesUseCase(incRepo, log)
	applyFixUC := consistencyusecases.NewApplyFixUseCase(incRepo, personRepo, changeStatusUC, log)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	limiter := ratelimit.NewRedisRateLimiter(redisClient)
	rateLimiter := middleware.NewRateLimiter(limiter, ratelimit.RateLimitConfig{
		RequestsPerMinute: 20,
		RequestsPerHour:   200,
	}, log)

	return &Router{
		engine:               engine,
		authHandler:          handlers.NewAuthHandler(loginUC, log),
		personHandler:        handlers.NewPersonHandler(createPersonUC, confirmUC, getPersonUC, listPersonsUC, log),
		processHandler:       handlers.NewProcessHandler(createProcessUC, timelineUC, transitionUC, assignManagerUC, addAdvocateUC, uncancelUC, changeStatusUC, log),
		inconsistencyHandler: handlers.NewInconsistencyHandler(listIncUC, applyFixUC, log),
		authMiddleware:       middleware.NewAuthMiddleware(jwtService, log),
		permMiddleware:       middleware.NewPermissionMiddleware(enforcer, log),
		rateLimiter:          rateLimiter,
		cfg:                  cfg,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(log logger.Interface) {
	if err := RegisterValidators(); err != nil {
		log.Warnw("failed to register custom validators", "error", err)
	}

	r.engine.Use(middleware.Logger(log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.ErrorHandler())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "ok", gin.H{"status": "healthy"})
	})

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler: r.authHandler,
		RateLimiter: r.rateLimiter,
	})
	routes.SetupPersonRoutes(r.engine, &routes.PersonRouteConfig{
		PersonHandler:  r.personHandler,
		AuthMiddleware: r.authMiddleware,
		RateLimiter:    r.rateLimiter,
	})
	routes.SetupProcessRoutes(r.engine, &routes.ProcessRouteConfig{
		ProcessHandler: r.processHandler,
		AuthMiddleware: r.authMiddleware,
		Permission:     r.permMiddleware,
	})
	routes.SetupInconsistencyRoutes(r.engine, &routes.InconsistencyRouteConfig{
		InconsistencyHandler: r.inconsistencyHandler,
		AuthMiddleware:       r.authMiddleware,
		Permission:           r.permMiddleware,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
