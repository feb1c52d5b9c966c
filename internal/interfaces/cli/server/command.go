package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	personusecases "nmqueue/internal/application/person/usecases"
	processusecases "nmqueue/internal/application/process/usecases"
	"nmqueue/internal/infrastructure/config"
	"nmqueue/internal/infrastructure/database"
	"nmqueue/internal/infrastructure/migration"
	"nmqueue/internal/infrastructure/permission"
	"nmqueue/internal/infrastructure/repository"
	"nmqueue/internal/infrastructure/scheduler"
	"nmqueue/internal/interfaces/cli/reconcile"
	httpRouter "nmqueue/internal/interfaces/http"
	"nmqueue/internal/shared/biztime"
	"nmqueue/internal/shared/logger"
)

var (
	env                string
	autoMigrate        bool
	skipMigrationCheck bool
	noScheduler        bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the application tracker HTTP server with the background scheduler.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Do not start the background jobs")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	logger.Info("starting server", "environment", env, "auto_migrate", autoMigrate)

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := handleMigrations(cfg); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	gdb := database.Get()

	enforcer, err := permission.NewEnforcer(gdb, cfg.Auth.RBACModelPath, log)
	if err != nil {
		return fmt.Errorf("failed to initialize role enforcer: %w", err)
	}
	if err := permission.InitSitePolicies(enforcer, log); err != nil {
		return fmt.Errorf("failed to seed site policies: %w", err)
	}

	amRepo := repository.NewAMRepository(gdb)
	roleSync := permission.NewRoleSync(amRepo, enforcer, log)
	if err := roleSync.Sync(context.Background()); err != nil {
		// Stale roles are tolerable at boot; the next sync repairs them.
		log.Warnw("initial role sync failed", "error", err)
	}

	var sched *scheduler.SchedulerManager
	if !noScheduler {
		sched, err = startScheduler(cfg, gdb, log)
		if err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			if serr := sched.Stop(); serr != nil {
				log.Errorw("failed to stop scheduler", "error", serr)
			}
		}()
	}

	router := httpRouter.NewRouter(gdb, enforcer, cfg, log)
	router.SetupRoutes(log)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func startScheduler(cfg *config.Config, gdb *gorm.DB, log logger.Interface) (*scheduler.SchedulerManager, error) {
	sched, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return nil, err
	}

	personRepo := repository.NewPersonRepository(gdb)
	processRepo := repository.NewProcessRepository(gdb)
	logRepo := repository.NewProcessLogRepository(gdb)
	amRepo := repository.NewAMRepository(gdb)

	reconcileUC, err := reconcile.BuildRunner(gdb, cfg, log, "")
	if err != nil {
		return nil, err
	}
	if err := sched.RegisterReconcileJob(&cfg.Reconcile, reconcileUC); err != nil {
		return nil, err
	}

	recomputeUC := processusecases.NewRecomputeCtteUseCase(amRepo, logRepo, log)
	if err := sched.RegisterCtteRecomputeJob(recomputeUC); err != nil {
		return nil, err
	}

	sweepUC := personusecases.NewExpireSweepUseCase(personRepo, processRepo, log)
	if err := sched.RegisterExpireSweepJob(cfg.Reconcile.ExpirySweepHour, sweepUC); err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}

func handleMigrations(cfg *config.Config) error {
	if skipMigrationCheck {
		logger.Info("skipping migration check")
		return nil
	}

	if autoMigrate {
		if env == "production" {
			logger.Warn("auto-migration is enabled in production environment - this is not recommended!")
		}

		strategy := migration.NewAutoMigrateStrategy()
		if err := strategy.Migrate(database.Get()); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		return nil
	}

	scriptsPath, err := filepath.Abs("./internal/infrastructure/migration/scripts")
	if err != nil {
		logger.Warn("failed to get migration scripts path", "error", err)
		return nil
	}

	strategy := migration.NewGooseStrategy(scriptsPath, cfg.Database.Driver)
	version, err := strategy.GetVersion(database.Get())
	if err != nil {
		logger.Warn("failed to check migration status", "error", err)
		return nil
	}

	logger.Info("current migration version", "version", version)
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
