package am

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	authusecases "nmqueue/internal/application/auth/usecases"
	"nmqueue/internal/infrastructure/auth"
	"nmqueue/internal/infrastructure/config"
	"nmqueue/internal/infrastructure/database"
	"nmqueue/internal/infrastructure/permission"
	"nmqueue/internal/infrastructure/repository"
	"nmqueue/internal/shared/logger"
)

var env string

// NewCommand groups manager account maintenance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: "Application manager account maintenance",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newSetPasswordCommand(),
		newSyncRolesCommand(),
	)

	return cmd
}

func newSetPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-password <person>",
		Short: "Set a manager's API login password",
		Args:  cobra.ExactArgs(1),
		RunE:  runSetPassword,
	}
}

func newSyncRolesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-roles",
		Short: "Rebuild the site role assignments from the manager flags",
		RunE:  runSyncRoles,
	}
}

func initEnv() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

func runSetPassword(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	password, err := promptPassword()
	if err != nil {
		return err
	}

	gdb := database.Get()
	personRepo := repository.NewPersonRepository(gdb)
	amRepo := repository.NewAMRepository(gdb)
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost)

	uc := authusecases.NewSetPasswordUseCase(personRepo, amRepo, hasher, log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := uc.Execute(ctx, authusecases.SetPasswordCommand{
		PersonKey: args[0],
		Password:  password,
	}); err != nil {
		return err
	}

	fmt.Printf("Password set for %s\n", args[0])
	return nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "New password: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}

	return string(first), nil
}

func runSyncRoles(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	gdb := database.Get()

	enforcer, err := permission.NewEnforcer(gdb, cfg.Auth.RBACModelPath, log)
	if err != nil {
		return fmt.Errorf("failed to initialize role enforcer: %w", err)
	}
	if err := permission.InitSitePolicies(enforcer, log); err != nil {
		return fmt.Errorf("failed to seed site policies: %w", err)
	}

	amRepo := repository.NewAMRepository(gdb)
	sync := permission.NewRoleSync(amRepo, enforcer, log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := sync.Sync(ctx); err != nil {
		return fmt.Errorf("role sync failed: %w", err)
	}

	fmt.Println("Site roles synchronized")
	return nil
}
