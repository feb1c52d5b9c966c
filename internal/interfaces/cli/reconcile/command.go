package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	consistencyusecases "nmqueue/internal/application/consistency/usecases"
	processusecases "nmqueue/internal/application/process/usecases"
	"nmqueue/internal/infrastructure/config"
	"nmqueue/internal/infrastructure/database"
	"nmqueue/internal/infrastructure/repository"
	"nmqueue/internal/infrastructure/sources"
	"nmqueue/internal/shared/biztime"
	"nmqueue/internal/shared/logger"
)

// changelogWindowDays bounds how far back the keyring changelog pass reads.
const changelogWindowDays = 30

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile [pass]",
		Short: "Run the cross-source consistency checks",
		Long: `Run the reconciliation passes against the external sources and rebuild
the inconsistency records. With no argument every registered pass runs in
order; naming one pass (database, keyring, directory, archive,
keyring-changelog) runs only that pass.

Every run rebuilds the inconsistency store from scratch. Findings from the
same entity merge across passes and carry no per-pass attribution, so a
single-pass run clears the other passes' records until their next run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(newAMCtteCommand())

	return cmd
}

func newAMCtteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "amctte",
		Short: "Recompute the application manager committee flags",
		RunE:  runAMCtte,
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

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	pass := ""
	if len(args) == 1 {
		pass = args[0]
	}

	uc, err := BuildRunner(database.Get(), cfg, log, pass)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	result, err := uc.Execute(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	fmt.Printf("\nReconciliation finished: %d findings, %d records skipped\n",
		result.Findings, result.Skipped)
	for _, report := range result.Reports {
		fmt.Printf("  %-18s findings=%d skipped=%d\n",
			report.CheckName, report.Findings, report.Skipped)
	}
	for _, name := range result.Failed {
		fmt.Printf("  %-18s SOURCE UNAVAILABLE\n", name)
	}

	return nil
}

func runAMCtte(cmd *cobra.Command, args []string) error {
	_, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	gdb := database.Get()
	amRepo := repository.NewAMRepository(gdb)
	logRepo := repository.NewProcessLogRepository(gdb)

	uc := processusecases.NewRecomputeCtteUseCase(amRepo, logRepo, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := uc.Execute(ctx)
	if err != nil {
		return fmt.Errorf("committee recompute failed: %w", err)
	}

	fmt.Printf("Committee recomputed: %d members, %d demoted\n",
		result.Members, result.Demoted)
	return nil
}

// BuildRunner assembles the reconciliation engine with every configured pass,
// or just the named one. The server's scheduler and the one-shot command
// share this wiring.
//
// The engine resets the whole inconsistency store at the start of every run:
// records merge findings from several passes under one entity key, so there
// is no per-pass share to reset selectively. A single-pass run therefore
// rebuilds the store with only that pass's findings.
func BuildRunner(gdb *gorm.DB, cfg *config.Config, log logger.Interface, pass string) (*consistencyusecases.RunReconciliationUseCase, error) {
	personRepo := repository.NewPersonRepository(gdb)
	processRepo := repository.NewProcessRepository(gdb)
	logRepo := repository.NewProcessLogRepository(gdb)
	incRepo := repository.NewInconsistencyRepository(gdb)

	keyring := sources.NewFileKeyringSource(cfg.Keyring.ManifestPath, log)
	directory := sources.NewLDAPDirectorySource(&cfg.Directory, log)
	archive := sources.NewHTTPArchiveSource(&cfg.Archive, log)
	changelog := sources.NewFileChangelogSource(cfg.Keyring.ChangelogPath, log)

	since := biztime.DaysAgoUTC(changelogWindowDays)

	all := []consistencyusecases.Check{
		consistencyusecases.NewDatabaseCheck(processRepo, logRepo, incRepo, log),
		consistencyusecases.NewKeyringCheck(personRepo, keyring, incRepo, log),
		consistencyusecases.NewDirectoryCheck(personRepo, directory, incRepo,
			cfg.Directory.GuestGID, cfg.Directory.AccountGID, log),
		consistencyusecases.NewArchiveCheck(personRepo, archive, incRepo, log),
		consistencyusecases.NewChangelogCheck(personRepo, changelog, incRepo, since, log),
	}

	checks := all
	if pass != "" {
		checks = nil
		for _, c := range all {
			if c.Name() == pass {
				checks = []consistencyusecases.Check{c}
				break
			}
		}
		if len(checks) == 0 {
			return nil, fmt.Errorf("unknown reconciliation pass: %s", pass)
		}
	}

	return consistencyusecases.NewRunReconciliationUseCase(incRepo, checks, log), nil
}
