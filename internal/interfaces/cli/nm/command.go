package nm

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	personusecases "nmqueue/internal/application/person/usecases"
	processusecases "nmqueue/internal/application/process/usecases"
	"nmqueue/internal/domain/membership"
	"nmqueue/internal/infrastructure/config"
	"nmqueue/internal/infrastructure/database"
	"nmqueue/internal/infrastructure/email"
	"nmqueue/internal/infrastructure/repository"
	"nmqueue/internal/shared/biztime"
	"nmqueue/internal/shared/db"
	"nmqueue/internal/shared/logger"
)

var (
	env     string
	actor   string
	message string
)

// NewCommand groups the administrative record-keeping operations.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nm",
		Short: "Administrative operations on applicants and processes",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&actor, "actor", "a", "", "Account name of the person performing the operation (required)")
	cmd.PersistentFlags().StringVarP(&message, "message", "m", "", "Log message recorded with the operation")

	cmd.AddCommand(
		newChangeStatusCommand(),
		newProcessDoneCommand(),
		newUncancelCommand(),
		newSetFingerprintCommand(),
	)

	return cmd
}

func newChangeStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "change-status <person> <status>",
		Short: "Record a membership status change through a single-step process",
		Args:  cobra.ExactArgs(2),
		RunE:  runChangeStatus,
	}
}

func newProcessDoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "process-done <process>",
		Short: "Complete a process and promote the applicant",
		Args:  cobra.ExactArgs(1),
		RunE:  runProcessDone,
	}
}

func newUncancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uncancel <process> <target-progress>",
		Short: "Reactivate a canceled process at the given progress",
		Args:  cobra.ExactArgs(2),
		RunE:  runUncancel,
	}
}

func newSetFingerprintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-fingerprint <person> <fingerprint>",
		Short: "Record a key change for a person",
		Args:  cobra.ExactArgs(2),
		RunE:  runSetFingerprint,
	}
}

type runtime struct {
	gdb *gorm.DB
	cfg *config.Config
	log logger.Interface
}

func initEnv() (*runtime, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &runtime{gdb: database.Get(), cfg: cfg, log: logger.NewLogger()}, nil
}

func (rt *runtime) resolveActor(ctx context.Context) (uint, error) {
	if actor == "" {
		return 0, fmt.Errorf("--actor is required")
	}
	personRepo := repository.NewPersonRepository(rt.gdb)
	p, err := personusecases.LookupPerson(ctx, personRepo, actor)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve actor %q: %w", actor, err)
	}
	return p.ID(), nil
}

func (rt *runtime) transitionUseCase() *processusecases.ApplyTransitionUseCase {
	personRepo := repository.NewPersonRepository(rt.gdb)
	processRepo := repository.NewProcessRepository(rt.gdb)
	logRepo := repository.NewProcessLogRepository(rt.gdb)
	amRepo := repository.NewAMRepository(rt.gdb)

	sender := email.NewSMTPSender(&rt.cfg.Email)
	notifier := email.NewTransitionNotifier(personRepo, processRepo, sender, rt.cfg.Email.ArchiveAddr, rt.log)

	return processusecases.NewApplyTransitionUseCase(
		processRepo, logRepo, personRepo, amRepo,
		db.NewTransactionManager(rt.gdb), notifier, rt.log)
}

func runChangeStatus(cmd *cobra.Command, args []string) error {
	rt, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	actorID, err := rt.resolveActor(ctx)
	if err != nil {
		return err
	}

	personRepo := repository.NewPersonRepository(rt.gdb)
	processRepo := repository.NewProcessRepository(rt.gdb)
	logRepo := repository.NewProcessLogRepository(rt.gdb)

	createUC := processusecases.NewCreateProcessUseCase(processRepo, logRepo, personRepo, rt.log)
	uc := processusecases.NewChangeStatusUseCase(
		personRepo, processRepo, createUC, rt.transitionUseCase(), rt.log)

	result, err := uc.Execute(ctx, processusecases.ChangeStatusCommand{
		PersonKey: args[0],
		NewStatus: membership.Status(args[1]),
		ActorID:   actorID,
		Message:   message,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Status changed: person %d, %s -> %s (process %d)\n",
		result.PersonID, result.OldStatus, result.NewStatus, result.ProcessID)
	return nil
}

func runProcessDone(cmd *cobra.Command, args []string) error {
	rt, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	actorID, err := rt.resolveActor(ctx)
	if err != nil {
		return err
	}

	processRepo := repository.NewProcessRepository(rt.gdb)
	proc, err := processusecases.LookupProcess(ctx, processRepo,
		repository.NewPersonRepository(rt.gdb), args[0])
	if err != nil {
		return err
	}

	uc := processusecases.NewProcessDoneUseCase(processRepo, rt.transitionUseCase(), rt.log)

	result, err := uc.Execute(ctx, processusecases.ProcessDoneCommand{
		ProcessID: proc.ID(),
		ActorID:   actorID,
		Message:   message,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Process %d completed: %s -> %s\n",
		result.ProcessID, result.OldProgress, result.NewProgress)
	return nil
}

func runUncancel(cmd *cobra.Command, args []string) error {
	rt, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	actorID, err := rt.resolveActor(ctx)
	if err != nil {
		return err
	}

	processRepo := repository.NewProcessRepository(rt.gdb)
	proc, err := processusecases.LookupProcess(ctx, processRepo,
		repository.NewPersonRepository(rt.gdb), args[0])
	if err != nil {
		return err
	}

	logRepo := repository.NewProcessLogRepository(rt.gdb)
	amRepo := repository.NewAMRepository(rt.gdb)
	uc := processusecases.NewUncancelUseCase(processRepo, logRepo, amRepo, rt.log)

	result, err := uc.Execute(ctx, processusecases.UncancelCommand{
		ProcessID: proc.ID(),
		Target:    membership.Progress(args[1]),
		ActorID:   actorID,
		Message:   message,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Process %d reactivated at %s\n", result.ProcessID, result.Progress)
	return nil
}

func runSetFingerprint(cmd *cobra.Command, args []string) error {
	rt, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	personRepo := repository.NewPersonRepository(rt.gdb)
	uc := personusecases.NewSetFingerprintUseCase(personRepo, rt.log)

	if err := uc.Execute(ctx, personusecases.SetFingerprintCommand{
		PersonKey:   args[0],
		Fingerprint: args[1],
	}); err != nil {
		return err
	}

	fmt.Printf("Fingerprint recorded for %s\n", args[0])
	return nil
}
