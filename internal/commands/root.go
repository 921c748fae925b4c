package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/migrations"
)

// Queue submits background work. It is satisfied by *jobs.Client.
type Queue interface {
	EnqueuePendingGenerate(ctx context.Context, month domain.CompetencyMonth) (*asynq.TaskInfo, error)
	EnqueueLedgerIntegrity(ctx context.Context, repair bool) (*asynq.TaskInfo, error)
}

// Deps wires the subcommands to their collaborators. Connections are opened lazily so that
// commands such as --help never touch the database.
type Deps struct {
	Logger *slog.Logger

	// Services opens the storage and returns the service container plus a release func.
	Services func(ctx context.Context) (*portssvc.ServiceContainer, func(), error)

	// Migrate applies or rolls back the schema migrations.
	Migrate func(ctx context.Context, dir migrations.Direction) error

	// Queue is optional; without it --async flags are rejected.
	Queue func() (Queue, func(), error)

	ChartFile       string
	TaxBracketsFile string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(deps Deps) *cobra.Command {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	rootCmd := &cobra.Command{
		Use:   "lfa_cli",
		Short: "Monthly accounting consolidation for the firm",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(deps),
		newSeedCommand(deps),
		newConsolidateCommand(deps),
		newDeconsolidateCommand(deps),
		newGenerateCommand(deps),
		newDuplicatesCommand(deps),
		newStatementCommand(deps),
	)

	return rootCmd
}

// withServices opens the container for the duration of fn.
func withServices(cmd *cobra.Command, deps Deps, fn func(ctx context.Context, svc *portssvc.ServiceContainer) error) error {
	if deps.Services == nil {
		return fmt.Errorf("storage is not configured")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, release, err := deps.Services(ctx)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	if release != nil {
		defer release()
	}
	return fn(ctx, svc)
}

func monthArg(args []string) (domain.CompetencyMonth, error) {
	return domain.ParseCompetencyMonth(args[0])
}

// enqueue hands fn the queue, failing when none is configured.
func enqueue(cmd *cobra.Command, deps Deps, fn func(q Queue) (*asynq.TaskInfo, error)) error {
	if deps.Queue == nil {
		return fmt.Errorf("--async requires REDIS_ADDR")
	}
	q, release, err := deps.Queue()
	if err != nil {
		return fmt.Errorf("opening queue: %w", err)
	}
	if release != nil {
		defer release()
	}
	info, err := fn(q)
	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %s as %s on queue %s.\n", info.Type, info.ID, info.Queue)
	return nil
}
