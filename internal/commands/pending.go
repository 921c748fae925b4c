package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	utils "github.com/SscSPs/lawfirm_ledger_app/internal/utils"
)

func newGenerateCommand(deps Deps) *cobra.Command {
	var async bool

	cmd := &cobra.Command{
		Use:   "generate <YYYY-MM>",
		Short: "Regenerate the month's pending payments from its consolidated statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(args)
			if err != nil {
				return err
			}
			if async {
				return enqueue(cmd, deps, func(q Queue) (*asynq.TaskInfo, error) {
					return q.EnqueuePendingGenerate(cmd.Context(), month)
				})
			}
			return withServices(cmd, deps, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				payments, err := svc.PendingPayments.Generate(ctx, int(month.Month), month.Year)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%d pending payments for %s\n", len(payments), month)
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, p := range payments {
					fmt.Fprintf(w, "%s\t%s\t%s\n", p.Type, p.Description, utils.FormatBRL(p.Amount))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&async, "async", false, "enqueue the regeneration for the worker instead of running it")

	return cmd
}
