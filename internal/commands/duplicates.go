package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
)

func newDuplicatesCommand(deps Deps) *cobra.Command {
	var repair, async bool

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Report automatic postings that share a key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if async {
				return enqueue(cmd, deps, func(q Queue) (*asynq.TaskInfo, error) {
					return q.EnqueueLedgerIntegrity(cmd.Context(), repair)
				})
			}
			return withServices(cmd, deps, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				out := cmd.OutOrStdout()
				groups, err := svc.Ledger.FindDuplicates(ctx)
				if err != nil {
					return err
				}
				if len(groups) == 0 {
					fmt.Fprintln(out, "No duplicate automatic postings.")
					return nil
				}
				for _, g := range groups {
					fmt.Fprintf(out, "%s: %s\n", g.Key, strings.Join(g.PostingIDs, ", "))
				}
				if !repair {
					fmt.Fprintf(out, "%d duplicated keys. Run with --repair to keep the latest posting of each.\n", len(groups))
					return nil
				}
				removed, err := svc.Ledger.ResolveDuplicates(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d postings.\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "delete all but the most recently written posting of each key")
	cmd.Flags().BoolVar(&async, "async", false, "enqueue the scan for the worker instead of running it")

	return cmd
}
