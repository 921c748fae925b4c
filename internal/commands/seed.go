package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/seed"
)

func newSeedCommand(deps Deps) *cobra.Command {
	chartFile := deps.ChartFile
	bracketsFile := deps.TaxBracketsFile

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the chart of accounts and the tax bracket table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parse both files before touching storage.
			chart, err := seed.LoadChart(chartFile)
			if err != nil {
				return err
			}
			brackets, err := seed.LoadTaxBrackets(bracketsFile)
			if err != nil {
				return err
			}
			return withServices(cmd, deps, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				accounts, err := svc.Chart.SeedChart(ctx, chart)
				if err != nil {
					return fmt.Errorf("seeding chart of accounts: %w", err)
				}
				rows, err := svc.Chart.SeedTaxBrackets(ctx, brackets)
				if err != nil {
					return fmt.Errorf("seeding tax brackets: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d accounts and %d tax brackets.\n", accounts, rows)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&chartFile, "chart", chartFile, "chart of accounts YAML (embedded default when empty)")
	cmd.Flags().StringVar(&bracketsFile, "brackets", bracketsFile, "tax bracket YAML (embedded default when empty)")

	return cmd
}
