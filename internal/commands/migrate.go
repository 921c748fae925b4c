package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/migrations"
)

func newMigrateCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(migrations.Up), string(migrations.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := migrations.ParseDirection(args[0])
			if err != nil {
				return err
			}
			if deps.Migrate == nil {
				return fmt.Errorf("migrations are not configured")
			}
			if err := deps.Migrate(cmd.Context(), dir); err != nil {
				return fmt.Errorf("migrate %s: %w", dir, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrations %s applied.\n", dir)
			return nil
		},
	}
}
