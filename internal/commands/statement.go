package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	utils "github.com/SscSPs/lawfirm_ledger_app/internal/utils"
)

func newConsolidateCommand(deps Deps) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "consolidate <YYYY-MM>",
		Short: "Compute the month, freeze its statement and book its closing postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(args)
			if err != nil {
				return err
			}
			return withServices(cmd, deps, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				stmt, err := svc.Statements.Consolidate(ctx, month, force)
				if err != nil {
					return err
				}
				printStatement(cmd.OutOrStdout(), stmt)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "recompute a month that is already consolidated")

	return cmd
}

func newDeconsolidateCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "deconsolidate <YYYY-MM>",
		Short: "Return a consolidated month to draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(args)
			if err != nil {
				return err
			}
			return withServices(cmd, deps, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				stmt, err := svc.Statements.Deconsolidate(ctx, month)
				if errors.Is(err, apperrors.ErrNotFound) {
					deps.Logger.Warn("Month was never consolidated", slog.String("month", month.String()))
					fmt.Fprintf(cmd.OutOrStdout(), "Warning: %s was never consolidated, nothing to do.\n", month)
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s returned to draft.\n", stmt.CompetencyMonth)
				return nil
			})
		},
	}
}

func newStatementCommand(deps Deps) *cobra.Command {
	var draft bool

	cmd := &cobra.Command{
		Use:   "statement <YYYY-MM>",
		Short: "Print the month's income statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(args)
			if err != nil {
				return err
			}
			return withServices(cmd, deps, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				var stmt *domain.MonthlyIncomeStatement
				if draft {
					stmt, err = svc.Statements.ComputeDraft(ctx, month)
				} else {
					stmt, err = svc.Statements.GetStatement(ctx, month)
				}
				if err != nil {
					return err
				}
				printStatement(cmd.OutOrStdout(), stmt)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&draft, "draft", false, "compute the figures without reading the stored statement")

	return cmd
}

// printStatement renders the DRE with pt-BR amounts.
func printStatement(out io.Writer, stmt *domain.MonthlyIncomeStatement) {
	status := "rascunho"
	if stmt.Consolidated {
		status = "consolidado"
	}
	fmt.Fprintf(out, "DRE %s (%s)\n", stmt.CompetencyMonth, status)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	lines := []struct {
		label string
		value string
	}{
		{"Receita bruta", utils.FormatBRL(stmt.GrossRevenue)},
		{"Receita 12 meses", utils.FormatBRL(stmt.TrailingRevenue)},
		{"Aliquota efetiva", utils.FormatPercent(stmt.EffectiveRate)},
		{"Simples Nacional", utils.FormatBRL(stmt.Tax)},
		{"Despesas gerais", utils.FormatBRL(stmt.GeneralExpenses)},
		{"Lucro bruto", utils.FormatBRL(stmt.GrossProfit)},
		{"Pro-labore", utils.FormatBRL(stmt.ProLabore)},
		{"INSS patronal", utils.FormatBRL(stmt.EmployerSS)},
		{"INSS retido", utils.FormatBRL(stmt.EmployeeSS)},
		{"Lucro liquido", utils.FormatBRL(stmt.NetProfit)},
		{"Reserva", utils.FormatBRL(stmt.Reserve)},
		{"A distribuir", utils.FormatBRL(stmt.DistributablePool)},
	}
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s\t\n", l.label, l.value)
	}
	for _, p := range stmt.PartnerDistribution {
		name := p.PartnerName
		if name == "" {
			name = p.PartnerID
		}
		fmt.Fprintf(w, "  %s\t%s\t\n", name, utils.FormatBRL(p.Amount))
	}
	_ = w.Flush()

	if !stmt.SolverConverged {
		fmt.Fprintf(out, "Atencao: pro-labore nao convergiu em %d iteracoes.\n", stmt.SolverIterations)
	}
}
