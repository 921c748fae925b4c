package services

import (
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/observability"
)

// NewServiceContainer creates a new service container with all services initialized.
// cache and metrics may be nil.
func NewServiceContainer(settings domain.AccountingSettings, repos *portsrepo.RepositoryProvider, cache portsrepo.StatementCache, metrics *observability.Metrics) *portssvc.ServiceContainer {
	ledger := NewLedgerService(repos.TxManager)

	statementOpts := []IncomeStatementServiceOption{WithStatementMetrics(metrics)}
	if cache != nil {
		statementOpts = append(statementOpts, WithStatementCache(cache))
	}
	statements := NewIncomeStatementService(repos.TxManager, ledger, settings, statementOpts...)

	return &portssvc.ServiceContainer{
		Chart:           NewChartService(repos.TxManager),
		Ledger:          ledger,
		Statements:      statements,
		PendingPayments: NewPendingPaymentService(repos.TxManager, statements, WithPendingPaymentMetrics(metrics)),
		Reporting:       NewReportingService(repos.TxManager, statements),
	}
}
