package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/observability"
)

// LedgerIntegrityJob reports duplicate automatic postings and repairs them on request.
type LedgerIntegrityJob struct {
	Ledger  portssvc.LedgerIntegritySvc
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewLedgerIntegrityJob constructs the job handler.
func NewLedgerIntegrityJob(ledger portssvc.LedgerIntegritySvc, logger *slog.Logger, metrics *observability.Metrics) *LedgerIntegrityJob {
	return &LedgerIntegrityJob{Ledger: ledger, Logger: logger, Metrics: metrics}
}

// Handle executes the integrity scan.
func (j *LedgerIntegrityJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.Ledger == nil {
		return errors.New("ledger integrity: dependencies not configured")
	}
	var payload LedgerIntegrityPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	groups, err := j.Ledger.FindDuplicates(ctx)
	if err != nil {
		j.log().Error("find duplicates", slog.Any("error", err))
		return err
	}
	j.Metrics.DuplicateGroups(len(groups))
	if len(groups) == 0 {
		j.log().Info("ledger is consistent")
		return nil
	}
	if !payload.Repair {
		j.log().Warn("duplicate automatic postings found", slog.Int("groups", len(groups)), slog.Any("keys", groupKeys(groups)))
		return nil
	}

	removed, err := j.Ledger.ResolveDuplicates(ctx)
	if err != nil {
		j.log().Error("resolve duplicates", slog.Any("error", err))
		return err
	}
	j.Metrics.DuplicateGroups(0)
	j.log().Info("duplicate automatic postings removed", slog.Int("groups", len(groups)), slog.Int("removed", removed))
	return nil
}

func groupKeys(groups []domain.DuplicateGroup) []string {
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key.String()
	}
	return keys
}

func (j *LedgerIntegrityJob) log() *slog.Logger {
	if j != nil && j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLedgerIntegrity))
	}
	return slog.Default().With(slog.String("job", TaskLedgerIntegrity))
}
