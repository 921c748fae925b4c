package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
)

// PendingGenerateJob regenerates a month's pending payments.
type PendingGenerateJob struct {
	Pending portssvc.PendingPaymentGeneratorSvc
	Logger  *slog.Logger
}

// NewPendingGenerateJob constructs the job handler.
func NewPendingGenerateJob(pending portssvc.PendingPaymentGeneratorSvc, logger *slog.Logger) *PendingGenerateJob {
	return &PendingGenerateJob{Pending: pending, Logger: logger}
}

// Handle executes the regeneration. Bad payloads and validation failures are not retried.
func (j *PendingGenerateJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.Pending == nil {
		return errors.New("pending generate: dependencies not configured")
	}
	var payload PendingGeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	month, err := domain.ParseCompetencyMonth(payload.Month)
	if err != nil {
		j.log().Error("invalid month", slog.String("month", payload.Month), slog.Any("error", err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	payments, err := j.Pending.Generate(ctx, int(month.Month), month.Year)
	if err != nil {
		j.log().Error("generate pending payments", slog.String("month", month.String()), slog.Any("error", err))
		if permanent(err) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	j.log().Info("pending payments generated", slog.String("month", month.String()), slog.Int("count", len(payments)))
	return nil
}

func (j *PendingGenerateJob) log() *slog.Logger {
	if j != nil && j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskPendingGenerate))
	}
	return slog.Default().With(slog.String("job", TaskPendingGenerate))
}

// permanent reports failures a retry cannot fix without someone changing the data first.
func permanent(err error) bool {
	for _, target := range []error{
		apperrors.ErrValidation,
		apperrors.ErrNotFound,
		apperrors.ErrTaxCeilingExceeded,
		apperrors.ErrNoTaxBrackets,
		apperrors.ErrMissingChartAccount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
