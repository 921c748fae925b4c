// Package jobs runs the ledger's background work on asynq.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity scans for duplicate automatic postings and optionally repairs them.
	TaskLedgerIntegrity = "ledger:integrity"
	// TaskPendingGenerate regenerates the pending payments of a month.
	TaskPendingGenerate = "pending:generate"
)

// LedgerIntegrityPayload configures the integrity scan.
type LedgerIntegrityPayload struct {
	Repair bool `json:"repair"`
}

// PendingGeneratePayload names the competency month to regenerate.
type PendingGeneratePayload struct {
	Month string `json:"month"`
}

// NewLedgerIntegrityTask creates an Asynq task for the duplicate scan.
func NewLedgerIntegrityTask(repair bool) (*asynq.Task, error) {
	body, err := json.Marshal(LedgerIntegrityPayload{Repair: repair})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, body, asynq.Queue(QueueDefault)), nil
}

// NewPendingGenerateTask creates an Asynq task regenerating the obligations of month.
func NewPendingGenerateTask(month domain.CompetencyMonth) (*asynq.Task, error) {
	if month.IsZero() {
		return nil, fmt.Errorf("pending generate: month is required")
	}
	body, err := json.Marshal(PendingGeneratePayload{Month: month.String()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPendingGenerate, body, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}
