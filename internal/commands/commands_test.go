package commands_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/commands"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/migrations"
	"github.com/SscSPs/lawfirm_ledger_app/internal/repositories/memory"
)

type fakeQueue struct {
	months  []domain.CompetencyMonth
	repairs []bool
}

func (q *fakeQueue) EnqueuePendingGenerate(_ context.Context, month domain.CompetencyMonth) (*asynq.TaskInfo, error) {
	q.months = append(q.months, month)
	return &asynq.TaskInfo{ID: "task-1", Type: "pending:generate", Queue: "default"}, nil
}

func (q *fakeQueue) EnqueueLedgerIntegrity(_ context.Context, repair bool) (*asynq.TaskInfo, error) {
	q.repairs = append(q.repairs, repair)
	return &asynq.TaskInfo{ID: "task-2", Type: "ledger:integrity", Queue: "default"}, nil
}

type harness struct {
	store      *memory.Store
	queue      *fakeQueue
	migrations []migrations.Direction
	deps       commands.Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{store: memory.New(), queue: &fakeQueue{}}
	container := services.NewServiceContainer(domain.DefaultAccountingSettings(),
		&portsrepo.RepositoryProvider{TxManager: h.store}, nil, nil)

	h.deps = commands.Deps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Services: func(context.Context) (*portssvc.ServiceContainer, func(), error) {
			return container, func() {}, nil
		},
		Migrate: func(_ context.Context, dir migrations.Direction) error {
			h.migrations = append(h.migrations, dir)
			return nil
		},
		Queue: func() (commands.Queue, func(), error) {
			return h.queue, nil, nil
		},
	}

	h.store.SeedPartners(
		domain.Partner{ID: "partner-ana", Name: "Ana Souza", RolesText: "Sócia administradora"},
		domain.Partner{ID: "partner-bruno", Name: "Bruno Lima", RolesText: "Sócio"},
	)
	h.store.SeedRevenue(domain.RevenueEntry{
		ID:     "rev-2024-03",
		Date:   time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		Amount: decimal.RequireFromString("10000.00"),
		Shares: []domain.PartnerShare{
			{PartnerID: "partner-ana", Percent: decimal.NewFromInt(80)},
			{PartnerID: "partner-bruno", Percent: decimal.NewFromInt(20)},
		},
	})
	return h
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCommand(h.deps)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeed(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded")

	// Seeding twice keeps the same rows.
	again, err := h.run(t, "seed")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSeed_MissingFile(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "seed", "--chart", "does-not-exist.yaml")
	assert.Error(t, err)
}

func TestConsolidateAndStatement(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "seed")
	require.NoError(t, err)

	_, err = h.run(t, "statement", "2024-03")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	out, err := h.run(t, "statement", "2024-03", "--draft")
	require.NoError(t, err)
	assert.Contains(t, out, "DRE 2024-03 (rascunho)")

	out, err = h.run(t, "consolidate", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "DRE 2024-03 (consolidado)")
	assert.Contains(t, out, "R$ 10.000,00")
	assert.Contains(t, out, "Bruno Lima")

	out, err = h.run(t, "statement", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "consolidado")

	out, err = h.run(t, "generate", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "pending payments for 2024-03")
	assert.Contains(t, out, string(domain.PaymentTax))

	out, err = h.run(t, "deconsolidate", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03 returned to draft.")
}

func TestConsolidate_WithoutChartFails(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "consolidate", "2024-03")
	assert.Error(t, err)
}

func TestDeconsolidate_NeverConsolidatedOnlyWarns(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "deconsolidate", "2024-05")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning: 2024-05 was never consolidated")
}

func TestInvalidMonthArgument(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{
		{"consolidate", "2024-13"},
		{"statement", "march"},
		{"generate"},
	} {
		_, err := h.run(t, args...)
		assert.Error(t, err, args)
	}
}

func TestDuplicates(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "seed")
	require.NoError(t, err)

	out, err := h.run(t, "duplicates")
	require.NoError(t, err)
	assert.Contains(t, out, "No duplicate automatic postings.")

	month := domain.CompetencyMonth{Year: 2024, Month: time.March}
	for i, id := range []string{"dup-old", "dup-new"} {
		h.store.SeedPosting(domain.LedgerPosting{
			ID:              id,
			Date:            time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
			DebitAccount:    domain.CodeCash,
			CreditAccount:   domain.CodeFeeRevenue,
			Amount:          decimal.RequireFromString("10.00"),
			Automatic:       true,
			EntryType:       domain.EntryRevenue,
			CompetencyMonth: &month,
			AuditFields:     domain.AuditFields{LastUpdatedAt: time.Date(2024, time.April, i+1, 0, 0, 0, 0, time.UTC)},
		})
	}

	out, err = h.run(t, "duplicates")
	require.NoError(t, err)
	assert.Contains(t, out, "dup-new, dup-old")
	assert.Contains(t, out, "--repair")

	out, err = h.run(t, "duplicates", "--repair")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 postings.")
}

func TestMigrate(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "migrate", "down")
	require.NoError(t, err)
	_, err = h.run(t, "migrate", "sideways")
	assert.Error(t, err)

	assert.Equal(t, []migrations.Direction{migrations.Down}, h.migrations)
}

func TestAsyncEnqueue(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "generate", "2024-03", "--async")
	require.NoError(t, err)
	assert.Contains(t, out, "Enqueued pending:generate as task-1")

	_, err = h.run(t, "duplicates", "--async", "--repair")
	require.NoError(t, err)

	assert.Equal(t, []domain.CompetencyMonth{{Year: 2024, Month: time.March}}, h.queue.months)
	assert.Equal(t, []bool{true}, h.queue.repairs)

	h.deps.Queue = nil
	_, err = h.run(t, "generate", "2024-03", "--async")
	assert.ErrorContains(t, err, "REDIS_ADDR")
}
