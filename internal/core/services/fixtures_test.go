package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/observability"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/seed"
	"github.com/SscSPs/lawfirm_ledger_app/internal/repositories/memory"
)

const (
	anaID   = "partner-ana"
	brunoID = "partner-bruno"
)

var march2024 = domain.CompetencyMonth{Year: 2024, Month: time.March}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// engineSuite runs the services against a seeded in-memory store.
// March 2024 has 10,000.00 of fees split 80/20 between the administrator (Ana) and Bruno,
// and the trailing year holds 100,000.00, so the month lands in the first tax bracket.
type engineSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	metrics   *observability.Metrics
	container *portssvc.ServiceContainer
}

func (s *engineSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.metrics = observability.NewMetrics()
	s.container = services.NewServiceContainer(
		domain.DefaultAccountingSettings(),
		&portsrepo.RepositoryProvider{TxManager: s.store},
		nil,
		s.metrics,
	)

	chart, err := seed.DefaultChart()
	s.Require().NoError(err)
	_, err = s.container.Chart.SeedChart(s.ctx, chart)
	s.Require().NoError(err)

	brackets, err := seed.DefaultTaxBrackets()
	s.Require().NoError(err)
	_, err = s.container.Chart.SeedTaxBrackets(s.ctx, brackets)
	s.Require().NoError(err)

	s.store.SeedPartners(
		domain.Partner{ID: anaID, Name: "Ana Souza", RolesText: "Sócia administradora"},
		domain.Partner{ID: brunoID, Name: "Bruno Lima", RolesText: "Sócio"},
	)
	s.store.SeedRevenue(
		domain.RevenueEntry{
			ID:     "rev-2023-06",
			Date:   day(2023, time.June, 15),
			Amount: dec("100000.00"),
			Shares: []domain.PartnerShare{{PartnerID: brunoID, Percent: dec("100")}},
		},
		domain.RevenueEntry{
			ID:     "rev-2024-03",
			Date:   day(2024, time.March, 10),
			Amount: dec("10000.00"),
			Shares: []domain.PartnerShare{
				{PartnerID: anaID, Percent: dec("80")},
				{PartnerID: brunoID, Percent: dec("20")},
			},
		},
	)
}

// monthPostings returns the postings of a competency month keyed by their automatic key.
func (s *engineSuite) monthPostings(month domain.CompetencyMonth) map[domain.PostingKey]domain.LedgerPosting {
	postings, _, err := s.container.Ledger.ListPostings(s.ctx, domain.PostingFilter{Month: &month, Limit: 500})
	s.Require().NoError(err)
	out := make(map[domain.PostingKey]domain.LedgerPosting, len(postings))
	for _, p := range postings {
		key, ok := p.Key()
		s.Require().True(ok)
		out[key] = p
	}
	return out
}

func key(month domain.CompetencyMonth, entryType domain.EntryType, debit, credit string) domain.PostingKey {
	return domain.PostingKey{Month: month, EntryType: entryType, DebitAccount: debit, CreditAccount: credit}
}
