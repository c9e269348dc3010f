package service

import (
	"testing"
	"time"

	"github.com/tierbill/tierbill/internal/cache"
	"github.com/tierbill/tierbill/internal/domain/billingevent"
	"github.com/tierbill/tierbill/internal/domain/catalog"
	"github.com/tierbill/tierbill/internal/domain/usage"
	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/tierbill/tierbill/internal/testutil"
	"github.com/tierbill/tierbill/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BillingRunServiceSuite struct {
	testutil.BaseServiceTestSuite
	runner BillingRunService
}

func TestBillingRunService(t *testing.T) {
	suite.Run(t, new(BillingRunServiceSuite))
}

func (s *BillingRunServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.runner = NewBillingRunService(ServiceParams{
		Logger:          s.GetLogger(),
		Config:          s.GetConfig(),
		CatalogRepo:     stores.CatalogRepo,
		EventSource:     stores.EventSource,
		UsageRepo:       stores.UsageRepo,
		InvoiceItemRepo: stores.InvoiceItemRepo,
		Cache:           cache.NewInMemoryCache(),
	})
}

func (s *BillingRunServiceSuite) addCatalogUsage(def *catalog.Usage) {
	store := s.GetStores().CatalogRepo.(*testutil.InMemoryCatalogStore)
	s.NoError(store.AddUsage(s.GetContext(), def))
}

func (s *BillingRunServiceSuite) addEvent(subscriptionID string, effective time.Time, bcd int, transition types.SubscriptionTransitionType) {
	store := s.GetStores().EventSource.(*testutil.InMemoryBillingEventStore)
	s.NoError(store.AddEvent(s.GetContext(), &billingevent.BillingEvent{
		TransitionType: transition,
		EffectiveDate:  effective,
		BillCycleDay:   bcd,
		Currency:       "usd",
		AccountID:      "acct_01",
		BundleID:       "bndl_01",
		SubscriptionID: subscriptionID,
		PlanName:       "plan-gold",
		PhaseName:      "evergreen",
	}))
}

func (s *BillingRunServiceSuite) addUsage(subscriptionID, unit string, start, end time.Time, quantity int64) {
	store := s.GetStores().UsageRepo.(*testutil.InMemoryRolledUpUsageStore)
	s.NoError(store.AddUsage(s.GetContext(), &usage.RolledUpUsage{
		SubscriptionID: subscriptionID,
		Unit:           unit,
		StartDate:      start,
		EndDate:        end,
		Quantity:       decimal.NewFromInt(quantity),
	}))
}

func (s *BillingRunServiceSuite) consumableUsage() *catalog.Usage {
	return &catalog.Usage{
		Name:          "data-transfer",
		PlanName:      "plan-gold",
		PhaseName:     "evergreen",
		BillingMode:   types.BILLING_MODE_IN_ARREAR,
		UsageKind:     types.USAGE_KIND_CONSUMABLE,
		BillingPeriod: types.BILLING_PERIOD_MONTHLY,
		Tiers: []catalog.Tier{
			singleBlockTier("unit", 100, 10, decimal.NewFromInt(1)),
			singleBlockTier("unit", 1000, 100, decimal.NewFromInt(1)),
		},
	}
}

func (s *BillingRunServiceSuite) TestReconcileSubscription() {
	s.addCatalogUsage(s.consumableUsage())
	s.addEvent("subs_01", date(2014, time.March, 20), 15, types.TRANSITION_TYPE_CREATE)
	s.addEvent("subs_01", date(2014, time.May, 15), 15, types.TRANSITION_TYPE_CANCEL)
	s.addUsage("subs_01", "unit", date(2014, time.March, 20), date(2014, time.April, 15), 401)
	s.addUsage("subs_01", "unit", date(2014, time.April, 15), date(2014, time.May, 15), 199)

	items, err := s.runner.ReconcileSubscription(s.GetContext(), "subs_01", date(2014, time.June, 1))
	s.NoError(err)
	s.Len(items, 2)
	s.True(items[0].Amount.Equal(decimal.NewFromInt(5)), "got %s", items[0].Amount)
	s.True(items[1].Amount.Equal(decimal.NewFromInt(2)), "got %s", items[1].Amount)

	// items were persisted
	persisted, err := s.GetStores().InvoiceItemRepo.ListBySubscription(s.GetContext(), "subs_01")
	s.NoError(err)
	s.Len(persisted, 2)

	// the persisted items make a repeat run a no-op
	again, err := s.runner.ReconcileSubscription(s.GetContext(), "subs_01", date(2014, time.June, 1))
	s.NoError(err)
	s.Empty(again)

	persisted, err = s.GetStores().InvoiceItemRepo.ListBySubscription(s.GetContext(), "subs_01")
	s.NoError(err)
	s.Len(persisted, 2)
}

func (s *BillingRunServiceSuite) TestReconcileSubscriptionNoEvents() {
	_, err := s.runner.ReconcileSubscription(s.GetContext(), "subs_ghost", date(2014, time.June, 1))
	s.Error(err)
	s.True(ierr.IsInvalidBillingInterval(err))
}

func (s *BillingRunServiceSuite) TestReconcileSubscriptionSkipsNonReconcilable() {
	inAdvance := s.consumableUsage()
	inAdvance.Name = "seats"
	inAdvance.BillingMode = types.BILLING_MODE_IN_ADVANCE
	s.addCatalogUsage(inAdvance)

	capacity := s.consumableUsage()
	capacity.Name = "throughput"
	capacity.UsageKind = types.USAGE_KIND_CAPACITY
	s.addCatalogUsage(capacity)

	s.addEvent("subs_01", date(2014, time.March, 20), 15, types.TRANSITION_TYPE_CREATE)
	s.addEvent("subs_01", date(2014, time.May, 15), 15, types.TRANSITION_TYPE_CANCEL)
	s.addUsage("subs_01", "unit", date(2014, time.March, 20), date(2014, time.April, 15), 401)

	items, err := s.runner.ReconcileSubscription(s.GetContext(), "subs_01", date(2014, time.June, 1))
	s.NoError(err)
	s.Empty(items)
}

func (s *BillingRunServiceSuite) TestRun() {
	s.addCatalogUsage(s.consumableUsage())

	// subs_01 and subs_02 have real usage, subs_03 has no billing history
	for _, subscriptionID := range []string{"subs_01", "subs_02"} {
		s.addEvent(subscriptionID, date(2014, time.March, 20), 15, types.TRANSITION_TYPE_CREATE)
		s.addEvent(subscriptionID, date(2014, time.May, 15), 15, types.TRANSITION_TYPE_CANCEL)
		s.addUsage(subscriptionID, "unit", date(2014, time.March, 20), date(2014, time.April, 15), 401)
	}

	result, err := s.runner.Run(s.GetContext(), date(2014, time.June, 1), []string{"subs_03", "subs_02", "subs_01"})
	s.NoError(err)
	s.Contains(result.RunID, "run_")
	s.Contains(result.RunNumber, "RUN-")
	s.True(result.TargetDate.Equal(date(2014, time.June, 1)))
	s.Len(result.Subscriptions, 3)

	// results come back ordered by subscription regardless of input order
	s.Equal("subs_01", result.Subscriptions[0].SubscriptionID)
	s.Equal("subs_02", result.Subscriptions[1].SubscriptionID)
	s.Equal("subs_03", result.Subscriptions[2].SubscriptionID)

	for _, subResult := range result.Subscriptions[:2] {
		s.Empty(subResult.Error)
		s.Len(subResult.Items, 1)
		s.True(subResult.Items[0].Amount.Equal(decimal.NewFromInt(5)))
	}

	// the empty subscription fails its own result without failing the run
	s.NotEmpty(result.Subscriptions[2].Error)
	s.Empty(result.Subscriptions[2].Items)
}

func (s *BillingRunServiceSuite) TestRunWithParallelism() {
	cfg := s.GetConfig()
	cfg.Billing.MaxConcurrency = 4
	defer func() { cfg.Billing.MaxConcurrency = 1 }()

	s.addCatalogUsage(s.consumableUsage())

	subscriptionIDs := make([]string, 0, 8)
	for _, subscriptionID := range []string{"subs_a", "subs_b", "subs_c", "subs_d", "subs_e", "subs_f", "subs_g", "subs_h"} {
		subscriptionIDs = append(subscriptionIDs, subscriptionID)
		s.addEvent(subscriptionID, date(2014, time.March, 20), 15, types.TRANSITION_TYPE_CREATE)
		s.addEvent(subscriptionID, date(2014, time.May, 15), 15, types.TRANSITION_TYPE_CANCEL)
		s.addUsage(subscriptionID, "unit", date(2014, time.March, 20), date(2014, time.April, 15), 150)
	}

	result, err := s.runner.Run(s.GetContext(), date(2014, time.June, 1), subscriptionIDs)
	s.NoError(err)
	s.Len(result.Subscriptions, 8)

	for _, subResult := range result.Subscriptions {
		s.Empty(subResult.Error)
		s.Len(subResult.Items, 1)
		s.True(subResult.Items[0].Amount.Equal(decimal.NewFromInt(2)), "got %s", subResult.Items[0].Amount)
	}
}
