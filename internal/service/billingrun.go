package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tierbill/tierbill/internal/cache"
	"github.com/tierbill/tierbill/internal/config"
	"github.com/tierbill/tierbill/internal/domain/billingevent"
	"github.com/tierbill/tierbill/internal/domain/catalog"
	"github.com/tierbill/tierbill/internal/domain/invoiceitem"
	"github.com/tierbill/tierbill/internal/domain/usage"
	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/tierbill/tierbill/internal/logger"
	"github.com/tierbill/tierbill/internal/types"
	"github.com/sourcegraph/conc/pool"
)

// ServiceParams holds the collaborators the billing run service composes
type ServiceParams struct {
	Logger          *logger.Logger
	Config          *config.Configuration
	CatalogRepo     catalog.Repository
	EventSource     billingevent.Source
	UsageRepo       usage.Repository
	InvoiceItemRepo invoiceitem.Repository
	Cache           cache.Cache
}

// BillingRunResult is the outcome of one billing run across subscriptions.
// RunNumber is the short human-readable handle operators grep logs with,
// RunID the unique identifier.
type BillingRunResult struct {
	RunID         string                  `json:"run_id"`
	RunNumber     string                  `json:"run_number"`
	TargetDate    time.Time               `json:"target_date"`
	Subscriptions []SubscriptionRunResult `json:"subscriptions"`
}

// SubscriptionRunResult is the per-subscription outcome: the emitted items
// or the error that failed the subscription. One subscription failing does
// not fail the run; within a subscription the item list is all-or-nothing.
type SubscriptionRunResult struct {
	SubscriptionID string                     `json:"subscription_id"`
	Items          []*invoiceitem.InvoiceItem `json:"items"`
	Error          string                     `json:"error,omitempty"`
}

// BillingRunService drives reconciliation across subscriptions. Runs for
// distinct subscriptions are independent and execute in parallel; runs for
// the same subscription are serialized with a per-subscription lock so two
// runs never reconcile against the same stale item snapshot.
type BillingRunService interface {
	ReconcileSubscription(ctx context.Context, subscriptionID string, targetDate time.Time) ([]*invoiceitem.InvoiceItem, error)
	Run(ctx context.Context, targetDate time.Time, subscriptionIDs []string) (*BillingRunResult, error)
}

type billingRunService struct {
	ServiceParams
	usageService   UsageService
	pricingService PricingService
	reconciler     ReconciliationService
	locks          keyedMutex
}

func NewBillingRunService(params ServiceParams) BillingRunService {
	usageService := NewUsageService(params.UsageRepo, params.Cache, params.Config, params.Logger)
	pricingService := NewPricingService(params.Logger)
	return &billingRunService{
		ServiceParams:  params,
		usageService:   usageService,
		pricingService: pricingService,
		reconciler:     NewReconciliationService(usageService, pricingService, params.Logger),
	}
}

// ReconcileSubscription reconciles every in-arrear consumable usage
// section of the subscription's current plan phase and persists the
// emitted items before returning them.
func (s *billingRunService) ReconcileSubscription(ctx context.Context, subscriptionID string, targetDate time.Time) ([]*invoiceitem.InvoiceItem, error) {
	unlock := s.locks.lock(subscriptionID)
	defer unlock()

	events, err := s.EventSource.GetBillingEvents(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ierr.NewError("no billing events for subscription").
			WithHintf("Subscription %s has no billing history to reconcile", subscriptionID).
			Mark(ierr.ErrInvalidBillingInterval)
	}

	latest := events[len(events)-1]
	closedInterval := latest.IsCancel()

	existingItems, err := s.InvoiceItemRepo.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	usages, err := s.CatalogRepo.ListUsages(ctx, latest.PlanName, latest.PhaseName, targetDate)
	if err != nil {
		return nil, err
	}

	invoiceID := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE)
	items := make([]*invoiceitem.InvoiceItem, 0)

	for _, usageDef := range usages {
		if usageDef.BillingMode != types.BILLING_MODE_IN_ARREAR || usageDef.UsageKind != types.USAGE_KIND_CONSUMABLE {
			s.Logger.WithContext(ctx).Debugf(
				"skipping usage %s: %s %s is not reconciled in arrear",
				usageDef.Name, usageDef.BillingMode, usageDef.UsageKind,
			)
			continue
		}

		missing, err := s.reconciler.ComputeMissingItems(ctx, ReconcileInput{
			Usage:          usageDef,
			Events:         events,
			TargetDate:     targetDate,
			ClosedInterval: closedInterval,
			InvoiceID:      invoiceID,
			ExistingItems:  existingItems,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, missing...)
	}

	if len(items) > 0 {
		if err := s.InvoiceItemRepo.CreateBulk(ctx, items); err != nil {
			return nil, err
		}
	}

	return items, nil
}

// Run reconciles the given subscriptions with bounded parallelism. A
// failed subscription is reported in its result and does not abort the
// others.
func (s *billingRunService) Run(ctx context.Context, targetDate time.Time, subscriptionIDs []string) (*BillingRunResult, error) {
	result := &BillingRunResult{
		RunID:      types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BILLING_RUN),
		RunNumber:  types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_BILLING_RUN),
		TargetDate: types.ToDate(targetDate),
	}

	maxConcurrency := 1
	if s.Config != nil && s.Config.Billing.MaxConcurrency > 0 {
		maxConcurrency = s.Config.Billing.MaxConcurrency
	}

	var mu sync.Mutex
	workers := pool.New().WithMaxGoroutines(maxConcurrency)

	for _, subscriptionID := range subscriptionIDs {
		subscriptionID := subscriptionID // per-iteration copy: go directive is 1.21, pre-loopvar semantics
		workers.Go(func() {
			items, err := s.ReconcileSubscription(ctx, subscriptionID, targetDate)

			subResult := SubscriptionRunResult{
				SubscriptionID: subscriptionID,
				Items:          items,
			}
			if err != nil {
				subResult.Error = err.Error()
				s.Logger.WithContext(ctx).Errorf("billing run failed for subscription %s: %v", subscriptionID, err)
			}

			mu.Lock()
			result.Subscriptions = append(result.Subscriptions, subResult)
			mu.Unlock()
		})
	}
	workers.Wait()

	sort.Slice(result.Subscriptions, func(i, j int) bool {
		return result.Subscriptions[i].SubscriptionID < result.Subscriptions[j].SubscriptionID
	})

	return result, nil
}

// keyedMutex serializes work per key
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
