package service

import (
	"context"
	"time"

	"github.com/tierbill/tierbill/internal/domain/billingevent"
	"github.com/tierbill/tierbill/internal/domain/catalog"
	"github.com/tierbill/tierbill/internal/domain/invoiceitem"
	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/tierbill/tierbill/internal/logger"
	"github.com/tierbill/tierbill/internal/types"
	"github.com/shopspring/decimal"
)

// ReconcileInput is the immutable snapshot one reconciliation runs over:
// the catalog usage definition, the ordered billing events bounding the
// interval, and the existing invoice items for the subscription's usage
// line. Concurrent runs for the same subscription must be serialized by
// the caller; two runs over the same stale snapshot would both compute a
// positive delta and double-emit.
type ReconcileInput struct {
	Usage          *catalog.Usage
	Events         []*billingevent.BillingEvent
	TargetDate     time.Time
	ClosedInterval bool
	InvoiceID      string
	ExistingItems  []*invoiceitem.InvoiceItem
}

// ReconciliationService computes the invoice items needed to cover usage
// that should have been billed but was not.
type ReconciliationService interface {
	ComputeMissingItems(ctx context.Context, input ReconcileInput) ([]*invoiceitem.InvoiceItem, error)
}

type reconciliationService struct {
	usageService   UsageService
	pricingService PricingService
	logger         *logger.Logger
}

func NewReconciliationService(usageService UsageService, pricingService PricingService, logger *logger.Logger) ReconciliationService {
	return &reconciliationService{
		usageService:   usageService,
		pricingService: pricingService,
		logger:         logger,
	}
}

// ComputeMissingItems reconciles, per sub-period, the amount the rolled-up
// usage prices out to against the amount already invoiced for exactly that
// sub-period, and emits one usage item per sub-period carrying the
// positive difference. Amounts for a usage definition pricing several
// units are summed into that single item.
//
// A sub-period already billed at or above its computed amount emits
// nothing: over-billing is tolerated silently at this layer, it is not
// corrected downward with a credit.
//
// The run is all-or-nothing: the first error aborts it rather than
// returning a partial item list. Re-invoking with the same snapshot yields
// the same items; persisting them before the next run makes billing
// at-most-once.
func (s *reconciliationService) ComputeMissingItems(ctx context.Context, input ReconcileInput) ([]*invoiceitem.InvoiceItem, error) {
	usageDef := input.Usage
	if usageDef == nil {
		return nil, ierr.NewError("no usage definition").
			WithHint("Reconciliation requires a catalog usage definition").
			Mark(ierr.ErrValidation)
	}
	if err := usageDef.Validate(); err != nil {
		return nil, err
	}
	if usageDef.BillingMode != types.BILLING_MODE_IN_ARREAR {
		return nil, ierr.NewError("unsupported billing mode").
			WithHintf("Usage %s bills %s, only %s is reconciled here", usageDef.Name, usageDef.BillingMode, types.BILLING_MODE_IN_ARREAR).
			Mark(ierr.ErrInvalidOperation)
	}
	if usageDef.UsageKind != types.USAGE_KIND_CONSUMABLE {
		return nil, ierr.NewError("unsupported usage kind").
			WithHintf("Usage %s is %s, only %s is reconciled here", usageDef.Name, usageDef.UsageKind, types.USAGE_KIND_CONSUMABLE).
			Mark(ierr.ErrInvalidOperation)
	}

	periods, err := BuildBillingIntervals(input.Events, input.TargetDate, input.ClosedInterval)
	if err != nil {
		return nil, err
	}

	units := usageDef.Units()
	items := make([]*invoiceitem.InvoiceItem, 0, len(periods))

	for _, period := range periods {
		event := period.Event
		currency := event.Currency

		toBeBilled := decimal.Zero
		for _, unit := range units {
			quantity, err := s.usageService.GetQuantityForPeriod(ctx, event.SubscriptionID, unit, period.StartDate, period.EndDate)
			if err != nil {
				return nil, err
			}

			unitAmount, err := s.pricingService.CalculateToBeBilledAmount(ctx, quantity, unit, currency, usageDef.Tiers)
			if err != nil {
				return nil, err
			}
			toBeBilled = toBeBilled.Add(unitAmount)
		}

		alreadyBilled := invoiceitem.AmountBilledForPeriod(input.ExistingItems, usageDef.Name, period.StartDate, period.EndDate)

		// The delta is rounded to the currency's precision before the
		// positivity check. A sub-cent residue must not emit a zero-amount
		// item: such an item never raises the billed total, so every later
		// run would emit it again.
		delta := toBeBilled.Sub(alreadyBilled).Round(types.GetCurrencyPrecision(currency))
		s.logger.WithContext(ctx).Debugf(
			"sub-period [%s, %s) usage %s: to be billed %s, already billed %s, delta %s",
			period.StartDate.Format(time.DateOnly), period.EndDate.Format(time.DateOnly),
			usageDef.Name, toBeBilled.String(), alreadyBilled.String(), delta.String(),
		)

		if delta.LessThanOrEqual(decimal.Zero) {
			continue
		}

		items = append(items, invoiceitem.NewUsageItem(
			input.InvoiceID,
			event.AccountID,
			event.BundleID,
			event.SubscriptionID,
			event.PlanName,
			event.PhaseName,
			usageDef.Name,
			period.StartDate,
			period.EndDate,
			delta,
			currency,
		))
	}

	return items, nil
}
