package service

import (
	"context"

	"github.com/tierbill/tierbill/internal/domain/catalog"
	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/tierbill/tierbill/internal/logger"
	"github.com/shopspring/decimal"
)

// PricingService converts a metered quantity for one unit into a monetary
// amount using a tiered block schedule.
type PricingService interface {
	CalculateToBeBilledAmount(ctx context.Context, quantity decimal.Decimal, unit, currency string, tiers []catalog.Tier) (decimal.Decimal, error)
}

type pricingService struct {
	logger *logger.Logger
}

func NewPricingService(logger *logger.Logger) PricingService {
	return &pricingService{logger: logger}
}

// CalculateToBeBilledAmount walks the tiers strictly in order, filling each
// tier's capacity for the unit before spilling into the next. Partial
// blocks always round up to the next whole block; that ceiling is the only
// rounding performed, the monetary total is never rounded here.
//
// Quantity remaining after every tier is exhausted is billed into the last
// tier that prices the unit, i.e. the terminal tier is treated as
// unbounded for overflow.
func (s *pricingService) CalculateToBeBilledAmount(ctx context.Context, quantity decimal.Decimal, unit, currency string, tiers []catalog.Tier) (decimal.Decimal, error) {
	if quantity.IsNegative() {
		return decimal.Zero, ierr.NewError("negative usage quantity").
			WithHintf("Usage quantity for unit %s is negative: %s", unit, quantity).
			WithReportableDetails(map[string]any{
				"unit":     unit,
				"quantity": quantity,
			}).
			Mark(ierr.ErrInvalidQuantity)
	}

	amount := decimal.Zero
	if quantity.IsZero() {
		return amount, nil
	}

	remaining := quantity
	var lastBlock *catalog.TieredBlock
	var lastPrice decimal.Decimal

	for _, tier := range tiers {
		block, ok := tier.BlockForUnit(unit)
		if !ok {
			continue
		}

		price, err := block.PriceFor(currency)
		if err != nil {
			return decimal.Zero, err
		}

		allocated := remaining
		if capacity, bounded := block.Capacity(); bounded && remaining.GreaterThan(capacity) {
			allocated = capacity
		}

		blocksUsed := allocated.Div(block.Size).Ceil()
		amount = amount.Add(blocksUsed.Mul(price))
		remaining = remaining.Sub(allocated)

		lastBlock = &block
		lastPrice = price

		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
	}

	if remaining.GreaterThan(decimal.Zero) {
		if lastBlock == nil {
			return decimal.Zero, ierr.NewError("no tiered block prices the unit").
				WithHintf("No tier defines a block for unit %s", unit).
				WithReportableDetails(map[string]any{
					"unit": unit,
				}).
				Mark(ierr.ErrNoBlockForUnit)
		}

		s.logger.WithContext(ctx).Debugf(
			"quantity %s overflows all tiers for unit %s, billing remainder %s into the terminal tier",
			quantity.String(), unit, remaining.String(),
		)
		blocksUsed := remaining.Div(lastBlock.Size).Ceil()
		amount = amount.Add(blocksUsed.Mul(lastPrice))
	}

	return amount, nil
}
