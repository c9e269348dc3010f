package service

import (
	"context"
	"testing"

	"github.com/tierbill/tierbill/internal/domain/catalog"
	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/tierbill/tierbill/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPricingService(t *testing.T) PricingService {
	t.Helper()
	log, err := logger.NewLogger(nil)
	require.NoError(t, err)
	return NewPricingService(log)
}

func singleBlockTier(unit string, size, max int64, price decimal.Decimal) catalog.Tier {
	return catalog.Tier{
		Blocks: []catalog.TieredBlock{
			{
				Unit:   unit,
				Size:   decimal.NewFromInt(size),
				Max:    decimal.NewFromInt(max),
				Prices: map[string]decimal.Decimal{"usd": price},
			},
		},
	}
}

func TestCalculateToBeBilledAmount_TwoTiers(t *testing.T) {
	s := newTestPricingService(t)

	// tier1 holds 10 blocks of 100, tier2 100 blocks of 1000
	tiers := []catalog.Tier{
		singleBlockTier("unit", 100, 10, decimal.NewFromInt(1)),
		singleBlockTier("unit", 1000, 100, decimal.NewFromInt(1)),
	}

	// 5325 = 1000 (tier1 saturated, 10 blocks) + 4325 (tier2, 5 blocks)
	amount, err := s.CalculateToBeBilledAmount(context.Background(), decimal.NewFromInt(5325), "unit", "usd", tiers)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(15)), "got %s", amount)
}

func TestCalculateToBeBilledAmount_SingleTier(t *testing.T) {
	s := newTestPricingService(t)
	tiers := []catalog.Tier{singleBlockTier("unit", 100, 1000, decimal.NewFromInt(1))}

	tests := []struct {
		name     string
		quantity int64
		want     int64
	}{
		{name: "zero quantity bills nothing", quantity: 0, want: 0},
		{name: "partial block rounds up", quantity: 1, want: 1},
		{name: "exact block boundary", quantity: 100, want: 1},
		{name: "one past the boundary rounds up", quantity: 101, want: 2},
		{name: "many blocks", quantity: 401, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := s.CalculateToBeBilledAmount(context.Background(), decimal.NewFromInt(tt.quantity), "unit", "usd", tiers)
			require.NoError(t, err)
			assert.True(t, amount.Equal(decimal.NewFromInt(tt.want)), "got %s want %d", amount, tt.want)
		})
	}
}

func TestCalculateToBeBilledAmount_SaturatedTiersExact(t *testing.T) {
	s := newTestPricingService(t)

	// capacities 1000 and 5000, prices 2 and 3 per block
	tiers := []catalog.Tier{
		singleBlockTier("unit", 100, 10, decimal.NewFromInt(2)),
		singleBlockTier("unit", 500, 10, decimal.NewFromInt(3)),
	}

	// full saturation: 10×2 + 10×3 with no rounding remainder
	amount, err := s.CalculateToBeBilledAmount(context.Background(), decimal.NewFromInt(6000), "unit", "usd", tiers)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(50)), "got %s", amount)
}

func TestCalculateToBeBilledAmount_MonotonicInQuantity(t *testing.T) {
	s := newTestPricingService(t)
	tiers := []catalog.Tier{
		singleBlockTier("unit", 100, 10, decimal.NewFromInt(1)),
		singleBlockTier("unit", 1000, 100, decimal.NewFromInt(1)),
	}

	prev := decimal.Zero
	for quantity := int64(0); quantity <= 20000; quantity += 250 {
		amount, err := s.CalculateToBeBilledAmount(context.Background(), decimal.NewFromInt(quantity), "unit", "usd", tiers)
		require.NoError(t, err)
		assert.True(t, amount.GreaterThanOrEqual(prev), "amount decreased at quantity %d", quantity)
		prev = amount
	}
}

func TestCalculateToBeBilledAmount_UnboundedTerminalTier(t *testing.T) {
	s := newTestPricingService(t)

	// zero max means unbounded capacity
	tiers := []catalog.Tier{
		singleBlockTier("unit", 100, 10, decimal.NewFromInt(1)),
		singleBlockTier("unit", 1000, 0, decimal.NewFromInt(1)),
	}

	amount, err := s.CalculateToBeBilledAmount(context.Background(), decimal.NewFromInt(1000000), "unit", "usd", tiers)
	require.NoError(t, err)
	// 10 blocks in tier1, ceil(999000/1000)=999 blocks in tier2
	assert.True(t, amount.Equal(decimal.NewFromInt(1009)), "got %s", amount)
}

func TestCalculateToBeBilledAmount_OverflowBillsIntoLastTier(t *testing.T) {
	s := newTestPricingService(t)

	// both tiers bounded, quantity exceeds combined capacity
	tiers := []catalog.Tier{
		singleBlockTier("unit", 100, 10, decimal.NewFromInt(1)),
		singleBlockTier("unit", 1000, 2, decimal.NewFromInt(1)),
	}

	// capacity 1000 + 2000; remaining 500 spills back into the last tier
	amount, err := s.CalculateToBeBilledAmount(context.Background(), decimal.NewFromInt(3500), "unit", "usd", tiers)
	require.NoError(t, err)
	// 10 + 2 + ceil(500/1000)=1
	assert.True(t, amount.Equal(decimal.NewFromInt(13)), "got %s", amount)
}

func TestCalculateToBeBilledAmount_Errors(t *testing.T) {
	s := newTestPricingService(t)
	tiers := []catalog.Tier{singleBlockTier("unit", 100, 10, decimal.NewFromInt(1))}

	t.Run("negative quantity", func(t *testing.T) {
		_, err := s.CalculateToBeBilledAmount(context.Background(), decimal.NewFromInt(-1), "unit", "usd", tiers)
		require.Error(t, err)
		assert.True(t, ierr.IsInvalidQuantity(err))
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := s.CalculateToBeBilledAmount(context.Background(), decimal.NewFromInt(10), "bandwidth", "usd", tiers)
		require.Error(t, err)
		assert.True(t, ierr.IsNoBlockForUnit(err))
	})

	t.Run("missing currency", func(t *testing.T) {
		_, err := s.CalculateToBeBilledAmount(context.Background(), decimal.NewFromInt(10), "unit", "eur", tiers)
		require.Error(t, err)
		assert.True(t, ierr.IsNoPriceForCurrency(err))
	})

	t.Run("zero quantity skips unit lookup", func(t *testing.T) {
		amount, err := s.CalculateToBeBilledAmount(context.Background(), decimal.Zero, "bandwidth", "usd", tiers)
		require.NoError(t, err)
		assert.True(t, amount.IsZero())
	})
}

func TestCalculateToBeBilledAmount_DecimalBlockSize(t *testing.T) {
	s := newTestPricingService(t)

	tiers := []catalog.Tier{
		{
			Blocks: []catalog.TieredBlock{
				{
					Unit:   "gb",
					Size:   decimal.RequireFromString("0.5"),
					Max:    decimal.NewFromInt(100),
					Prices: map[string]decimal.Decimal{"usd": decimal.RequireFromString("0.25")},
				},
			},
		},
	}

	// 1.2 gb = ceil(1.2/0.5) = 3 blocks at 0.25
	amount, err := s.CalculateToBeBilledAmount(context.Background(), decimal.RequireFromString("1.2"), "gb", "usd", tiers)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("0.75")), "got %s", amount)
}
