package catalog

import (
	"strings"

	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/tierbill/tierbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Usage is a catalog-defined usage section of a plan phase: a named,
// recurring, tiered price schedule for one or more metered units. Catalog
// data is owned and versioned externally and read-only to this module.
type Usage struct {
	// Name identifies the usage section within its plan phase
	Name string `json:"name"`

	// PlanName and PhaseName locate the usage section in the catalog
	PlanName  string `json:"plan_name"`
	PhaseName string `json:"phase_name"`

	// BillingMode is how the usage is invoiced ex IN_ARREAR
	BillingMode types.BillingMode `json:"billing_mode"`

	// UsageKind is how the units are consumed ex CONSUMABLE
	UsageKind types.UsageKind `json:"usage_kind"`

	// BillingPeriod is the recurring period for the usage ex MONTHLY
	BillingPeriod types.BillingPeriod `json:"billing_period"`

	// Tiers in consumption order: usage fills the first tier's capacity
	// before spilling into the next
	Tiers []Tier `json:"tiers"`
}

// Tier is an ordered sequence of priced blocks
type Tier struct {
	Blocks []TieredBlock `json:"blocks"`
}

// TieredBlock prices one unit within a tier. Size is the quantity covered
// by one priced block, Max the number of blocks the tier holds for this
// unit. Capacity for the unit is Size × Max; a zero Max means the tier is
// unbounded (terminal tier).
type TieredBlock struct {
	Unit string `json:"unit"`

	Size decimal.Decimal `json:"size"`

	Max decimal.Decimal `json:"max"`

	// Prices maps a lowercase 3 digit ISO currency code to the price of
	// one block in that currency
	Prices map[string]decimal.Decimal `json:"prices"`
}

// PriceFor resolves the block price for the requested currency
func (b TieredBlock) PriceFor(currency string) (decimal.Decimal, error) {
	price, ok := b.Prices[strings.ToLower(currency)]
	if !ok {
		return decimal.Zero, ierr.NewError("no block price for currency").
			WithHintf("Block for unit %s has no price in %s", b.Unit, currency).
			WithReportableDetails(map[string]any{
				"unit":     b.Unit,
				"currency": currency,
			}).
			Mark(ierr.ErrNoPriceForCurrency)
	}
	return price, nil
}

// Capacity returns the quantity of the unit the block can absorb and
// whether that capacity is bounded. A zero or negative Max is unbounded.
func (b TieredBlock) Capacity() (decimal.Decimal, bool) {
	if b.Max.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	return b.Size.Mul(b.Max), true
}

// BlockForUnit finds the block pricing the given unit within the tier
func (t Tier) BlockForUnit(unit string) (TieredBlock, bool) {
	for _, block := range t.Blocks {
		if block.Unit == unit {
			return block, true
		}
	}
	return TieredBlock{}, false
}

// Units returns the distinct units priced by the usage's tiers in first
// appearance order
func (u *Usage) Units() []string {
	units := make([]string, 0, len(u.Tiers))
	for _, tier := range u.Tiers {
		for _, block := range tier.Blocks {
			units = append(units, block.Unit)
		}
	}
	return lo.Uniq(units)
}

func (u *Usage) Validate() error {
	if u.Name == "" {
		return ierr.NewError("usage name is required").
			WithHint("Usage name is required").
			Mark(ierr.ErrValidation)
	}
	if err := u.BillingMode.Validate(); err != nil {
		return err
	}
	if err := u.UsageKind.Validate(); err != nil {
		return err
	}
	if err := u.BillingPeriod.Validate(); err != nil {
		return err
	}
	if len(u.Tiers) == 0 {
		return ierr.NewError("usage has no tiers").
			WithHintf("Usage %s defines no tiers", u.Name).
			Mark(ierr.ErrValidation)
	}
	for _, tier := range u.Tiers {
		if err := tier.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (t Tier) Validate() error {
	if len(t.Blocks) == 0 {
		return ierr.NewError("tier has no blocks").
			WithHint("Each tier must define at least one block").
			Mark(ierr.ErrValidation)
	}
	for _, block := range t.Blocks {
		if err := block.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (b TieredBlock) Validate() error {
	if b.Unit == "" {
		return ierr.NewError("block unit is required").
			WithHint("Each block must name the unit it prices").
			Mark(ierr.ErrValidation)
	}
	if b.Size.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("block size must be positive").
			WithHintf("Block for unit %s has size %s", b.Unit, b.Size).
			Mark(ierr.ErrValidation)
	}
	if b.Max.LessThan(decimal.Zero) {
		return ierr.NewError("block max must not be negative").
			WithHintf("Block for unit %s has max %s", b.Unit, b.Max).
			Mark(ierr.ErrValidation)
	}
	if len(b.Prices) == 0 {
		return ierr.NewError("block has no prices").
			WithHintf("Block for unit %s prices no currency", b.Unit).
			Mark(ierr.ErrValidation)
	}
	for currency, price := range b.Prices {
		if price.LessThan(decimal.Zero) {
			return ierr.NewError("block price must not be negative").
				WithHintf("Block for unit %s has a negative %s price", b.Unit, currency).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
