package invoiceitem

import (
	"time"

	"github.com/tierbill/tierbill/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceItem is one line of an invoice. ItemType is the discriminant of
// the variant: usage items carry a usage name and an exact [StartDate,
// EndDate) range, fixed items carry only the charge date in StartDate.
// Items are immutable once created; reconciliation reads existing items
// and mints new ones, it never mutates or deletes.
type InvoiceItem struct {
	ID        string                `json:"id"`
	InvoiceID string                `json:"invoice_id"`
	ItemType  types.InvoiceItemType `json:"item_type"`

	AccountID      string `json:"account_id"`
	BundleID       string `json:"bundle_id"`
	SubscriptionID string `json:"subscription_id"`
	PlanName       string `json:"plan_name"`
	PhaseName      string `json:"phase_name"`

	// UsageName is set on usage items only
	UsageName string `json:"usage_name,omitempty"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date,omitempty"`

	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewUsageItem mints a usage invoice item for an exact sub-period
func NewUsageItem(invoiceID, accountID, bundleID, subscriptionID, planName, phaseName, usageName string, startDate, endDate time.Time, amount decimal.Decimal, currency string) *InvoiceItem {
	return &InvoiceItem{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ITEM),
		InvoiceID:      invoiceID,
		ItemType:       types.INVOICE_ITEM_TYPE_USAGE,
		AccountID:      accountID,
		BundleID:       bundleID,
		SubscriptionID: subscriptionID,
		PlanName:       planName,
		PhaseName:      phaseName,
		UsageName:      usageName,
		StartDate:      startDate,
		EndDate:        endDate,
		Amount:         amount,
		Currency:       currency,
	}
}

// NewFixedItem mints a fixed price invoice item charged on a single date
func NewFixedItem(invoiceID, accountID, bundleID, subscriptionID, planName, phaseName string, date time.Time, amount decimal.Decimal, currency string) *InvoiceItem {
	return &InvoiceItem{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ITEM),
		InvoiceID:      invoiceID,
		ItemType:       types.INVOICE_ITEM_TYPE_FIXED,
		AccountID:      accountID,
		BundleID:       bundleID,
		SubscriptionID: subscriptionID,
		PlanName:       planName,
		PhaseName:      phaseName,
		StartDate:      date,
		Amount:         amount,
		Currency:       currency,
	}
}

// IsUsage reports whether the item is the usage variant
func (i *InvoiceItem) IsUsage() bool {
	return i.ItemType == types.INVOICE_ITEM_TYPE_USAGE
}

// AmountBilledForPeriod sums the amounts of the usage items that bill the
// given usage name for exactly [start, end). Items with any other range,
// even overlapping ones, are excluded: billing is per exact sub-period,
// not prorated overlap matching. Returns zero when nothing matches.
func AmountBilledForPeriod(items []*InvoiceItem, usageName string, start, end time.Time) decimal.Decimal {
	billed := decimal.Zero
	for _, item := range items {
		if !item.IsUsage() {
			continue
		}
		if item.UsageName != usageName {
			continue
		}
		if !item.StartDate.Equal(start) || !item.EndDate.Equal(end) {
			continue
		}
		billed = billed.Add(item.Amount)
	}
	return billed
}
