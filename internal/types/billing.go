package types

import (
	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/samber/lo"
)

// BillingMode determines whether usage is invoiced before or after it occurs
type BillingMode string

const (
	// BILLING_MODE_IN_ARREAR invoices usage after the period has elapsed
	BILLING_MODE_IN_ARREAR BillingMode = "IN_ARREAR"
	// BILLING_MODE_IN_ADVANCE invoices at the start of a period
	BILLING_MODE_IN_ADVANCE BillingMode = "IN_ADVANCE"
)

func (m BillingMode) String() string {
	return string(m)
}

func (m BillingMode) Validate() error {
	allowedValues := []BillingMode{
		BILLING_MODE_IN_ARREAR,
		BILLING_MODE_IN_ADVANCE,
	}

	if !lo.Contains(allowedValues, m) {
		return ierr.NewError("invalid billing mode").
			WithHint("Invalid billing mode").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": m,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// UsageKind classifies how a metered unit is consumed
type UsageKind string

const (
	// USAGE_KIND_CONSUMABLE units are used up and billed against rolled-up counts
	USAGE_KIND_CONSUMABLE UsageKind = "CONSUMABLE"
	// USAGE_KIND_CAPACITY units reserve capacity regardless of consumption
	USAGE_KIND_CAPACITY UsageKind = "CAPACITY"
)

func (k UsageKind) String() string {
	return string(k)
}

func (k UsageKind) Validate() error {
	allowedValues := []UsageKind{
		USAGE_KIND_CONSUMABLE,
		USAGE_KIND_CAPACITY,
	}

	if !lo.Contains(allowedValues, k) {
		return ierr.NewError("invalid usage kind").
			WithHint("Invalid usage kind").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": k,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// BillingPeriod is the recurring period for a usage definition ex month, year
type BillingPeriod string

const (
	BILLING_PERIOD_DAILY   BillingPeriod = "DAILY"
	BILLING_PERIOD_WEEKLY  BillingPeriod = "WEEKLY"
	BILLING_PERIOD_MONTHLY BillingPeriod = "MONTHLY"
	BILLING_PERIOD_ANNUAL  BillingPeriod = "ANNUAL"
)

func (p BillingPeriod) String() string {
	return string(p)
}

func (p BillingPeriod) Validate() error {
	allowedValues := []BillingPeriod{
		BILLING_PERIOD_DAILY,
		BILLING_PERIOD_WEEKLY,
		BILLING_PERIOD_MONTHLY,
		BILLING_PERIOD_ANNUAL,
	}

	if !lo.Contains(allowedValues, p) {
		return ierr.NewError("invalid billing period").
			WithHint("Invalid billing period").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": p,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// SubscriptionTransitionType classifies what a billing event represents
type SubscriptionTransitionType string

const (
	TRANSITION_TYPE_CREATE SubscriptionTransitionType = "CREATE"
	TRANSITION_TYPE_CHANGE SubscriptionTransitionType = "CHANGE"
	TRANSITION_TYPE_CANCEL SubscriptionTransitionType = "CANCEL"
)

func (t SubscriptionTransitionType) String() string {
	return string(t)
}

func (t SubscriptionTransitionType) Validate() error {
	allowedValues := []SubscriptionTransitionType{
		TRANSITION_TYPE_CREATE,
		TRANSITION_TYPE_CHANGE,
		TRANSITION_TYPE_CANCEL,
	}

	if !lo.Contains(allowedValues, t) {
		return ierr.NewError("invalid transition type").
			WithHint("Invalid subscription transition type").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": t,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// InvoiceItemType is the discriminant for the invoice item variants
type InvoiceItemType string

const (
	// INVOICE_ITEM_TYPE_USAGE covers metered usage for an exact sub-period
	INVOICE_ITEM_TYPE_USAGE InvoiceItemType = "USAGE"
	// INVOICE_ITEM_TYPE_FIXED covers one-off fixed price charges
	INVOICE_ITEM_TYPE_FIXED InvoiceItemType = "FIXED"
	// INVOICE_ITEM_TYPE_RECURRING covers recurring flat charges
	INVOICE_ITEM_TYPE_RECURRING InvoiceItemType = "RECURRING"
)

func (t InvoiceItemType) String() string {
	return string(t)
}

func (t InvoiceItemType) Validate() error {
	allowedValues := []InvoiceItemType{
		INVOICE_ITEM_TYPE_USAGE,
		INVOICE_ITEM_TYPE_FIXED,
		INVOICE_ITEM_TYPE_RECURRING,
	}

	if !lo.Contains(allowedValues, t) {
		return ierr.NewError("invalid invoice item type").
			WithHint("Invalid invoice item type").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": t,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
