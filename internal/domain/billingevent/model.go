package billingevent

import (
	"sort"
	"time"

	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/tierbill/tierbill/internal/types"
)

// BillingEvent is a point-in-time subscription transition (creation, plan
// change, cancellation) supplied by the billing event source. Events are
// immutable and ordered by effective date.
type BillingEvent struct {
	ID string `json:"id"`

	// TransitionType is what the event represents ex CREATE, CHANGE, CANCEL
	TransitionType types.SubscriptionTransitionType `json:"transition_type"`

	// EffectiveDate is the instant the transition takes effect
	EffectiveDate time.Time `json:"effective_date"`

	// BillCycleDay is the day-of-month anchor for recurring boundaries
	BillCycleDay int `json:"bill_cycle_day"`

	// Timezone is the IANA zone the account bills in ex America/New_York
	Timezone string `json:"timezone"`

	// Currency is the 3 digit ISO code the subscription bills in
	Currency string `json:"currency"`

	AccountID      string `json:"account_id"`
	BundleID       string `json:"bundle_id"`
	SubscriptionID string `json:"subscription_id"`
	PlanName       string `json:"plan_name"`
	PhaseName      string `json:"phase_name"`
}

// Location resolves the event's timezone, falling back to UTC when the
// name is empty or unknown.
func (e *BillingEvent) Location() *time.Location {
	if e.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EffectiveLocalDate is the calendar date the event takes effect on in the
// account's timezone, normalized to midnight UTC for boundary arithmetic.
func (e *BillingEvent) EffectiveLocalDate() time.Time {
	return types.ToDateIn(e.EffectiveDate, e.Location())
}

func (e *BillingEvent) Validate() error {
	if e.EffectiveDate.IsZero() {
		return ierr.NewError("billing event has no effective date").
			WithHint("Billing events must carry an effective date").
			Mark(ierr.ErrValidation)
	}
	if e.BillCycleDay < 1 || e.BillCycleDay > 31 {
		return ierr.NewError("bill cycle day out of range").
			WithHintf("Bill cycle day must be between 1 and 31, got %d", e.BillCycleDay).
			Mark(ierr.ErrValidation)
	}
	if e.SubscriptionID == "" {
		return ierr.NewError("billing event has no subscription").
			WithHint("Billing events must reference a subscription").
			Mark(ierr.ErrValidation)
	}
	if e.Currency == "" {
		return ierr.NewError("billing event has no currency").
			WithHint("Billing events must carry the billing currency").
			Mark(ierr.ErrValidation)
	}
	if e.TransitionType != "" {
		if err := e.TransitionType.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsCancel reports whether the event ends the subscription
func (e *BillingEvent) IsCancel() bool {
	return e.TransitionType == types.TRANSITION_TYPE_CANCEL
}

// SortByEffectiveDate orders events chronologically in place
func SortByEffectiveDate(events []*BillingEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EffectiveDate.Before(events[j].EffectiveDate)
	})
}

// IsSortedByEffectiveDate reports whether events are already in
// chronological order
func IsSortedByEffectiveDate(events []*BillingEvent) bool {
	return sort.SliceIsSorted(events, func(i, j int) bool {
		return events[i].EffectiveDate.Before(events[j].EffectiveDate)
	})
}
