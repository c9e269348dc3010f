package usage

import (
	"time"

	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/shopspring/decimal"
)

// RolledUpUsage is a pre-aggregated metered quantity for a subscription
// and unit over a date range, supplied by the usage aggregation
// collaborator. A record's range need not line up with a billing
// sub-period; callers request per-sub-period aggregates.
type RolledUpUsage struct {
	SubscriptionID string          `json:"subscription_id"`
	Unit           string          `json:"unit"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Quantity       decimal.Decimal `json:"quantity"`
}

func (r *RolledUpUsage) Validate() error {
	if r.SubscriptionID == "" {
		return ierr.NewError("rolled up usage has no subscription").
			WithHint("Rolled up usage must reference a subscription").
			Mark(ierr.ErrValidation)
	}
	if r.Unit == "" {
		return ierr.NewError("rolled up usage has no unit").
			WithHint("Rolled up usage must name the metered unit").
			Mark(ierr.ErrValidation)
	}
	if !r.EndDate.After(r.StartDate) {
		return ierr.NewError("rolled up usage range is empty").
			WithHint("Rolled up usage end date must be after the start date").
			Mark(ierr.ErrValidation)
	}
	return nil
}
