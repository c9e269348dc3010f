package usage

import (
	"context"
	"time"
)

// Repository is the usage aggregation collaborator. One method per query
// shape: rolled-up records for a subscription and unit over a date range.
// Implementations may be backed by a network or database call; retry and
// timeout policy belongs to the implementation, not to the billing core.
type Repository interface {
	GetUsageForSubscriptionAndUnit(ctx context.Context, subscriptionID, unit string, startDate, endDate time.Time) ([]*RolledUpUsage, error)
}
