package repository

import (
	"context"
	"time"

	"github.com/tierbill/tierbill/internal/domain/usage"
)

type usageRepository struct {
	records []*usage.RolledUpUsage
}

// NewUsageRepository serves rolled-up usage lookups from a loaded snapshot
func NewUsageRepository(snapshot *RunSnapshot) usage.Repository {
	return &usageRepository{records: snapshot.RolledUpUsage}
}

// GetUsageForSubscriptionAndUnit returns the records for the subscription
// and unit whose ranges fall inside [startDate, endDate).
func (r *usageRepository) GetUsageForSubscriptionAndUnit(ctx context.Context, subscriptionID, unit string, startDate, endDate time.Time) ([]*usage.RolledUpUsage, error) {
	records := make([]*usage.RolledUpUsage, 0)
	for _, record := range r.records {
		if record.SubscriptionID != subscriptionID || record.Unit != unit {
			continue
		}
		if record.StartDate.Before(startDate) || record.EndDate.After(endDate) {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
