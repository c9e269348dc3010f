package testutil

import (
	"context"
	"time"

	"github.com/tierbill/tierbill/internal/domain/usage"
	"github.com/tierbill/tierbill/internal/types"
)

// InMemoryRolledUpUsageStore implements usage.Repository
type InMemoryRolledUpUsageStore struct {
	*InMemoryStore[*usage.RolledUpUsage]
}

// NewInMemoryRolledUpUsageStore creates a new in-memory rolled-up usage store
func NewInMemoryRolledUpUsageStore() *InMemoryRolledUpUsageStore {
	return &InMemoryRolledUpUsageStore{
		InMemoryStore: NewInMemoryStore[*usage.RolledUpUsage](),
	}
}

// AddUsage registers a rolled-up usage record for tests
func (s *InMemoryRolledUpUsageStore) AddUsage(ctx context.Context, record *usage.RolledUpUsage) error {
	return s.InMemoryStore.Create(ctx, types.GenerateUUID(), record)
}

// GetUsageForSubscriptionAndUnit returns the records for the subscription
// and unit whose ranges fall inside [startDate, endDate).
func (s *InMemoryRolledUpUsageStore) GetUsageForSubscriptionAndUnit(ctx context.Context, subscriptionID, unit string, startDate, endDate time.Time) ([]*usage.RolledUpUsage, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(_ context.Context, record *usage.RolledUpUsage, _ interface{}) bool {
			return record.SubscriptionID == subscriptionID &&
				record.Unit == unit &&
				!record.StartDate.Before(startDate) &&
				!record.EndDate.After(endDate)
		},
		func(i, j *usage.RolledUpUsage) bool {
			return i.StartDate.Before(j.StartDate)
		},
	)
}
