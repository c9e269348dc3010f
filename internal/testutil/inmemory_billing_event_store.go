package testutil

import (
	"context"

	"github.com/tierbill/tierbill/internal/domain/billingevent"
	"github.com/tierbill/tierbill/internal/types"
)

// InMemoryBillingEventStore implements billingevent.Source
type InMemoryBillingEventStore struct {
	*InMemoryStore[*billingevent.BillingEvent]
}

// NewInMemoryBillingEventStore creates a new in-memory billing event store
func NewInMemoryBillingEventStore() *InMemoryBillingEventStore {
	return &InMemoryBillingEventStore{
		InMemoryStore: NewInMemoryStore[*billingevent.BillingEvent](),
	}
}

// AddEvent registers a billing event for tests
func (s *InMemoryBillingEventStore) AddEvent(ctx context.Context, event *billingevent.BillingEvent) error {
	if event.ID == "" {
		event.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BILLING_EVENT)
	}
	return s.InMemoryStore.Create(ctx, event.ID, event)
}

func (s *InMemoryBillingEventStore) GetBillingEvents(ctx context.Context, subscriptionID string) ([]*billingevent.BillingEvent, error) {
	events, err := s.InMemoryStore.List(ctx, nil,
		func(_ context.Context, event *billingevent.BillingEvent, _ interface{}) bool {
			return event.SubscriptionID == subscriptionID
		},
		nil,
	)
	if err != nil {
		return nil, err
	}
	billingevent.SortByEffectiveDate(events)
	return events, nil
}
