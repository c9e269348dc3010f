package repository

import (
	"context"

	"github.com/tierbill/tierbill/internal/domain/billingevent"
)

type billingEventSource struct {
	events []*billingevent.BillingEvent
}

// NewBillingEventSource serves billing events from a loaded snapshot
func NewBillingEventSource(snapshot *RunSnapshot) billingevent.Source {
	return &billingEventSource{events: snapshot.Events}
}

func (s *billingEventSource) GetBillingEvents(ctx context.Context, subscriptionID string) ([]*billingevent.BillingEvent, error) {
	events := make([]*billingevent.BillingEvent, 0)
	for _, event := range s.events {
		if event.SubscriptionID == subscriptionID {
			events = append(events, event)
		}
	}
	billingevent.SortByEffectiveDate(events)
	return events, nil
}
