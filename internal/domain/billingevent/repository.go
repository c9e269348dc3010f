package billingevent

import "context"

// Source is the billing event collaborator: it supplies the ordered events
// bounding a subscription's relevant history.
type Source interface {
	// GetBillingEvents returns the subscription's events ordered by
	// effective date
	GetBillingEvents(ctx context.Context, subscriptionID string) ([]*BillingEvent, error)
}
