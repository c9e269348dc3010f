package invoiceitem

import "context"

// Repository is the invoice item store collaborator. Reconciliation reads
// an in-memory snapshot of the existing items and returns new ones to the
// caller; persisting those before the next run is what makes re-invocation
// at-most-once.
type Repository interface {
	// ListBySubscription returns the existing items for a subscription
	ListBySubscription(ctx context.Context, subscriptionID string) ([]*InvoiceItem, error)

	// CreateBulk persists newly emitted items
	CreateBulk(ctx context.Context, items []*InvoiceItem) error
}
