package testutil

import (
	"context"

	"github.com/tierbill/tierbill/internal/domain/invoiceitem"
	"github.com/tierbill/tierbill/internal/types"
)

// InMemoryInvoiceItemStore implements invoiceitem.Repository
type InMemoryInvoiceItemStore struct {
	*InMemoryStore[*invoiceitem.InvoiceItem]
}

// NewInMemoryInvoiceItemStore creates a new in-memory invoice item store
func NewInMemoryInvoiceItemStore() *InMemoryInvoiceItemStore {
	return &InMemoryInvoiceItemStore{
		InMemoryStore: NewInMemoryStore[*invoiceitem.InvoiceItem](),
	}
}

// Add registers an existing invoice item for tests
func (s *InMemoryInvoiceItemStore) Add(ctx context.Context, item *invoiceitem.InvoiceItem) error {
	if item.ID == "" {
		item.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ITEM)
	}
	return s.InMemoryStore.Create(ctx, item.ID, item)
}

func (s *InMemoryInvoiceItemStore) ListBySubscription(ctx context.Context, subscriptionID string) ([]*invoiceitem.InvoiceItem, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(_ context.Context, item *invoiceitem.InvoiceItem, _ interface{}) bool {
			return item.SubscriptionID == subscriptionID
		},
		func(i, j *invoiceitem.InvoiceItem) bool {
			if !i.StartDate.Equal(j.StartDate) {
				return i.StartDate.Before(j.StartDate)
			}
			return i.ID < j.ID
		},
	)
}

func (s *InMemoryInvoiceItemStore) CreateBulk(ctx context.Context, items []*invoiceitem.InvoiceItem) error {
	for _, item := range items {
		if err := s.InMemoryStore.Create(ctx, item.ID, item); err != nil {
			return err
		}
	}
	return nil
}
