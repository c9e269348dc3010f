package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/tierbill/tierbill/internal/domain/invoiceitem"
)

type invoiceItemRepository struct {
	mu    sync.RWMutex
	items []*invoiceitem.InvoiceItem
}

// NewInvoiceItemRepository serves the existing invoice items from a loaded
// snapshot and collects the items a run emits.
func NewInvoiceItemRepository(snapshot *RunSnapshot) invoiceitem.Repository {
	return &invoiceItemRepository{items: snapshot.ExistingItems}
}

func (r *invoiceItemRepository) ListBySubscription(ctx context.Context, subscriptionID string) ([]*invoiceitem.InvoiceItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*invoiceitem.InvoiceItem, 0)
	for _, item := range r.items {
		if item.SubscriptionID == subscriptionID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].StartDate.Equal(items[j].StartDate) {
			return items[i].StartDate.Before(items[j].StartDate)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *invoiceItemRepository) CreateBulk(ctx context.Context, items []*invoiceitem.InvoiceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, items...)
	return nil
}
