package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/tierbill/tierbill/internal/domain/catalog"
	ierr "github.com/tierbill/tierbill/internal/errors"
)

// InMemoryCatalogStore implements catalog.Repository
type InMemoryCatalogStore struct {
	*InMemoryStore[*catalog.Usage]
}

// NewInMemoryCatalogStore creates a new in-memory catalog store
func NewInMemoryCatalogStore() *InMemoryCatalogStore {
	return &InMemoryCatalogStore{
		InMemoryStore: NewInMemoryStore[*catalog.Usage](),
	}
}

func catalogKey(planName, phaseName, usageName string) string {
	return fmt.Sprintf("%s/%s/%s", planName, phaseName, usageName)
}

// AddUsage registers a usage definition for tests
func (s *InMemoryCatalogStore) AddUsage(ctx context.Context, usage *catalog.Usage) error {
	return s.InMemoryStore.Create(ctx, catalogKey(usage.PlanName, usage.PhaseName, usage.Name), usage)
}

func (s *InMemoryCatalogStore) GetUsage(ctx context.Context, planName, phaseName, usageName string, asOf time.Time) (*catalog.Usage, error) {
	usage, err := s.InMemoryStore.Get(ctx, catalogKey(planName, phaseName, usageName))
	if err != nil {
		return nil, ierr.NewError("usage definition not found").
			WithHintf("Catalog has no usage %s for plan %s phase %s", usageName, planName, phaseName).
			Mark(ierr.ErrNotFound)
	}
	return usage, nil
}

func (s *InMemoryCatalogStore) ListUsages(ctx context.Context, planName, phaseName string, asOf time.Time) ([]*catalog.Usage, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(_ context.Context, usage *catalog.Usage, _ interface{}) bool {
			return usage.PlanName == planName && usage.PhaseName == phaseName
		},
		func(i, j *catalog.Usage) bool {
			return i.Name < j.Name
		},
	)
}
