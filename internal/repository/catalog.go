package repository

import (
	"context"
	"time"

	"github.com/tierbill/tierbill/internal/domain/catalog"
	ierr "github.com/tierbill/tierbill/internal/errors"
)

type catalogRepository struct {
	usages []*catalog.Usage
}

// NewCatalogRepository serves catalog lookups from a loaded snapshot
func NewCatalogRepository(snapshot *CatalogSnapshot) catalog.Repository {
	return &catalogRepository{usages: snapshot.Usages}
}

func (r *catalogRepository) GetUsage(ctx context.Context, planName, phaseName, usageName string, asOf time.Time) (*catalog.Usage, error) {
	for _, usageDef := range r.usages {
		if usageDef.PlanName == planName && usageDef.PhaseName == phaseName && usageDef.Name == usageName {
			return usageDef, nil
		}
	}
	return nil, ierr.NewError("usage definition not found").
		WithHintf("Catalog has no usage %s for plan %s phase %s", usageName, planName, phaseName).
		Mark(ierr.ErrNotFound)
}

func (r *catalogRepository) ListUsages(ctx context.Context, planName, phaseName string, asOf time.Time) ([]*catalog.Usage, error) {
	usages := make([]*catalog.Usage, 0)
	for _, usageDef := range r.usages {
		if usageDef.PlanName == planName && usageDef.PhaseName == phaseName {
			usages = append(usages, usageDef)
		}
	}
	return usages, nil
}
