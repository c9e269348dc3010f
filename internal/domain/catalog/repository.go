package catalog

import (
	"context"
	"time"
)

// Repository is the catalog collaborator. Implementations resolve the
// usage definition valid as of the given instant; versioning of the
// catalog itself lives outside this module.
type Repository interface {
	// GetUsage returns the usage definition for a plan phase usage section
	GetUsage(ctx context.Context, planName, phaseName, usageName string, asOf time.Time) (*Usage, error)

	// ListUsages returns every usage definition attached to a plan phase
	ListUsages(ctx context.Context, planName, phaseName string, asOf time.Time) ([]*Usage, error)
}
