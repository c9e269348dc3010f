package repository

import (
	"encoding/json"
	"os"
	"time"

	"github.com/tierbill/tierbill/internal/domain/billingevent"
	"github.com/tierbill/tierbill/internal/domain/catalog"
	"github.com/tierbill/tierbill/internal/domain/invoiceitem"
	"github.com/tierbill/tierbill/internal/domain/usage"
	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/samber/lo"
)

// CatalogSnapshot is the on-disk form of the catalog collaborator: the
// resolved usage definitions a billing run prices against.
type CatalogSnapshot struct {
	Usages []*catalog.Usage `json:"usages"`
}

// RunSnapshot is the on-disk input of a local billing run: the billing
// events, rolled-up usage and existing invoice items for the
// subscriptions under reconciliation.
type RunSnapshot struct {
	TargetDate    time.Time                    `json:"target_date"`
	Events        []*billingevent.BillingEvent `json:"events"`
	RolledUpUsage []*usage.RolledUpUsage       `json:"rolled_up_usage"`
	ExistingItems []*invoiceitem.InvoiceItem   `json:"existing_items"`
}

// SubscriptionIDs returns the distinct subscriptions the snapshot's
// events reference, in first appearance order.
func (s *RunSnapshot) SubscriptionIDs() []string {
	ids := make([]string, 0, len(s.Events))
	for _, event := range s.Events {
		ids = append(ids, event.SubscriptionID)
	}
	return lo.Uniq(ids)
}

// LoadCatalogSnapshot reads and validates a catalog snapshot file
func LoadCatalogSnapshot(path string) (*CatalogSnapshot, error) {
	var snapshot CatalogSnapshot
	if err := loadJSON(path, &snapshot); err != nil {
		return nil, err
	}
	for _, usageDef := range snapshot.Usages {
		if err := usageDef.Validate(); err != nil {
			return nil, err
		}
	}
	return &snapshot, nil
}

// LoadRunSnapshot reads and validates a billing run snapshot file
func LoadRunSnapshot(path string) (*RunSnapshot, error) {
	var snapshot RunSnapshot
	if err := loadJSON(path, &snapshot); err != nil {
		return nil, err
	}
	for _, event := range snapshot.Events {
		if err := event.Validate(); err != nil {
			return nil, err
		}
	}
	for _, record := range snapshot.RolledUpUsage {
		if err := record.Validate(); err != nil {
			return nil, err
		}
	}
	return &snapshot, nil
}

func loadJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to read snapshot file %s", path).
			Mark(ierr.ErrSystem)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return ierr.WithError(err).
			WithHintf("Snapshot file %s is not valid JSON", path).
			Mark(ierr.ErrValidation)
	}
	return nil
}
