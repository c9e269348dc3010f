package service

import (
	"context"
	"time"

	"github.com/tierbill/tierbill/internal/cache"
	"github.com/tierbill/tierbill/internal/config"
	"github.com/tierbill/tierbill/internal/domain/usage"
	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/tierbill/tierbill/internal/logger"
	"github.com/shopspring/decimal"
)

// UsageService is the thin adapter over the usage aggregation
// collaborator: it sums the rolled-up records covering exactly one
// sub-period and unit. Lookups may optionally be served from a
// read-through cache; the cache sits on the caller side of the core, so a
// reconciliation run against a warm cache still sees a stable snapshot.
type UsageService interface {
	GetQuantityForPeriod(ctx context.Context, subscriptionID, unit string, startDate, endDate time.Time) (decimal.Decimal, error)
}

type usageService struct {
	repo   usage.Repository
	cache  cache.Cache
	cfg    *config.Configuration
	logger *logger.Logger
}

func NewUsageService(repo usage.Repository, c cache.Cache, cfg *config.Configuration, logger *logger.Logger) UsageService {
	return &usageService{repo: repo, cache: c, cfg: cfg, logger: logger}
}

func (s *usageService) GetQuantityForPeriod(ctx context.Context, subscriptionID, unit string, startDate, endDate time.Time) (decimal.Decimal, error) {
	key := cache.GenerateKey(cache.PrefixRolledUpUsage, subscriptionID, unit,
		startDate.Format(time.DateOnly), endDate.Format(time.DateOnly))

	if s.cacheEnabled() {
		if cached, ok := s.cache.Get(ctx, key); ok {
			if quantity, ok := cached.(decimal.Decimal); ok {
				return quantity, nil
			}
		}
	}

	records, err := s.repo.GetUsageForSubscriptionAndUnit(ctx, subscriptionID, unit, startDate, endDate)
	if err != nil {
		return decimal.Zero, err
	}

	quantity := decimal.Zero
	for _, record := range records {
		if record.Quantity.IsNegative() {
			return decimal.Zero, ierr.NewError("negative rolled up usage").
				WithHintf("Usage feed returned a negative quantity for unit %s", unit).
				WithReportableDetails(map[string]any{
					"subscription_id": subscriptionID,
					"unit":            unit,
					"quantity":        record.Quantity,
				}).
				Mark(ierr.ErrInvalidQuantity)
		}
		quantity = quantity.Add(record.Quantity)
	}

	s.logger.WithContext(ctx).Debugf(
		"rolled up usage for subscription %s unit %s [%s, %s): %s",
		subscriptionID, unit,
		startDate.Format(time.DateOnly), endDate.Format(time.DateOnly),
		quantity.String(),
	)

	if s.cacheEnabled() {
		s.cache.Set(ctx, key, quantity, s.cfg.UsageCache.TTL)
	}

	return quantity, nil
}

func (s *usageService) cacheEnabled() bool {
	return s.cache != nil && s.cfg != nil && s.cfg.UsageCache.Enabled
}
