package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tierbill/tierbill/internal/cache"
	"github.com/tierbill/tierbill/internal/config"
	"github.com/tierbill/tierbill/internal/domain/billingevent"
	"github.com/tierbill/tierbill/internal/domain/catalog"
	"github.com/tierbill/tierbill/internal/domain/invoiceitem"
	"github.com/tierbill/tierbill/internal/domain/usage"
	"github.com/tierbill/tierbill/internal/logger"
	"github.com/tierbill/tierbill/internal/repository"
	"github.com/tierbill/tierbill/internal/service"
	"github.com/tierbill/tierbill/internal/validator"
	govalidator "github.com/go-playground/validator/v10"
	"go.uber.org/fx"

	"github.com/joho/godotenv"
)

func init() {
	// Billing boundary arithmetic assumes UTC dates everywhere
	time.Local = time.UTC
}

func main() {
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			validator.NewValidator,
			provideConfig,
			logger.NewLogger,
			cache.NewInMemoryCache,
			provideCatalogRepository,
			provideRunSnapshot,
			repository.NewBillingEventSource,
			repository.NewUsageRepository,
			repository.NewInvoiceItemRepository,
			provideBillingRunService,
		),
		fx.Invoke(runBilling),
	)

	app.Run()
}

// provideConfig loads the configuration once the shared validator exists;
// Configuration.Validate runs through it.
func provideConfig(_ *govalidator.Validate) (*config.Configuration, error) {
	return config.NewConfig()
}

func provideCatalogRepository(cfg *config.Configuration) (catalog.Repository, error) {
	snapshot, err := repository.LoadCatalogSnapshot(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	return repository.NewCatalogRepository(snapshot), nil
}

func provideRunSnapshot(cfg *config.Configuration) (*repository.RunSnapshot, error) {
	return repository.LoadRunSnapshot(cfg.Billing.SnapshotPath)
}

func provideBillingRunService(
	cfg *config.Configuration,
	log *logger.Logger,
	c cache.Cache,
	catalogRepo catalog.Repository,
	eventSource billingevent.Source,
	usageRepo usage.Repository,
	itemRepo invoiceitem.Repository,
) service.BillingRunService {
	return service.NewBillingRunService(service.ServiceParams{
		Logger:          log,
		Config:          cfg,
		CatalogRepo:     catalogRepo,
		EventSource:     eventSource,
		UsageRepo:       usageRepo,
		InvoiceItemRepo: itemRepo,
		Cache:           c,
	})
}

func runBilling(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	log *logger.Logger,
	snapshot *repository.RunSnapshot,
	runner service.BillingRunService,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					_ = shutdowner.Shutdown()
				}()

				targetDate := snapshot.TargetDate
				if targetDate.IsZero() {
					targetDate = time.Now().UTC()
				}

				result, err := runner.Run(context.Background(), targetDate, snapshot.SubscriptionIDs())
				if err != nil {
					log.Errorf("billing run failed: %v", err)
					return
				}

				emitted := 0
				for _, sub := range result.Subscriptions {
					emitted += len(sub.Items)
				}
				log.Infof("billing run %s finished: %d subscriptions, %d items emitted",
					result.RunID, len(result.Subscriptions), emitted)

				output, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					log.Errorf("failed to encode billing run result: %v", err)
					return
				}
				fmt.Println(string(output))
			}()
			return nil
		},
	})
}
