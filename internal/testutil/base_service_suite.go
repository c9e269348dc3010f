package testutil

import (
	"context"
	"time"

	"github.com/tierbill/tierbill/internal/config"
	"github.com/tierbill/tierbill/internal/domain/billingevent"
	"github.com/tierbill/tierbill/internal/domain/catalog"
	"github.com/tierbill/tierbill/internal/domain/invoiceitem"
	"github.com/tierbill/tierbill/internal/domain/usage"
	"github.com/tierbill/tierbill/internal/logger"
	"github.com/tierbill/tierbill/internal/types"
	"github.com/tierbill/tierbill/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	CatalogRepo     catalog.Repository
	EventSource     billingevent.Source
	UsageRepo       usage.Repository
	InvoiceItemRepo invoiceitem.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxTenantID, types.DefaultTenantID)
	s.ctx = context.WithValue(s.ctx, types.CtxUserID, types.DefaultUserID)
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		CatalogRepo:     NewInMemoryCatalogStore(),
		EventSource:     NewInMemoryBillingEventStore(),
		UsageRepo:       NewInMemoryRolledUpUsageStore(),
		InvoiceItemRepo: NewInMemoryInvoiceItemStore(),
	}
}

// ClearStores resets every in-memory store
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.CatalogRepo.(*InMemoryCatalogStore).Clear()
	s.stores.EventSource.(*InMemoryBillingEventStore).Clear()
	s.stores.UsageRepo.(*InMemoryRolledUpUsageStore).Clear()
	s.stores.InvoiceItemRepo.(*InMemoryInvoiceItemStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
