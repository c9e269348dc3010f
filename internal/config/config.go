package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tierbill/tierbill/internal/validator"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Catalog    CatalogConfig    `validate:"required"`
	Billing    BillingConfig    `validate:"required"`
	UsageCache UsageCacheConfig
}

type DeploymentConfig struct {
	Mode string `validate:"required,oneof=local dev prod"`
}

type LoggingConfig struct {
	Level string `validate:"required,oneof=debug info warn error"`
}

// CatalogConfig points at the usage definition snapshot consumed by a
// billing run. The catalog itself is owned and versioned externally.
type CatalogConfig struct {
	Path string `validate:"required"`
}

// BillingConfig carries the billing run surface: where the run snapshot
// (billing events, rolled-up usage, existing invoice items) is read from
// and how many subscriptions are reconciled concurrently.
type BillingConfig struct {
	SnapshotPath   string `validate:"required"`
	MaxConcurrency int    `validate:"gte=1"`
}

type UsageCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tierbill")

	v.SetEnvPrefix("TIERBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	v.SetDefault("deployment.mode", "local")
	v.SetDefault("logging.level", "info")
	v.SetDefault("catalog.path", "catalog.json")
	v.SetDefault("billing.snapshotpath", "billingrun.json")
	v.SetDefault("billing.maxconcurrency", 4)
	v.SetDefault("usagecache.enabled", true)
	v.SetDefault("usagecache.ttl", 30*time.Minute)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c Configuration) Validate() error {
	return validator.ValidateRequest(c)
}

// GetDefaultConfig returns a configuration suitable for tests and scripts
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: "local"},
		Logging:    LoggingConfig{Level: "debug"},
		Catalog:    CatalogConfig{Path: "catalog.json"},
		Billing:    BillingConfig{SnapshotPath: "billingrun.json", MaxConcurrency: 1},
		UsageCache: UsageCacheConfig{Enabled: false},
	}
}
