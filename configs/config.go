package configs

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type PledgeBotConfig struct {
	App    App
	Bot    Bot
	Logger Logger
	Store  Store
	TidyHQ TidyHQ
}

func LoadPledgeBotConfig() (PledgeBotConfig, error) {
	_ = godotenv.Load()

	var config PledgeBotConfig

	if err := env.Parse(&config); err != nil {
		return PledgeBotConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

type ReconciliationServiceConfig struct {
	App    App
	Bot    Bot
	Logger Logger
	Store  Store
	TidyHQ TidyHQ

	Cron          string `env:"RECONCILIATION_CRON" envDefault:"10 1 * * *"`
	IncludeUnpaid bool   `env:"RECONCILIATION_INCLUDE_UNPAID" envDefault:"false"`
}

func LoadReconciliationServiceConfig() (ReconciliationServiceConfig, error) {
	_ = godotenv.Load()

	var config ReconciliationServiceConfig

	if err := env.Parse(&config); err != nil {
		return ReconciliationServiceConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

type FundingReportConfig struct {
	App    App
	Bot    Bot
	Logger Logger
	Store  Store
	TidyHQ TidyHQ
}

func LoadFundingReportConfig() (FundingReportConfig, error) {
	_ = godotenv.Load()

	var config FundingReportConfig

	if err := env.Parse(&config); err != nil {
		return FundingReportConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}
