// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_POSTGRES_PASSWORD
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored when absent
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the first location that has one, so the
// binary and package tests can run from different working directories.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills secrets from well-known env vars when the
// YAML left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Webhook.SharedSecret == "" {
		if val := os.Getenv("BILLING_WEBHOOK_SECRET"); val != "" {
			cfg.Webhook.SharedSecret = val
		}
	}
	if cfg.Providers.MarketData.APIKey == "" {
		if val := os.Getenv("MARKET_DATA_API_KEY"); val != "" {
			cfg.Providers.MarketData.APIKey = val
		}
	}
	if cfg.Providers.News.APIKey == "" {
		if val := os.Getenv("NEWS_API_KEY"); val != "" {
			cfg.Providers.News.APIKey = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("POSTGRES_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "sync-manager"
	}
	if cfg.App.HTTPAddr == "" {
		cfg.App.HTTPAddr = ":8081"
	}
	if cfg.App.MetricsAddr == "" {
		cfg.App.MetricsAddr = ":8080"
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 20
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}
	if cfg.Database.Elasticsearch.NewsIndex == "" {
		cfg.Database.Elasticsearch.NewsIndex = "news-items"
	}

	if cfg.Providers.MarketData.Timeout == 0 {
		cfg.Providers.MarketData.Timeout = 10 * time.Second
	}
	if cfg.Providers.MarketData.QuoteCacheTTL == 0 {
		cfg.Providers.MarketData.QuoteCacheTTL = time.Minute
	}
	if cfg.Providers.News.Timeout == 0 {
		cfg.Providers.News.Timeout = 15 * time.Second
	}
	if len(cfg.Providers.News.Categories) == 0 {
		cfg.Providers.News.Categories = []string{"business", "technology", "cryptocurrency"}
	}

	applyJobDefaults(&cfg.Jobs.PriceSync, 5*time.Minute, 4*time.Minute, 3)
	applyJobDefaults(&cfg.Jobs.NewsSync, 5*time.Minute, 4*time.Minute, 3)
	applyJobDefaults(&cfg.Jobs.NewsDigest, 8*time.Hour, 10*time.Minute, 2)
	applyJobDefaults(&cfg.Jobs.PriceAlerts, 24*time.Hour, 30*time.Minute, 2)
	applyJobDefaults(&cfg.Jobs.Welcome, time.Minute, 50*time.Second, 1)

	if len(cfg.Jobs.WatchedCrypto) == 0 {
		cfg.Jobs.WatchedCrypto = []string{"BTC", "ETH", "SOL", "XRP", "ADA", "DOGE"}
	}
	if len(cfg.Jobs.WatchedStocks) == 0 {
		cfg.Jobs.WatchedStocks = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA"}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyJobDefaults(jc *JobConfig, interval, timeout time.Duration, maxRetries int) {
	if jc.Interval == 0 {
		jc.Interval = interval
		jc.Enabled = true
	}
	if jc.Timeout == 0 {
		jc.Timeout = timeout
	}
	if jc.MaxRetries == 0 {
		jc.MaxRetries = maxRetries
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Webhook.SharedSecret == "" {
		return fmt.Errorf("webhook.shared_secret is required")
	}
	return nil
}
