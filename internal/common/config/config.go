// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Push      PushConfig      `mapstructure:"push"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	HTTPAddr    string `mapstructure:"http_addr"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	NewsIndex string   `mapstructure:"news_index"`
}

// ProvidersConfig holds settings for the external market data and news APIs.
type ProvidersConfig struct {
	MarketData MarketDataConfig `mapstructure:"market_data"`
	News       NewsAPIConfig    `mapstructure:"news"`
}

type MarketDataConfig struct {
	CryptoBaseURL string        `mapstructure:"crypto_base_url"`
	StockBaseURL  string        `mapstructure:"stock_base_url"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	QuoteCacheTTL time.Duration `mapstructure:"quote_cache_ttl"`
}

type NewsAPIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Categories []string      `mapstructure:"categories"`
}

// PushConfig holds settings for the push-delivery provider (SNS mobile push).
type PushConfig struct {
	AWSRegion string `mapstructure:"aws_region"`
	Enabled   bool   `mapstructure:"enabled"`
}

// WebhookConfig holds settings for the billing webhook ingress.
type WebhookConfig struct {
	SharedSecret string `mapstructure:"shared_secret"`
}

// JobsConfig holds per-job scheduling settings.
type JobsConfig struct {
	PriceSync   JobConfig `mapstructure:"price_sync"`
	NewsSync    JobConfig `mapstructure:"news_sync"`
	NewsDigest  JobConfig `mapstructure:"news_digest"`
	PriceAlerts JobConfig `mapstructure:"price_alerts"`
	Welcome     JobConfig `mapstructure:"welcome"`

	// WatchedCrypto and WatchedStocks form the popular-asset watch-list.
	WatchedCrypto []string `mapstructure:"watched_crypto"`
	WatchedStocks []string `mapstructure:"watched_stocks"`
}

// JobConfig holds the core settings applicable to every scheduled job.
type JobConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Interval   time.Duration `mapstructure:"interval"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
