// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	APIs          APIsConfig              `mapstructure:"apis"`
	Analysis      AnalysisConfig          `mapstructure:"analysis"`
	Server        ServerConfig            `mapstructure:"server"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
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

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// Configured reports whether enough is set to open a connection.
func (p PostgresConfig) Configured() bool {
	return p.Host != "" && p.Database != "" && p.User != ""
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// RedisConfig is optional; an empty address disables every Redis cache.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Presence signal upstreams ---

// UpstreamConfig describes one rate-limited HTTP upstream.
type UpstreamConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	Timeout           int     `mapstructure:"timeout"` // milliseconds
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type GitHubConfig struct {
	UpstreamConfig `mapstructure:",squash"`
	Token          string `mapstructure:"token"`
}

const (
	NewsBackendNewsAPI       = "newsapi"
	NewsBackendElasticsearch = "elasticsearch"
)

type NewsConfig struct {
	UpstreamConfig `mapstructure:",squash"`
	Backend        string `mapstructure:"backend"` // newsapi | elasticsearch
	APIKey         string `mapstructure:"api_key"`
	Index          string `mapstructure:"index"` // elasticsearch backend only
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GitHub GitHubConfig `mapstructure:"github"`
	News   NewsConfig   `mapstructure:"news"`
}

// --- Analysis ---

const (
	MarketSourcePostgres = "postgres"
	MarketSourceStatic   = "static"
)

type AnalysisConfig struct {
	DefaultMarkets       []string `mapstructure:"default_markets"`
	MaxConcurrentMarkets int      `mapstructure:"max_concurrent_markets"`
	MarketTimeout        int      `mapstructure:"market_timeout"`   // milliseconds
	SignalCacheTTL       int      `mapstructure:"signal_cache_ttl"` // seconds, 0 disables
	MarketCacheTTL       int      `mapstructure:"market_cache_ttl"` // seconds, 0 disables
	MarketSource         string   `mapstructure:"market_source"`    // postgres | static
}

func (a AnalysisConfig) SignalCacheDuration() time.Duration {
	return time.Duration(a.SignalCacheTTL) * time.Second
}

func (a AnalysisConfig) MarketCacheDuration() time.Duration {
	return time.Duration(a.MarketCacheTTL) * time.Second
}

// ServerConfig configures the HTTP API and probe endpoints.
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"` // gin mode: debug | release | test
}

// NotificationConfig holds settings for the SNS result sink.
type NotificationConfig struct {
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		Region   string `mapstructure:"region"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
