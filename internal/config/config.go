// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :3000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; when empty the server runs on in-memory repositories.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSecret is the shared secret used to sign and verify token payloads (HS256).
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// RedisAddr is the Redis address for the durable queue backend (e.g. localhost:6379).
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// QueueBackend selects the queue implementation: "memory" or "redis".
	QueueBackend string `mapstructure:"QUEUE_BACKEND"`
	// CodeTTL is the verification code lifetime (e.g. "1h").
	CodeTTL string `mapstructure:"CODE_TTL"`
	// AccessTokenTTL is the access token lifetime (e.g. "1h"). Refresh tokens carry no expiry.
	AccessTokenTTL string `mapstructure:"ACCESS_TOKEN_TTL"`
	// TemplateLanguage is the locale used to render verification notifications (e.g. "pt-BR").
	TemplateLanguage string `mapstructure:"TEMPLATE_LANGUAGE"`
	// NotifyWebhookURL is the delivery webhook endpoint; when empty, notifications are logged.
	NotifyWebhookURL string `mapstructure:"NOTIFY_WEBHOOK_URL"`
	// NotifyAPIKey authorizes requests to the delivery webhook.
	NotifyAPIKey string `mapstructure:"NOTIFY_API_KEY"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// Audit (optional). When Kafka brokers are set, session lifecycle events are exported to Kafka.
	// AuditKafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	AuditKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// AuditKafkaTopic is the Kafka topic for audit events.
	AuditKafkaTopic string `mapstructure:"AUDIT_KAFKA_TOPIC"`

	// Worker-only: KafkaGroupID is the consumer group ID for the audit worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("QUEUE_BACKEND", "memory")
	v.SetDefault("CODE_TTL", "1h")
	v.SetDefault("ACCESS_TOKEN_TTL", "1h")
	v.SetDefault("TEMPLATE_LANGUAGE", "pt-BR")
	v.SetDefault("NOTIFY_WEBHOOK_URL", "")
	v.SetDefault("NOTIFY_API_KEY", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("AUDIT_KAFKA_TOPIC", "auth-audit")
	v.SetDefault("KAFKA_GROUP_ID", "auth-audit-worker")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}
	if cfg.QueueBackend != "memory" && cfg.QueueBackend != "redis" {
		return nil, errors.New(`config: QUEUE_BACKEND must be "memory" or "redis"`)
	}
	if cfg.QueueBackend == "redis" && cfg.RedisAddr == "" {
		return nil, errors.New("config: REDIS_ADDR must be set when QUEUE_BACKEND=redis")
	}

	return &cfg, nil
}

// CodeExpiry parses CodeTTL as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) CodeExpiry() time.Duration {
	d, err := time.ParseDuration(c.CodeTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// AccessExpiry parses AccessTokenTTL as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) AccessExpiry() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// AuditKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if audit export is enabled (non-empty list) and to create the producer.
func (c *Config) AuditKafkaBrokersList() []string {
	if c == nil || c.AuditKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.AuditKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
