package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config はアプリケーションの設定を表す。
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Billing  BillingConfig  `yaml:"billing"`
}

// AppConfig はアプリケーション情報の設定。
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
	Tier        string `yaml:"tier"`
}

// ServerConfig は REST サーバーの設定。
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	BaseURL         string        `yaml:"base_url"`
}

// DatabaseConfig はデータベースの設定。
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig はキャッシュ・使用量カウンター用 Redis の設定。
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// KafkaConfig は Kafka の設定。
type KafkaConfig struct {
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

// KafkaTopics は Kafka のトピック設定。
type KafkaTopics struct {
	Redeem string `yaml:"redeem"`
	Coupon string `yaml:"coupon"`
	Plan   string `yaml:"plan"`
}

// BillingConfig は課金 Webhook の設定。
type BillingConfig struct {
	WebhookSecret string `yaml:"webhook_secret"`
}

// Load は設定ファイルから Config を読み込む。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Validate は設定値のバリデーションを行う。
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Billing.WebhookSecret == "" {
		return fmt.Errorf("billing.webhook_secret is required")
	}
	return nil
}

// GetCacheTTL はキャッシュ TTL を返す。未設定の場合は 5 分。
func (c *RedisConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL <= 0 {
		return 5 * time.Minute
	}
	return c.CacheTTL
}

// DSN はデータベース接続文字列を返す。
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
