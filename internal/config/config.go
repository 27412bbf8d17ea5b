package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/labstack/gommon/random"
)

// Config represents the complete service configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Auth      AuthConfig      `toml:"auth"`
	Redis     RedisConfig     `toml:"redis"`
	MinIO     MinIOConfig     `toml:"minio"`
	Kafka     KafkaConfig     `toml:"kafka"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Checkout  CheckoutConfig  `toml:"checkout"`
	Jobs      JobsConfig      `toml:"jobs"`
}

type ServerConfig struct {
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	URL      string `toml:"url"`
	MaxConns int32  `toml:"max_conns"`
}

type AuthConfig struct {
	JWTSecret     string `toml:"jwt_secret"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
	// GeneratedSecret is set when no secret was configured and one was
	// generated for this process.
	GeneratedSecret bool `toml:"-"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type MinIOConfig struct {
	Endpoint         string `toml:"endpoint"`
	AccessKey        string `toml:"access_key"`
	SecretKey        string `toml:"secret_key"`
	UseSSL           bool   `toml:"use_ssl"`
	StatementsBucket string `toml:"statements_bucket"`
	PresignMinutes   int    `toml:"presign_minutes"`
}

type KafkaConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// CheckoutConfig contains idempotency and rate limit settings
type CheckoutConfig struct {
	IdempotencyTTLMinutes int `toml:"idempotency_ttl_minutes"`
	RateLimit             int `toml:"rate_limit"`
	RateWindowSeconds     int `toml:"rate_window_seconds"`
	MaxItemQuantity       int `toml:"max_item_quantity"`
}

// JobsConfig contains background job settings
type JobsConfig struct {
	ReconcileIntervalMinutes int  `toml:"reconcile_interval_minutes"`
	StatementsEnabled        bool `toml:"statements_enabled"`
}

func (c CheckoutConfig) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempotencyTTLMinutes) * time.Minute
}

func (c CheckoutConfig) RateWindow() time.Duration {
	return time.Duration(c.RateWindowSeconds) * time.Second
}

func (c JobsConfig) ReconcileInterval() time.Duration {
	return time.Duration(c.ReconcileIntervalMinutes) * time.Minute
}

func (c MinIOConfig) PresignExpiry() time.Duration {
	return time.Duration(c.PresignMinutes) * time.Minute
}

func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// Default returns the development defaults
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080, LogLevel: "info"},
		Database: DatabaseConfig{MaxConns: 10},
		Auth:     AuthConfig{TokenTTLHours: 24},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		MinIO: MinIOConfig{
			Endpoint:         "localhost:9000",
			AccessKey:        "minioadmin",
			SecretKey:        "minioadmin",
			StatementsBucket: "revenue-statements",
			PresignMinutes:   15,
		},
		Kafka: KafkaConfig{Topic: "unieats.activity"},
		Checkout: CheckoutConfig{
			IdempotencyTTLMinutes: 60,
			RateLimit:             10,
			RateWindowSeconds:     60,
			MaxItemQuantity:       1000,
		},
		Jobs: JobsConfig{ReconcileIntervalMinutes: 60, StatementsEnabled: true},
	}
}

// Load reads the optional TOML file, applies environment overrides and
// validates the result
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		if _, err := toml.DecodeFile(filename, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = random.String(32)
		cfg.Auth.GeneratedSecret = true
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString("DATABASE_URL", &c.Database.URL)
	setString("JWT_SECRET", &c.Auth.JWTSecret)
	setString("REDIS_ADDR", &c.Redis.Addr)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	setString("MINIO_ENDPOINT", &c.MinIO.Endpoint)
	setString("MINIO_ACCESS_KEY", &c.MinIO.AccessKey)
	setString("MINIO_SECRET_KEY", &c.MinIO.SecretKey)
	setString("OTEL_EXPORTER_OTLP_ENDPOINT", &c.Telemetry.OTLPEndpoint)
	setString("LOG_LEVEL", &c.Server.LogLevel)

	if v := getenv("MINIO_USE_SSL"); v != "" {
		c.MinIO.UseSSL = v == "true"
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.Redis.DB = db
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid port %s: %w", v, err)
		}
		c.Server.Port = port
	}
	return nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Checkout.MaxItemQuantity <= 0 {
		return fmt.Errorf("checkout.max_item_quantity must be positive")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
