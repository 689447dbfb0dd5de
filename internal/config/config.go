package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Checkout CheckoutConfig
	Notifier NotifierConfig
	SMTP     SMTPConfig
	Promo    PromoConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host           string
	Port           int
	RateLimitRPS   float64
	RateLimitBurst int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration. Token issuance lives with the
// auth collaborator; this service only needs the shared secret to verify.
type AuthConfig struct {
	JWTSecret string
}

// CheckoutConfig holds the flat pricing knobs applied by the cart aggregator
// and the order engine.
type CheckoutConfig struct {
	TaxRatePercent       float64
	CODCharge            float64
	PromoDiscountPercent float64
}

// NotifierConfig holds notification dispatcher tuning.
type NotifierConfig struct {
	Workers      int
	MaxAttempts  int
	BackoffMs    int
	PollInterval time.Duration
	BatchSize    int
}

// SMTPConfig holds email transport configuration. When disabled, deliveries
// are written to the log instead of a wire.
type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// PromoConfig holds promo-code file configuration.
type PromoConfig struct {
	Enabled       bool
	FilePaths     []string
	MinMatchCount int
	S3Enabled     bool
	S3Bucket      string
	S3Region      string
	S3Prefix      string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			RateLimitRPS:   getEnvAsFloat("SERVER_RATE_LIMIT_RPS", 10),
			RateLimitBurst: getEnvAsInt("SERVER_RATE_LIMIT_BURST", 20),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "swiftcart"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Checkout: CheckoutConfig{
			TaxRatePercent:       getEnvAsFloat("TAX_RATE_PERCENT", 10),
			CODCharge:            getEnvAsFloat("COD_CHARGE", 50),
			PromoDiscountPercent: getEnvAsFloat("PROMO_DISCOUNT_PERCENT", 10),
		},
		Notifier: NotifierConfig{
			Workers:      getEnvAsInt("NOTIFIER_WORKERS", 2),
			MaxAttempts:  getEnvAsInt("NOTIFIER_MAX_ATTEMPTS", 3),
			BackoffMs:    getEnvAsInt("NOTIFIER_BACKOFF_MS", 5000),
			PollInterval: time.Duration(getEnvAsInt("NOTIFIER_POLL_INTERVAL_MS", 1000)) * time.Millisecond,
			BatchSize:    getEnvAsInt("NOTIFIER_BATCH_SIZE", 10),
		},
		SMTP: SMTPConfig{
			Enabled:  getEnvAsBool("SMTP_ENABLED", false),
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			From:     getEnv("SMTP_FROM", "orders@swiftcart.local"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
		Promo: PromoConfig{
			Enabled:       getEnvAsBool("PROMO_ENABLED", false),
			FilePaths:     getEnvAsSlice("PROMO_FILES", []string{"data/promos/promobase1.gz", "data/promos/promobase2.gz", "data/promos/promobase3.gz"}),
			MinMatchCount: getEnvAsInt("PROMO_MIN_MATCH_COUNT", 2),
			S3Enabled:     getEnvAsBool("PROMO_S3_ENABLED", false),
			S3Bucket:      getEnv("PROMO_S3_BUCKET", ""),
			S3Region:      getEnv("PROMO_S3_REGION", "us-east-1"),
			S3Prefix:      getEnv("PROMO_S3_PREFIX", "promos/"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1")
	}

	if c.Checkout.TaxRatePercent < 0 {
		return fmt.Errorf("tax rate cannot be negative")
	}

	if c.Checkout.CODCharge < 0 {
		return fmt.Errorf("COD charge cannot be negative")
	}

	if c.Notifier.Workers < 1 {
		return fmt.Errorf("notifier requires at least one worker")
	}

	if c.Notifier.MaxAttempts < 1 {
		return fmt.Errorf("notifier max attempts must be at least 1")
	}

	if c.Notifier.BackoffMs < 0 {
		return fmt.Errorf("notifier backoff cannot be negative")
	}

	if c.Notifier.BatchSize < 1 {
		return fmt.Errorf("notifier batch size must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.SMTP.Enabled {
		if c.SMTP.Host == "" {
			return fmt.Errorf("SMTP host is required when SMTP is enabled")
		}
		if c.SMTP.From == "" {
			return fmt.Errorf("SMTP from address is required when SMTP is enabled")
		}
	}

	if c.Promo.Enabled {
		if len(c.Promo.FilePaths) == 0 {
			return fmt.Errorf("at least one promo file is required when promo codes are enabled")
		}
		if c.Promo.MinMatchCount < 1 {
			return fmt.Errorf("promo min match count must be at least 1")
		}
		if c.Promo.S3Enabled && c.Promo.S3Bucket == "" {
			return fmt.Errorf("promo S3 bucket is required when promo S3 loading is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable or returns a default value.
func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
