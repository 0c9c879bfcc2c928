package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Store     StoreConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
	Tracing   TracingConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type StoreConfig struct {
	Driver         string `mapstructure:"STORE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	MaxOpenConns   int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	RedisKeyPrefix string `mapstructure:"REDIS_KEY_PREFIX"`
}

type SchedulerConfig struct {
	OverdueCron    string `mapstructure:"OVERDUE_CRON"`
	ReminderCron   string `mapstructure:"REMINDER_CRON"`
	ReminderWindow string `mapstructure:"REMINDER_WINDOW"`
	Timezone       string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	DefaultInstallment     string `mapstructure:"DEFAULT_INSTALLMENT"`
	SuggestionIntervalDays int    `mapstructure:"SUGGESTION_INTERVAL_DAYS"`
	SchedulePreviewRows    int    `mapstructure:"SCHEDULE_PREVIEW_ROWS"`
	CurrencySymbol         string `mapstructure:"CURRENCY_SYMBOL"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

type TracingConfig struct {
	Endpoint    string `mapstructure:"OTEL_ENDPOINT"`
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Values already in the environment take precedence over .env
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("REDIS_KEY_PREFIX", "lendbook:")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DEFAULT_INSTALLMENT", "500")
	v.SetDefault("SUGGESTION_INTERVAL_DAYS", 7)
	v.SetDefault("SCHEDULE_PREVIEW_ROWS", 12)
	v.SetDefault("CURRENCY_SYMBOL", "PHP")
	v.SetDefault("OVERDUE_CRON", "0 0 0 * * *")
	v.SetDefault("REMINDER_CRON", "0 0 9 * * SUN")
	v.SetDefault("REMINDER_WINDOW", "72h")
	v.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	v.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")
	v.SetDefault("OTEL_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "lendbook")

	// Read from environment variables
	v.AutomaticEnv()

	// Try to read from .env file (optional)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis store")
		}
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of memory, redis, postgres; got %q", c.Store.Driver)
	}

	installment, err := decimal.NewFromString(c.Business.DefaultInstallment)
	if err != nil {
		return fmt.Errorf("DEFAULT_INSTALLMENT must be a valid decimal: %w", err)
	}
	if !installment.IsPositive() {
		return fmt.Errorf("DEFAULT_INSTALLMENT must be greater than 0")
	}

	if c.Business.SuggestionIntervalDays <= 0 {
		return fmt.Errorf("SUGGESTION_INTERVAL_DAYS must be greater than 0")
	}

	if c.Business.SchedulePreviewRows < 0 {
		return fmt.Errorf("SCHEDULE_PREVIEW_ROWS must not be negative")
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Scheduler.OverdueCron); err != nil {
		return fmt.Errorf("OVERDUE_CRON must be a valid cron spec: %w", err)
	}
	if _, err := parser.Parse(c.Scheduler.ReminderCron); err != nil {
		return fmt.Errorf("REMINDER_CRON must be a valid cron spec: %w", err)
	}

	// Validate reminder window
	if _, err := time.ParseDuration(c.Scheduler.ReminderWindow); err != nil {
		return fmt.Errorf("REMINDER_WINDOW must be a valid duration: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid location: %w", err)
	}

	// Validate health check timeout
	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GetDefaultInstallment returns the suggested installment as decimal
func (c *Config) GetDefaultInstallment() decimal.Decimal {
	installment, _ := decimal.NewFromString(c.Business.DefaultInstallment)
	return installment
}

// GetSuggestionInterval returns the gap between suggested payments
func (c *Config) GetSuggestionInterval() time.Duration {
	return time.Duration(c.Business.SuggestionIntervalDays) * 24 * time.Hour
}

// GetReminderWindow returns how far ahead due-soon reminders look
func (c *Config) GetReminderWindow() time.Duration {
	window, _ := time.ParseDuration(c.Scheduler.ReminderWindow)
	return window
}

// GetSchedulerLocation returns the scheduler time zone
func (c *Config) GetSchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
