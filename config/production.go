// Package config provides configuration management and environment variable handling for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ProductionConfig holds all configuration for the survey service
type ProductionConfig struct {
	Server     ServerConfig     `json:"server"`
	Sheets     SheetsConfig     `json:"sheets"`
	Telegram   TelegramConfig   `json:"telegram"`
	Scheduler  SchedulerConfig  `json:"scheduler"`
	Storage    StorageConfig    `json:"storage"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    MetricsConfig    `json:"metrics"`
	Deployment DeploymentConfig `json:"deployment"`
}

type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	BodyLimit       int           `json:"body_limit"`
	GlobalRateLimit int           `json:"global_rate_limit"` // requests per minute
}

type SheetsConfig struct {
	SourceURL        string        `json:"source_url"`
	SheetKeyword     string        `json:"sheet_keyword"`
	DefaultSheetName string        `json:"default_sheet_name"`
	FetchTimeout     time.Duration `json:"fetch_timeout"`
	CacheTTL         time.Duration `json:"cache_ttl"`
}

type TelegramConfig struct {
	APIDomain   string        `json:"api_domain"`
	BotToken    string        `json:"bot_token"`
	SendTimeout time.Duration `json:"send_timeout"`
}

type SchedulerConfig struct {
	ReminderEnabled    bool   `json:"reminder_enabled"`
	ReminderCronSpec   string `json:"reminder_cron_spec"`
	IngestionEnabled   bool   `json:"ingestion_enabled"`
	IngestionCronSpec  string `json:"ingestion_cron_spec"`
	Timezone           string `json:"timezone"`
	ReminderOffsetDays int    `json:"reminder_offset_days"`
}

type StorageConfig struct {
	SurveyFilePath    string `json:"survey_file_path"`
	RecipientFilePath string `json:"recipient_file_path"`
}

type LoggingConfig struct {
	FilePath   string `json:"file_path"`
	MaxSize    int    `json:"max_size"` // MB
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"` // days
	Compress   bool   `json:"compress"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type DeploymentConfig struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

// LoadProductionConfig loads and validates configuration from environment variables
func LoadProductionConfig() (*ProductionConfig, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &ProductionConfig{
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			BodyLimit:       getEnvInt("SERVER_BODY_LIMIT", 4*1024*1024), // 4MB
			GlobalRateLimit: getEnvInt("GLOBAL_RATE_LIMIT", 600),
		},
		Sheets: SheetsConfig{
			SourceURL:        getEnvString("SHEETS_SOURCE_URL", ""),
			SheetKeyword:     getEnvString("SHEETS_SHEET_KEYWORD", "Survey"),
			DefaultSheetName: getEnvString("SHEETS_DEFAULT_SHEET_NAME", "Sheet1"),
			FetchTimeout:     getEnvDuration("SHEETS_FETCH_TIMEOUT", 30*time.Second),
			CacheTTL:         getEnvDuration("SHEETS_CACHE_TTL", 2*time.Minute),
		},
		Telegram: TelegramConfig{
			APIDomain:   getEnvString("TELEGRAM_API_DOMAIN", "https://api.telegram.org"),
			BotToken:    getEnvString("TELEGRAM_BOT_TOKEN", ""),
			SendTimeout: getEnvDuration("TELEGRAM_SEND_TIMEOUT", 30*time.Second),
		},
		Scheduler: SchedulerConfig{
			ReminderEnabled:    getEnvBool("SCHEDULER_REMINDER_ENABLED", true),
			ReminderCronSpec:   getEnvString("SCHEDULER_REMINDER_CRON", "0 8 * * *"),
			IngestionEnabled:   getEnvBool("SCHEDULER_INGESTION_ENABLED", true),
			IngestionCronSpec:  getEnvString("SCHEDULER_INGESTION_CRON", "30 7 * * *"),
			Timezone:           getEnvString("SCHEDULER_TIMEZONE", "Asia/Singapore"),
			ReminderOffsetDays: getEnvInt("SCHEDULER_REMINDER_OFFSET_DAYS", 1),
		},
		Storage: StorageConfig{
			SurveyFilePath:    getEnvString("STORAGE_SURVEY_FILE", "data/surveys.json"),
			RecipientFilePath: getEnvString("STORAGE_RECIPIENT_FILE", "data/recipients.json"),
		},
		Logging: LoggingConfig{
			FilePath:   getEnvString("LOG_FILE_PATH", "data/scheduler.log"),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 10),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 30),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnvString("METRICS_PATH", "/metrics"),
		},
		Deployment: DeploymentConfig{
			Environment: getEnvString("APP_ENV", "production"),
			Version:     getEnvString("VERSION", "1.0.0"),
		},
	}

	// Validate the loaded configuration
	if err := ValidateProductionConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// ValidateProductionConfig validates the production configuration
func ValidateProductionConfig(cfg *ProductionConfig) error {
	var errors []string

	// Validate server configuration
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 {
		errors = append(errors, "SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		errors = append(errors, "SERVER_WRITE_TIMEOUT must be positive")
	}

	// Validate sheets configuration
	if cfg.Sheets.SourceURL == "" {
		errors = append(errors, "SHEETS_SOURCE_URL is required")
	}
	if cfg.Sheets.FetchTimeout <= 0 {
		errors = append(errors, "SHEETS_FETCH_TIMEOUT must be positive")
	}

	// Validate telegram configuration unless running in mock mode
	if cfg.Telegram.APIDomain != "mock" && cfg.Telegram.BotToken == "" {
		errors = append(errors, "TELEGRAM_BOT_TOKEN is required for telegram transport")
	}

	// Validate scheduler configuration
	if _, err := time.LoadLocation(cfg.Scheduler.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("SCHEDULER_TIMEZONE is invalid: %v", err))
	}
	if cfg.Scheduler.ReminderOffsetDays < 0 {
		errors = append(errors, "SCHEDULER_REMINDER_OFFSET_DAYS must not be negative")
	}

	// Validate storage configuration
	if cfg.Storage.SurveyFilePath == "" {
		errors = append(errors, "STORAGE_SURVEY_FILE is required")
	}
	if cfg.Storage.RecipientFilePath == "" {
		errors = append(errors, "STORAGE_RECIPIENT_FILE is required")
	}

	// Return validation errors if any
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
