package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Inputs   InputConfig
	Matching MatchingConfig
	Export   ExportConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// InputConfig holds the input file locations
type InputConfig struct {
	PagesPath  string
	LedgerPath string
}

// MatchingConfig holds the configurable parts of classification/matching
type MatchingConfig struct {
	FolioPattern     string
	AliasTablePath   string
	ExtraPlaceholder []string
}

// ExportConfig holds report output configuration
type ExportConfig struct {
	ReportPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Inputs: InputConfig{
			PagesPath:  getEnv("PAGES_PATH", ""),
			LedgerPath: getEnv("LEDGER_PATH", ""),
		},
		Matching: MatchingConfig{
			FolioPattern:     getEnv("FOLIO_PATTERN", ""),
			AliasTablePath:   getEnv("ALIAS_TABLE_PATH", ""),
			ExtraPlaceholder: getEnvAsList("EXTRA_PLACEHOLDERS"),
		},
		Export: ExportConfig{
			ReportPath: getEnv("REPORT_PATH", "./reconciliation.xlsx"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Inputs.PagesPath == "" {
		return NewAppError("CONFIG_ERROR", "PAGES_PATH is required", ErrInvalidInput)
	}
	if c.Inputs.LedgerPath == "" {
		return NewAppError("CONFIG_ERROR", "LEDGER_PATH is required", ErrInvalidInput)
	}
	return nil
}
