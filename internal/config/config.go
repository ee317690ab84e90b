package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Record store backend
	DataBackend  string
	CSVPath      string
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// AMQP (optional save notifications)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Exchange rate
	RateURL      string
	RateFallback float64
	RateTimeout  time.Duration
	RateCacheTTL time.Duration

	// Derivation
	DueSoonDays int
	TotalMode   string

	// Normalization
	DateYearRule     string
	DateFixedYear    int
	FallbackCategory string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "csv"),
		CSVPath:      getEnv("CSV_PATH", "./data/gastos.csv"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finanzas.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Gastos"),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finanzas"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "records_replaced"),

		RateURL:      getEnv("RATE_URL", "https://dolarapi.com/v1/dolares/blue"),
		RateFallback: getEnvFloat("RATE_FALLBACK", 1500),
		RateTimeout:  getEnvDuration("RATE_TIMEOUT", 5*time.Second),
		RateCacheTTL: getEnvDuration("RATE_CACHE_TTL", 10*time.Minute),

		DueSoonDays: getEnvInt("DUE_SOON_DAYS", 0),
		TotalMode:   getEnv("TOTAL_MODE", "all"),

		DateYearRule:     getEnv("DATE_YEAR_RULE", "nearest-future"),
		DateFixedYear:    getEnvInt("DATE_FIXED_YEAR", 0),
		FallbackCategory: getEnv("FALLBACK_CATEGORY", "Unknown"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"csv", "sheets", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "csv":
		if c.CSVPath == "" {
			errors = append(errors, "CSV path cannot be empty when using csv backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleServiceAccountFile == "" && c.GoogleServiceAccountJSON == "" &&
			os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			errors = append(errors, "service account credentials are required for sheets backend (GOOGLE_SERVICE_ACCOUNT_FILE, GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_APPLICATION_CREDENTIALS)")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RateFallback <= 0 {
		errors = append(errors, fmt.Sprintf("invalid rate fallback %f: must be positive", c.RateFallback))
	}
	if c.RateTimeout < 100*time.Millisecond || c.RateTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid rate timeout %v: must be between 100ms and 1m", c.RateTimeout))
	}

	if c.DueSoonDays < 0 || c.DueSoonDays > 90 {
		errors = append(errors, fmt.Sprintf("invalid due-soon window %d: must be between 0 and 90 days", c.DueSoonDays))
	}
	if c.TotalMode != "all" && c.TotalMode != "unpaid" {
		errors = append(errors, fmt.Sprintf("invalid total mode '%s': must be 'all' or 'unpaid'", c.TotalMode))
	}

	switch c.DateYearRule {
	case "nearest-future", "current-year":
	case "fixed":
		if c.DateFixedYear < 1900 || c.DateFixedYear > 3000 {
			errors = append(errors, fmt.Sprintf("invalid fixed year %d for 'fixed' year rule", c.DateFixedYear))
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid year rule '%s': must be 'nearest-future', 'current-year' or 'fixed'", c.DateYearRule))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
