package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// ErrConfig is wrapped by every error Load returns for a missing or malformed variable.
var ErrConfig = errors.New("invalid configuration")

const (
	defaultDatabaseURL   = "sqlite://data.db"
	defaultPollInterval  = 10 * time.Minute
	defaultHTTPTimeout   = 15 * time.Second
	defaultFetchRate     = 2.0
	defaultHTTPUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	defaultLogLevel      = "info"
	defaultEnvironment   = "development"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	GroupID         int64 // Telegram supergroup receiving the notices
	TopicID         int   // Forum topic inside GroupID
	DatabaseURL     string
	AdminTelegramID int64 // 0 disables /status
	PollInterval    time.Duration
	HTTPTimeout     time.Duration
	HTTPUserAgent   string
	FetchRate       float64 // Requests per second against the cafe
	MetricsAddr     string  // Empty disables the metrics listener
	LogLevel        string
	Environment     string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return fromEnv()
}

// LoadFile is Load with an explicit env file, which must exist.
func LoadFile(path string) (*AppConfig, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("%w: read env file %s: %w", ErrConfig, path, err)
	}
	return fromEnv()
}

func fromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_TOKEN is not set", ErrConfig)
	}

	if cfg.GroupID, err = requiredInt("TELEGRAM_GROUP_ID"); err != nil {
		return nil, err
	}
	topicID, err := requiredInt("TELEGRAM_TOPIC_ID")
	if err != nil {
		return nil, err
	}
	cfg.TopicID = int(topicID)

	cfg.DatabaseURL = envOr("DATABASE_URL", defaultDatabaseURL)

	if adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminIDStr != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid ADMIN_TELEGRAM_ID: %w", ErrConfig, err)
		}
	}

	if cfg.PollInterval, err = durationOr("POLL_INTERVAL", defaultPollInterval); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = durationOr("HTTP_TIMEOUT", defaultHTTPTimeout); err != nil {
		return nil, err
	}

	cfg.HTTPUserAgent = envOr("HTTP_USER_AGENT", defaultHTTPUserAgent)

	cfg.FetchRate = defaultFetchRate
	if rateStr := os.Getenv("FETCH_RATE_PER_SEC"); rateStr != "" {
		cfg.FetchRate, err = strconv.ParseFloat(rateStr, 64)
		if err != nil || cfg.FetchRate < 0 {
			return nil, fmt.Errorf("%w: invalid FETCH_RATE_PER_SEC %q", ErrConfig, rateStr)
		}
	}

	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")
	cfg.LogLevel = strings.ToLower(envOr("LOG_LEVEL", defaultLogLevel))
	cfg.Environment = strings.ToLower(envOr("ENVIRONMENT", defaultEnvironment))

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func requiredInt(key string) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is not set", ErrConfig, key)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %w", ErrConfig, key, err)
	}
	return v, nil
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrConfig, key, raw)
	}
	return d, nil
}
