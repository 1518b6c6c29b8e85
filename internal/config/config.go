package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server ports
	APIPort int
	MM4Port int

	// Device identity
	DeviceNumbers []string // every number that may identify this device (multi-SIM)
	SimNumbers    []string // enumerable SIM slot routing numbers, may be empty

	// Features
	AutoSaveMedia bool

	// Storage
	MediaStoragePath string

	// Side effects
	PushGatewayURL string

	// Logging
	LogLevel string

	// Security
	APIKey         string
	AllowedOrigins string
	AppEnv         string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// DATABASE_URL (default: local SQLite store)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "smshub.db"
	}

	var err error
	if cfg.APIPort, err = intEnv("API_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.MM4Port, err = intEnv("MM4_PORT", 2566); err != nil {
		return nil, err
	}

	// DEVICE_NUMBERS is required: without it self-echo detection and
	// recipient resolution cannot tell "us" from "them".
	deviceNumbers := os.Getenv("DEVICE_NUMBERS")
	if deviceNumbers == "" {
		return nil, fmt.Errorf("DEVICE_NUMBERS is required but not set")
	}
	cfg.DeviceNumbers = splitCsv(deviceNumbers)

	cfg.SimNumbers = splitCsv(os.Getenv("SIM_NUMBERS"))

	autoSave := os.Getenv("AUTO_SAVE_MEDIA")
	if autoSave == "" {
		cfg.AutoSaveMedia = true
	} else {
		enabled, err := strconv.ParseBool(autoSave)
		if err != nil {
			return nil, fmt.Errorf("AUTO_SAVE_MEDIA must be a valid boolean: %w", err)
		}
		cfg.AutoSaveMedia = enabled
	}

	cfg.MediaStoragePath = os.Getenv("MEDIA_STORAGE_PATH")
	if cfg.MediaStoragePath == "" {
		cfg.MediaStoragePath = "./media"
	}

	cfg.PushGatewayURL = os.Getenv("PUSH_GATEWAY_URL")

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.APIKey = os.Getenv("API_KEY")
	cfg.AllowedOrigins = os.Getenv("ALLOWED_ORIGINS")
	cfg.AppEnv = os.Getenv("APP_ENV")
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	return cfg, nil
}

// LoadWithValidation loads and validates configuration, failing fast on errors
func LoadWithValidation() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProduction(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DatabaseURL cannot be empty")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("APIPort must be between 1 and 65535")
	}
	if c.MM4Port <= 0 || c.MM4Port > 65535 {
		return fmt.Errorf("MM4Port must be between 1 and 65535")
	}
	if len(c.DeviceNumbers) == 0 {
		return fmt.Errorf("DeviceNumbers cannot be empty")
	}
	if c.MediaStoragePath == "" {
		return fmt.Errorf("MediaStoragePath cannot be empty")
	}
	return nil
}

// ValidateProduction performs additional validation for production environment
func (c *Config) ValidateProduction() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required in production")
	}
	if c.AllowedOrigins == "" {
		return fmt.Errorf("ALLOWED_ORIGINS is required in production")
	}
	if strings.Contains(c.AllowedOrigins, "*") {
		return fmt.Errorf("wildcard (*) origins are not allowed in production")
	}
	return nil
}

// LogConfig logs configuration values (excluding secrets and phone numbers)
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.Int("api_port", c.APIPort),
		slog.Int("mm4_port", c.MM4Port),
		slog.Int("device_numbers", len(c.DeviceNumbers)),
		slog.Int("sim_slots", len(c.SimNumbers)),
		slog.Bool("auto_save_media", c.AutoSaveMedia),
		slog.String("media_storage_path", c.MediaStoragePath),
		slog.Bool("push_gateway_set", c.PushGatewayURL != ""),
		slog.String("log_level", c.LogLevel),
		slog.String("app_env", c.AppEnv),
		slog.Bool("api_key_set", c.APIKey != ""),
	)
}

func intEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}

func splitCsv(value string) []string {
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
