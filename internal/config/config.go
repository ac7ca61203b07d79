package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration. Values come from an optional YAML
// file (CONFIG_FILE) overridden by environment variables.
type Config struct {
	DatabaseURL  string `yaml:"database_url"`
	ServerPort   string `yaml:"server_port"`
	FrontendURL  string `yaml:"frontend_url"`
	EnableHSTS   bool   `yaml:"enable_hsts"`
	RateLimit    string `yaml:"rate_limit"`
	DebugMode    bool   `yaml:"debug"`
	OTELEnabled  bool   `yaml:"otel_enabled"`
	OTELEndpoint string `yaml:"otel_endpoint"`
}

// Load loads configuration: defaults, then the YAML file if CONFIG_FILE is
// set, then environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  "8080",
		FrontendURL: "http://localhost:3000",
		RateLimit:   "20-S",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.RateLimit = getEnv("RATE_LIMIT", cfg.RateLimit)
	cfg.DebugMode = getEnvBool("DEBUG", cfg.DebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
