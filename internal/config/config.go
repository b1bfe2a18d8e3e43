package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config holds the store server configuration
type Config struct {
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTExpiry   time.Duration
}

func Load() *Config {
	config := &Config{
		JWTSecret:   getEnv("JWT_SECRET", defaultSecret),
		JWTIssuer:   getEnv("JWT_ISS", "assettrack"),
		JWTAudience: getEnv("JWT_AUD", "assettrack"),
		JWTExpiry:   24 * time.Hour, // Default to 24 hours
	}

	// Parse JWT expiry from environment if provided
	if expiryStr := os.Getenv("JWT_EXPIRY"); expiryStr != "" {
		if expiry, err := time.ParseDuration(expiryStr); err == nil {
			config.JWTExpiry = expiry
		}
	}

	return config
}

// Validate checks the configuration for values that would produce
// broken or insecure tokens.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if os.Getenv("ENVIRONMENT") == "production" && c.JWTSecret == defaultSecret {
		return fmt.Errorf("JWT_SECRET must be changed from the default in production")
	}
	if c.JWTIssuer == "" {
		return fmt.Errorf("JWT_ISS is required")
	}
	if c.JWTAudience == "" {
		return fmt.Errorf("JWT_AUD is required")
	}
	if c.JWTExpiry < time.Minute {
		return fmt.Errorf("JWT_EXPIRY must be at least one minute")
	}
	if c.JWTExpiry > 30*24*time.Hour {
		return fmt.Errorf("JWT_EXPIRY must not exceed 30 days")
	}
	return nil
}

// LoadAndValidate loads the server configuration and validates it
func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Client holds the connection parameters for the remote store as used
// by the CLI and the client libraries. Values come from an optional
// YAML file overridden by environment variables.
type Client struct {
	StoreURL string `yaml:"store_url"`
	StoreKey string `yaml:"store_key"`
	AuthURL  string `yaml:"auth_url"`
	StateDir string `yaml:"state_dir"`
}

// LoadClient reads the client configuration. A missing or partial
// configuration is not an error here; data operations against a
// misconfigured store fail at call time instead.
func LoadClient() *Client {
	c := &Client{}

	if path := clientConfigPath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			// A malformed file is treated the same as an absent one.
			_ = yaml.Unmarshal(data, c)
		}
	}

	c.StoreURL = getEnv("STORE_URL", c.StoreURL)
	c.StoreKey = getEnv("STORE_KEY", c.StoreKey)
	c.AuthURL = getEnv("AUTH_URL", c.AuthURL)
	c.StateDir = getEnv("ASSETTRACK_STATE_DIR", c.StateDir)

	if c.AuthURL == "" {
		c.AuthURL = c.StoreURL
	}
	if c.StateDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			c.StateDir = filepath.Join(dir, "assettrack")
		}
	}
	return c
}

// Warnings reports startup-time configuration problems. These are
// logged, never fatal.
func (c *Client) Warnings() []string {
	var warnings []string
	if c.StoreURL == "" {
		warnings = append(warnings, "STORE_URL is not set; data operations will fail")
	}
	if c.StoreKey == "" {
		warnings = append(warnings, "STORE_KEY is not set; data operations will fail")
	}
	return warnings
}

func clientConfigPath() string {
	if path := os.Getenv("ASSETTRACK_CONFIG"); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "assettrack", "config.yaml")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
