package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_ISS", "")
	t.Setenv("JWT_AUD", "")
	t.Setenv("JWT_EXPIRY", "")

	cfg := Load()
	assert.Equal(t, "assettrack", cfg.JWTIssuer)
	assert.Equal(t, "assettrack", cfg.JWTAudience)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "environment-provided-secret-value-ok")
	t.Setenv("JWT_ISS", "issuer")
	t.Setenv("JWT_AUD", "audience")
	t.Setenv("JWT_EXPIRY", "2h")

	cfg := Load()
	assert.Equal(t, "environment-provided-secret-value-ok", cfg.JWTSecret)
	assert.Equal(t, "issuer", cfg.JWTIssuer)
	assert.Equal(t, "audience", cfg.JWTAudience)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
}

func TestValidate(t *testing.T) {
	valid := &Config{
		JWTSecret:   "a-valid-secret-with-enough-characters",
		JWTIssuer:   "assettrack",
		JWTAudience: "assettrack",
		JWTExpiry:   time.Hour,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "32 characters"},
		{"missing issuer", func(c *Config) { c.JWTIssuer = "" }, "JWT_ISS"},
		{"missing audience", func(c *Config) { c.JWTAudience = "" }, "JWT_AUD"},
		{"expiry too short", func(c *Config) { c.JWTExpiry = time.Second }, "at least one minute"},
		{"expiry too long", func(c *Config) { c.JWTExpiry = 31 * 24 * time.Hour }, "30 days"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := *valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	cfg := &Config{
		JWTSecret:   defaultSecret,
		JWTIssuer:   "assettrack",
		JWTAudience: "assettrack",
		JWTExpiry:   time.Hour,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "production")
}

func clearClientEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"STORE_URL", "STORE_KEY", "AUTH_URL", "ASSETTRACK_STATE_DIR", "ASSETTRACK_CONFIG"} {
		t.Setenv(key, "")
	}
}

func TestLoadClientFromYAML(t *testing.T) {
	clearClientEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"store_url: https://store.example.com\n"+
			"store_key: file-key\n"+
			"state_dir: /tmp/assettrack-test\n"), 0o600))
	t.Setenv("ASSETTRACK_CONFIG", path)

	cfg := LoadClient()
	assert.Equal(t, "https://store.example.com", cfg.StoreURL)
	assert.Equal(t, "file-key", cfg.StoreKey)
	assert.Equal(t, "/tmp/assettrack-test", cfg.StateDir)

	// The auth endpoint defaults to the store endpoint.
	assert.Equal(t, "https://store.example.com", cfg.AuthURL)
	assert.Empty(t, cfg.Warnings())
}

func TestLoadClientEnvironmentOverridesFile(t *testing.T) {
	clearClientEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_url: https://file.example.com\n"), 0o600))
	t.Setenv("ASSETTRACK_CONFIG", path)
	t.Setenv("STORE_URL", "https://env.example.com")
	t.Setenv("AUTH_URL", "https://auth.example.com")

	cfg := LoadClient()
	assert.Equal(t, "https://env.example.com", cfg.StoreURL)
	assert.Equal(t, "https://auth.example.com", cfg.AuthURL)
}

func TestLoadClientMissingValuesWarnButDoNotFail(t *testing.T) {
	clearClientEnv(t)
	t.Setenv("ASSETTRACK_CONFIG", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	cfg := LoadClient()
	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "STORE_URL")
	assert.Contains(t, warnings[1], "STORE_KEY")
}

func TestLoadClientMalformedFileIsIgnored(t *testing.T) {
	clearClientEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))
	t.Setenv("ASSETTRACK_CONFIG", path)
	t.Setenv("STORE_URL", "https://env.example.com")

	cfg := LoadClient()
	assert.Equal(t, "https://env.example.com", cfg.StoreURL)
}
