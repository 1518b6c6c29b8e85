package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DEVICE_NUMBERS", "15551234567")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "smshub.db", cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, 2566, cfg.MM4Port)
	assert.Equal(t, []string{"15551234567"}, cfg.DeviceNumbers)
	assert.Empty(t, cfg.SimNumbers)
	assert.True(t, cfg.AutoSaveMedia)
	assert.Equal(t, "./media", cfg.MediaStoragePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.AppEnv)
}

func TestLoad_DeviceNumbersRequired(t *testing.T) {
	t.Setenv("DEVICE_NUMBERS", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MultipleNumbers(t *testing.T) {
	t.Setenv("DEVICE_NUMBERS", "15551234567, 15559876543")
	t.Setenv("SIM_NUMBERS", "15551234567")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"15551234567", "15559876543"}, cfg.DeviceNumbers)
	assert.Equal(t, []string{"15551234567"}, cfg.SimNumbers)
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_AutoSaveMediaDisabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTO_SAVE_MEDIA", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AutoSaveMedia)
}

func TestLoad_InvalidAutoSaveMedia(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTO_SAVE_MEDIA", "maybe")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_PortBounds(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	cfg.APIPort = 0
	assert.Error(t, cfg.Validate())

	cfg.APIPort = 8080
	cfg.MM4Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestValidateProduction(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	// No API key
	assert.Error(t, cfg.ValidateProduction())

	cfg.APIKey = "secret"
	cfg.AllowedOrigins = "https://app.example.com"
	assert.NoError(t, cfg.ValidateProduction())

	// Wildcard origins are refused in production
	cfg.AllowedOrigins = "*"
	assert.Error(t, cfg.ValidateProduction())
}

func TestLoadWithValidation_Production(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_KEY", "secret")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com")

	cfg, err := LoadWithValidation()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.AppEnv)
}
