package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/v1", cfg.Client.BaseURL)
	assert.Equal(t, "/login", cfg.Client.LoginURL)
	assert.Equal(t, "csrftoken", cfg.Client.CSRFCookieName)
	assert.Equal(t, "X-CSRFToken", cfg.Client.CSRFHeaderName)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, []int{1, 38}, cfg.Client.FallbackUserIDs)
	assert.False(t, cfg.Client.DegradeOnError)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Second, cfg.DevBackend.HistoryDelay)
	assert.Equal(t, ".", cfg.CLI.ExportDir)
	assert.Error(t, cfg.ValidateCLI())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_BASE_URL", "https://annotate.example.com/v1")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("ANNOTATION_FALLBACK_USER_IDS", "9,10")
	t.Setenv("ANNOTATION_DEGRADE_ON_ERROR", "true")
	t.Setenv("APP_ENV", "prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://annotate.example.com/v1", cfg.Client.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, []int{9, 10}, cfg.Client.FallbackUserIDs)
	assert.True(t, cfg.Client.DegradeOnError)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_EmptyFallbackDisablesIt(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ANNOTATION_FALLBACK_USER_IDS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Client.FallbackUserIDs)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateDevBackend(t *testing.T) {
	cfg := &Config{AppEnv: "dev", DevBackend: DevBackendConfig{BcryptCost: 10, AdminPassword: "password"}}
	assert.Error(t, cfg.ValidateDevBackend(), "secret is required")

	cfg.DevBackend.SessionSecret = "s3cret"
	assert.NoError(t, cfg.ValidateDevBackend())

	cfg.AppEnv = PROD_STRING
	assert.Error(t, cfg.ValidateDevBackend(), "default admin password rejected in prod")

	cfg.DevBackend.AdminPassword = "long-random"
	cfg.DevBackend.BcryptCost = 2
	assert.Error(t, cfg.ValidateDevBackend())
}

func TestValidateCLI(t *testing.T) {
	cfg := &Config{CLI: CLIConfig{Username: "ana"}}
	assert.Error(t, cfg.ValidateCLI())

	cfg.CLI.Password = "pw"
	assert.NoError(t, cfg.ValidateCLI())
}
