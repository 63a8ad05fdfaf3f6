package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/image-generation-api/internal/utils/platformerrors"
)

func writeProviderFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromEnvironment_Defaults(t *testing.T) {
	cfg, err := LoadFromEnvironment(map[string]string{
		"FAL_API_URL": "https://fal.run",
		"FAL_API_KEY": "secret-key",
	})
	require.NoError(t, err)

	assert.Equal(t, "image-generation-api", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 9091, cfg.MetricsPort)
	assert.Equal(t, "fal-ai/flux-pro/v1.1-ultra", cfg.FalModelID)
	assert.Equal(t, 120*time.Second, cfg.FalTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "full", cfg.LogPromptMode)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, ":9091", cfg.MetricsAddr())
}

func TestLoadFromEnvironment_MissingURLIsFatal(t *testing.T) {
	_, err := LoadFromEnvironment(map[string]string{"FAL_API_KEY": "secret-key"})
	require.Error(t, err)

	platformErr := platformerrors.GetPlatformError(err)
	require.NotNil(t, platformErr)
	assert.Equal(t, platformerrors.ErrorTypeConfiguration, platformErr.Type)
	assert.Equal(t, "FAL API URL is not configured", platformErr.Message)
}

func TestLoadFromEnvironment_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"relative url", "FAL_API_URL", "fal.run/models"},
		{"unsupported scheme", "FAL_API_URL", "ftp://fal.run"},
		{"zero timeout", "FAL_TIMEOUT", "0s"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"unknown prompt mode", "LOG_PROMPT_MODE", "verbose"},
		{"port out of range", "HTTP_PORT", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := map[string]string{"FAL_API_URL": "https://fal.run"}
			environ[tt.key] = tt.value

			_, err := LoadFromEnvironment(environ)
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConfiguration))
		})
	}
}

func TestLoadFromEnvironment_ProviderFile(t *testing.T) {
	path := writeProviderFile(t, `
fal:
  api_key: file-key
  api_url: https://queue.fal.run
  model_id: fal-ai/flux/dev
  timeout: 45s
`)

	cfg, err := LoadFromEnvironment(map[string]string{"FAL_CONFIG_FILE": path})
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.FalAPIKey)
	assert.Equal(t, "https://queue.fal.run", cfg.FalAPIURL)
	assert.Equal(t, "fal-ai/flux/dev", cfg.FalModelID)
	assert.Equal(t, 45*time.Second, cfg.FalTimeout)
}

func TestLoadFromEnvironment_EnvOverridesProviderFile(t *testing.T) {
	path := writeProviderFile(t, `
fal:
  api_key: file-key
  api_url: https://queue.fal.run
`)

	cfg, err := LoadFromEnvironment(map[string]string{
		"FAL_CONFIG_FILE": path,
		"FAL_API_URL":     "https://fal.run",
		"FAL_API_KEY":     "",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://fal.run", cfg.FalAPIURL)
	assert.Equal(t, "file-key", cfg.FalAPIKey, "empty env value must not mask the file value")
}

func TestLoadFromEnvironment_BadProviderFile(t *testing.T) {
	_, err := LoadFromEnvironment(map[string]string{
		"FAL_CONFIG_FILE": filepath.Join(t.TempDir(), "missing.yaml"),
		"FAL_API_URL":     "https://fal.run",
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConfiguration))

	path := writeProviderFile(t, "fal: [not, a, map]")
	_, err = LoadFromEnvironment(map[string]string{
		"FAL_CONFIG_FILE": path,
		"FAL_API_URL":     "https://fal.run",
	})
	require.Error(t, err)
}

func TestConfig_FalEndpoint(t *testing.T) {
	tests := []struct {
		baseURL  string
		modelID  string
		expected string
	}{
		{"https://fal.run", "fal-ai/flux-pro/v1.1-ultra", "https://fal.run/fal-ai/flux-pro/v1.1-ultra"},
		{"https://fal.run/", "/fal-ai/flux/dev", "https://fal.run/fal-ai/flux/dev"},
		{"https://fal.run", "", "https://fal.run"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			cfg := &Config{FalAPIURL: tt.baseURL, FalModelID: tt.modelID}
			assert.Equal(t, tt.expected, cfg.FalEndpoint())
		})
	}
}

func TestConfig_MetricsAddrDisabled(t *testing.T) {
	cfg := &Config{MetricsPort: 0}
	assert.Empty(t, cfg.MetricsAddr())
}
