package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/janhq/image-generation-api/internal/utils/platformerrors"
	"github.com/janhq/image-generation-api/pkg/telemetry"
)

// Config holds the environment driven configuration for the image generation service.
type Config struct {
	ServiceName        string        `env:"SERVICE_NAME" envDefault:"image-generation-api"`
	Environment        string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort           int           `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort        int           `env:"METRICS_PORT" envDefault:"9091"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string        `env:"LOG_FORMAT" envDefault:"console"`
	LogPromptMode      string        `env:"LOG_PROMPT_MODE" envDefault:"full"`
	EnableTracing      bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint       string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	EnableSwagger      bool          `env:"ENABLE_SWAGGER" envDefault:"true"`

	// FAL.ai provider
	FalConfigFile string        `env:"FAL_CONFIG_FILE"`
	FalAPIKey     string        `env:"FAL_API_KEY"`
	FalAPIURL     string        `env:"FAL_API_URL"`
	FalModelID    string        `env:"FAL_MODEL_ID" envDefault:"fal-ai/flux-pro/v1.1-ultra"`
	FalTimeout    time.Duration `env:"FAL_TIMEOUT" envDefault:"120s"`
}

// Load parses the process environment into Config.
//
// Configuration Loading Order (highest to lowest priority):
// 1. Environment variables (including values loaded from .env files)
// 2. YAML provider file referenced by FAL_CONFIG_FILE (if set)
// 3. Default values from struct tags
func Load() (*Config, error) {
	return LoadFromEnvironment(env.ToMap(os.Environ()))
}

// LoadFromEnvironment is Load with an explicit environment, used by tests.
func LoadFromEnvironment(environ map[string]string) (*Config, error) {
	merged := make(map[string]string)

	if path := strings.TrimSpace(environ["FAL_CONFIG_FILE"]); path != "" {
		fileValues, err := loadProviderFile(path)
		if err != nil {
			return nil, platformerrors.NewConfigurationError("load FAL_CONFIG_FILE", err)
		}
		for key, value := range fileValues {
			merged[key] = value
		}
	}

	for key, value := range environ {
		// Empty variables (e.g. "FAL_API_KEY=" in .env) do not mask file values.
		if _, fromFile := merged[key]; fromFile && value == "" {
			continue
		}
		merged[key] = value
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: merged}); err != nil {
		return nil, platformerrors.NewConfigurationError("parse env config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	c.FalAPIURL = strings.TrimSpace(c.FalAPIURL)
	c.FalModelID = strings.TrimSpace(c.FalModelID)

	if c.FalAPIURL == "" {
		return platformerrors.NewConfigurationError("FAL API URL is not configured", nil)
	}
	parsed, err := url.ParseRequestURI(c.FalAPIURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return platformerrors.NewConfigurationError(fmt.Sprintf("FAL_API_URL %q must be an absolute http(s) URL", c.FalAPIURL), err)
	}
	if c.FalTimeout <= 0 {
		return platformerrors.NewConfigurationError("FAL_TIMEOUT must be positive", nil)
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return platformerrors.NewConfigurationError("HTTP_PORT must be between 1 and 65535", nil)
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return platformerrors.NewConfigurationError("METRICS_PORT must be between 0 and 65535", nil)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return platformerrors.NewConfigurationError(fmt.Sprintf("unsupported LOG_FORMAT %q", c.LogFormat), nil)
	}
	if _, err := telemetry.ParsePromptMode(c.LogPromptMode); err != nil {
		return platformerrors.NewConfigurationError("invalid LOG_PROMPT_MODE", err)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// MetricsAddr returns the prometheus listen address, empty when disabled.
func (c *Config) MetricsAddr() string {
	if c.MetricsPort == 0 {
		return ""
	}
	return fmt.Sprintf(":%d", c.MetricsPort)
}

// FalEndpoint returns <FAL_API_URL>/<FAL_MODEL_ID> without duplicate slashes.
func (c *Config) FalEndpoint() string {
	base := strings.TrimRight(c.FalAPIURL, "/")
	model := strings.Trim(c.FalModelID, "/")
	if model == "" {
		return base
	}
	return base + "/" + model
}
