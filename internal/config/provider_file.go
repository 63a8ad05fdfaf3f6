package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// providerFileDocument is the YAML layout accepted by FAL_CONFIG_FILE:
//
//	fal:
//	  api_key: ...
//	  api_url: https://fal.run
//	  model_id: fal-ai/flux-pro/v1.1-ultra
//	  timeout: 90s
type providerFileDocument struct {
	Fal struct {
		APIKey  string `yaml:"api_key"`
		APIURL  string `yaml:"api_url"`
		ModelID string `yaml:"model_id"`
		Timeout string `yaml:"timeout"`
	} `yaml:"fal"`
}

// loadProviderFile reads the YAML file and returns its values keyed by env var name.
func loadProviderFile(path string) (map[string]string, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read provider config %q: %w", cleanPath, err)
	}

	var doc providerFileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse provider config %q: %w", cleanPath, err)
	}

	values := map[string]string{
		"FAL_API_KEY":  strings.TrimSpace(doc.Fal.APIKey),
		"FAL_API_URL":  strings.TrimSpace(doc.Fal.APIURL),
		"FAL_MODEL_ID": strings.TrimSpace(doc.Fal.ModelID),
		"FAL_TIMEOUT":  strings.TrimSpace(doc.Fal.Timeout),
	}
	for key, value := range values {
		if value == "" {
			delete(values, key)
		}
	}
	if len(values) == 0 {
		return nil, errors.New("provider config has no fal settings")
	}
	return values, nil
}
