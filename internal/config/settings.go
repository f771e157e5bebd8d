package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var ErrInvalidSettings = errors.New("invalid settings")

const defaultTemperature = 0.7

// Settings mirrors config/settings.yaml.
type Settings struct {
	AI AISettings `mapstructure:"ai"`
}

type AISettings struct {
	DefaultProvider string            `mapstructure:"default_provider"`
	Models          map[string]string `mapstructure:"models"`
	Temperature     float32           `mapstructure:"temperature"`
}

// Model returns the model configured for the default provider.
func (s *AISettings) Model() string {
	return s.Models[s.DefaultProvider]
}

// LoadSettings reads the provider settings file. AI_DEFAULT_PROVIDER and
// AI_TEMPERATURE override the file values.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("ai.temperature", defaultTemperature)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	settings.AI.DefaultProvider = strings.ToLower(strings.TrimSpace(settings.AI.DefaultProvider))
	if settings.AI.DefaultProvider == "" {
		return nil, fmt.Errorf("%w: ai.default_provider is required", ErrInvalidSettings)
	}

	if strings.TrimSpace(settings.AI.Model()) == "" {
		return nil, fmt.Errorf("%w: no model configured for provider %q", ErrInvalidSettings, settings.AI.DefaultProvider)
	}

	return &settings, nil
}
