package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/angelajfisher/conference-bridge/internal/types"
)

// Config holds the settings that may come from the YAML config file.
// Secrets are read from the environment, never from here.
type Config struct {
	BaseURL string       `yaml:"base_url"`
	Port    string       `yaml:"port"`
	DBPath  string       `yaml:"db_path"`
	Notify  NotifyConfig `yaml:"notify"`
}

type NotifyConfig struct {
	Kinds []string `yaml:"kinds"` // short names; empty means every kind
}

func DefaultConfig() Config {
	return Config{
		BaseURL: "/projects/conference-bridge",
		Port:    ":12345",
		DBPath:  "./.conference-bridge.sqlite3",
	}
}

// LoadConfig reads the config file at path over the defaults.
// A missing file or empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("could not read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config file: %w", err)
	}
	if _, err := cfg.NotifyKinds(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// NotifyKinds resolves notify.kinds to event kinds
func (c Config) NotifyKinds() ([]types.EventKind, error) {
	kinds := make([]types.EventKind, 0, len(c.Notify.Kinds))
	for i, name := range c.Notify.Kinds {
		kind, ok := types.KindFromShortName(name)
		if !ok {
			return nil, fmt.Errorf("notify.kinds[%d]: unknown event %q", i, name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
