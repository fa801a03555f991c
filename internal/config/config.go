package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr      = ":8080"
	DefaultWorkers   = 4
	DefaultTheme     = "dark"
	DefaultRateLimit = 5.0
	DefaultBurst     = 10
	DefaultPreset    = "loaded-triangle"
)

// Config holds shell settings. Analysis itself has no tunables beyond the
// structure.
type Config struct {
	Addr      string  `yaml:"addr"`
	Workers   int     `yaml:"workers"`
	Theme     string  `yaml:"theme"`
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
	Preset    string  `yaml:"preset"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:      DefaultAddr,
		Workers:   DefaultWorkers,
		Theme:     DefaultTheme,
		RateLimit: DefaultRateLimit,
		Burst:     DefaultBurst,
		Preset:    DefaultPreset,
	}
}

// Load reads shell settings from a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
