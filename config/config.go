// Package config loads CLI defaults from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds run defaults; flags override every field.
type Config struct {
	Trials    int    `env:"SIM_TRIALS" envDefault:"1000"`
	Seed      uint64 `env:"SIM_SEED" envDefault:"0"`
	OutputDir string `env:"SIM_OUTPUT_DIR" envDefault:"results"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
