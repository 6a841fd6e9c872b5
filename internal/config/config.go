// Package config loads addon server settings from the environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the addon server settings. TMDBAPIKey has no default
// and is not required at startup: a server without it still runs and
// answers every lookup with the configuration error entry.
type Config struct {
	Port        string `env:"PORT" env-default:"7000"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	TMDBAPIKey  string `env:"TMDB_API_KEY"`
	TMDBBaseURL string `env:"TMDB_BASE_URL" env-default:"https://api.themoviedb.org/3"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}
