package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration shared by the CLI and the MCP server.
// Command-line flags override these values.
type Config struct {
	Games             int      `env:"COSMIC_GAMES" envDefault:"1000"`
	CatchErrors       bool     `env:"COSMIC_CATCH_ERRORS" envDefault:"true"`
	LogLevel          string   `env:"COSMIC_LOG_LEVEL" envDefault:"info"`
	LogFormat         string   `env:"COSMIC_LOG_FORMAT" envDefault:"console"`
	Roster            string   `env:"COSMIC_ROSTER"`
	Seed              int64    `env:"COSMIC_SEED"`
	ShowOutput        bool     `env:"COSMIC_SHOW_OUTPUT"`
	PerAllyCommitment bool     `env:"COSMIC_PER_ALLY_COMMITMENT"`
	MaxEncounters     int      `env:"COSMIC_MAX_ENCOUNTERS" envDefault:"2000"`
	Expansions        []string `env:"COSMIC_EXPANSIONS" envSeparator:","`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no simulation can run with.
func (c Config) Validate() error {
	if c.Games < 0 {
		return fmt.Errorf("games must be >= 0, got %d", c.Games)
	}
	if c.MaxEncounters < 0 {
		return fmt.Errorf("max encounters must be >= 0, got %d", c.MaxEncounters)
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", c.LogFormat)
	}
	return nil
}
