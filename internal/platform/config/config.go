// Package config loads the server configuration from a YAML file. The file
// is the single source for wiring choices (listen address, archive backend,
// cache) and for the match setup (scenario, seed, seats); none of it is
// consulted again once the server is up.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Listen     string         `yaml:"listen"`
	ContentDir string         `yaml:"content_dir"`
	Match      MatchConfig    `yaml:"match"`
	Database   DatabaseConfig `yaml:"database"`
	Redis      RedisConfig    `yaml:"redis"`
}

// MatchConfig describes the single match this server instance hosts.
type MatchConfig struct {
	ID       string       `yaml:"id"`
	Scenario string       `yaml:"scenario"`
	Seed     int64        `yaml:"seed"`
	Players  []SeatConfig `yaml:"players"`
}

// SeatConfig is one seat at the table. Player ids are minted by the engine
// deterministically from the seat order and name.
type SeatConfig struct {
	Name   string `yaml:"name"`
	Colour string `yaml:"colour"`
}

// DatabaseConfig selects the event archive backend. Driver is "sqlite"
// (Path) or "postgres" (DSN).
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// RedisConfig configures the optional snapshot cache. An empty address
// disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:     ":8080",
		ContentDir: "data",
		Match: MatchConfig{
			ID:       "match-1",
			Scenario: "standard-run",
			Seed:     1,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "principia.db",
		},
	}
}

// Load reads and validates a configuration file. Missing fields keep their
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the invariants a running server depends on.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address is empty")
	}
	if c.ContentDir == "" {
		return fmt.Errorf("config: content_dir is empty")
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("config: database.path required for the sqlite driver")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("config: database.dsn required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if len(c.Match.Players) < 2 {
		return fmt.Errorf("config: a match needs at least 2 players, got %d", len(c.Match.Players))
	}
	seen := make(map[string]bool, len(c.Match.Players))
	for _, p := range c.Match.Players {
		if p.Name == "" {
			return fmt.Errorf("config: every player needs a name")
		}
		if seen[p.Name] {
			return fmt.Errorf("config: duplicate player name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
