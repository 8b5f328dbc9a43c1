package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the demo binary's on-disk configuration: everything Options
// needs to dial and authenticate, plus how verbosely to log the exchange.
// A real application embedding pgwire has no equivalent of this file — the
// core package takes no persisted configuration of its own, only the
// Options a caller builds however it likes.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	TLSMode  string `yaml:"tls_mode"` // "disable", "prefer", "require"
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LoadConfig reads configPath (if non-empty and present) over a set of
// defaults, then lets PGWIRE_* environment variables override individual
// fields — the same layering cmd/pgtest used, with the proxy-only fields
// (listen port, keepalive interval) dropped since this binary only ever
// dials out.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "postgres",
			User:     "postgres",
			TLSMode:  "prefer",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("pgwiredemo: parsing %s: %w", configPath, err)
			}
		}
	}

	loadFromEnv(cfg)

	if cfg.Postgres.Host == "" {
		return nil, fmt.Errorf("pgwiredemo: postgres host is required")
	}
	if cfg.Postgres.User == "" {
		return nil, fmt.Errorf("pgwiredemo: postgres user is required")
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("PGWIRE_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("PGWIRE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = p
		}
	}
	if v := os.Getenv("PGWIRE_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("PGWIRE_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("PGWIRE_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("PGWIRE_TLS_MODE"); v != "" {
		cfg.Postgres.TLSMode = v
	}
	if v := os.Getenv("PGWIRE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PGWIRE_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}
