package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAddr              = ":8080"
	defaultDatabasePath      = "quizdeck.db"
	defaultReadHeaderTimeout = 5 * time.Second
	defaultSessionTTL        = 7 * 24 * time.Hour
	defaultResetTokenTTL     = 15 * time.Minute
)

type Config struct {
	Server struct {
		Addr              string        `yaml:"addr"`
		BaseURL           string        `yaml:"base_url"`
		ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Auth struct {
		SessionTTL    time.Duration `yaml:"session_ttl"`
		ResetTokenTTL time.Duration `yaml:"reset_token_ttl"`
	} `yaml:"auth"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = defaultAddr
	cfg.Server.BaseURL = "http://localhost:8080"
	cfg.Server.ReadHeaderTimeout = defaultReadHeaderTimeout
	cfg.Database.Path = defaultDatabasePath
	cfg.Auth.SessionTTL = defaultSessionTTL
	cfg.Auth.ResetTokenTTL = defaultResetTokenTTL
	return cfg
}

// Load reads a YAML config file on top of the defaults. Missing keys keep
// their default values so partial files stay valid.
func Load(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDatabasePath
	}
	if cfg.Server.ReadHeaderTimeout <= 0 {
		cfg.Server.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if cfg.Auth.SessionTTL <= 0 {
		cfg.Auth.SessionTTL = defaultSessionTTL
	}
	if cfg.Auth.ResetTokenTTL <= 0 {
		cfg.Auth.ResetTokenTTL = defaultResetTokenTTL
	}
	return cfg, nil
}
