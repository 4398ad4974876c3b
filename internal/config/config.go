package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Transport TransportConfig `yaml:"transport"`
	Presence  PresenceConfig  `yaml:"presence"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

// PresenceConfig controls the optional background reaper that deletes stale
// presence rows. Reads never depend on it; zero disables it.
type PresenceConfig struct {
	ReapInterval time.Duration `yaml:"reap_interval"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "padsync.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
	}

	if path := os.Getenv("PADSYNC_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("PADSYNC_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PADSYNC_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PADSYNC_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("PADSYNC_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("PADSYNC_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if auth := os.Getenv("PADSYNC_AUTH_ENABLED"); auth != "" {
		enabled, err := strconv.ParseBool(auth)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PADSYNC_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if mode := os.Getenv("PADSYNC_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if interval := os.Getenv("PADSYNC_PRESENCE_REAP_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PADSYNC_PRESENCE_REAP_INTERVAL: %w", err)
		}
		cfg.Presence.ReapInterval = d
	}

	if cfg.Transport.Mode != "stdio" && cfg.Transport.Mode != "http" {
		return Config{}, fmt.Errorf("invalid transport mode %q", cfg.Transport.Mode)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
