package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the larder runtime configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	SQLite  SQLiteConfig  `yaml:"sqlite"`
	Log     LogConfig     `yaml:"log"`

	// ConfigPath is the file the values were read from (not serialized)
	ConfigPath string `yaml:"-"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	SessionIdleTTL  time.Duration `yaml:"session_idle_ttl"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	ActivityLimit   int           `yaml:"activity_limit"`
}

type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SearchPaths are tried in order when no explicit file is given.
var SearchPaths = []string{
	"larder.yaml",
	"configs/larder.yaml",
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			SessionIdleTTL:  2 * time.Hour,
			ShutdownTimeout: 5 * time.Second,
			ActivityLimit:   8,
		},
		Backend: BackendConfig{
			URL:     "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		SQLite: SQLiteConfig{
			Path: "larder.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path, or the first file found in SearchPaths when path is empty,
// over Default(), then applies environment overrides. A missing file is not an
// error unless path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	candidates := SearchPaths
	if strings.TrimSpace(path) != "" {
		candidates = []string{path}
	}
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == "" {
				continue
			}
			return nil, fmt.Errorf("read config %s: %w", candidate, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", candidate, err)
		}
		cfg.ConfigPath = candidate
		break
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getenv("APP_ADDR", c.Server.Addr)
	c.Backend.URL = getenv("BACKEND_URL", c.Backend.URL)
	c.SQLite.Path = getenv("SQLITE_PATH", c.SQLite.Path)
	c.Log.Level = getenv("LOG_LEVEL", c.Log.Level)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.URL) == "" {
		return fmt.Errorf("backend url is required")
	}
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("backend url must be http(s): %q", c.Backend.URL)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps the configured level name onto slog.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// Save writes the configuration as yaml.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
