// Package config handles the backend URL, the XDG directory and runtime flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// DefaultBaseURL is used when TODO_API_BASE_URL is not set.
	DefaultBaseURL = "http://localhost:8080"

	// DebugLogFile is the TUI debug log filename.
	DebugLogFile = "debug.log"

	// EnvFile is the optional dotenv file read from the working directory.
	EnvFile = ".env"
)

// Config holds the resolved configuration.
type Config struct {
	// BaseURL is the backend root, without the /api/todos suffix.
	// Empty means DefaultBaseURL; see SetBaseURL.
	BaseURL string `env:"TODO_API_BASE_URL" yaml:"base_url"`

	// Timeout bounds each backend request.
	Timeout time.Duration `env:"TODO_API_TIMEOUT" env-default:"10s" yaml:"timeout"`

	// Dir is the configuration directory path.
	Dir string `yaml:"dir"`

	// Debug enables debug logging.
	Debug bool `yaml:"debug"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"quiet"`
}

// New creates a Config from the environment.
// A .env file in the working directory is loaded first if present; variables
// already set in the process environment win. If configDir is empty, uses
// XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	if err := loadEnvFile(EnvFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	cfg.Dir = configDir
	if cfg.Dir == "" {
		cfg.Dir = DefaultConfigDir()
	}

	if err := cfg.SetBaseURL(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("TODO_API_BASE_URL: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads path into the process environment. A missing file is not
// an error.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// SetBaseURL validates and stores a backend base URL.
// Trailing slashes are dropped so paths can be joined verbatim.
func (c *Config) SetBaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base url %q: missing host", raw)
	}
	c.BaseURL = strings.TrimRight(raw, "/")
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DebugLogPath returns the path of the TUI debug log.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.Dir, DebugLogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
