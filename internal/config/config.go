package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	APIBaseURL         string   `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	HTTPTimeoutSeconds int      `env:"HTTP_TIMEOUT_SECONDS" envDefault:"15"`
	Locales            []string `env:"LOCALES" envDefault:"en,ar"`
	CredentialsPath    string   `env:"CREDENTIALS_PATH" envDefault:""`
	RedisURL           string   `env:"REDIS_URL" envDefault:""`
	HistoryDBPath      string   `env:"HISTORY_DB_PATH" envDefault:""`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// ResolveCredentialsPath returns the configured path, falling back to
// ~/.guessquest/credentials.json.
func (c *Config) ResolveCredentialsPath() (string, error) {
	if c.CredentialsPath != "" {
		return c.CredentialsPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".guessquest", "credentials.json"), nil
}

// ResolveHistoryDBPath returns the configured path, falling back to
// ~/.guessquest/history.db.
func (c *Config) ResolveHistoryDBPath() (string, error) {
	if c.HistoryDBPath != "" {
		return c.HistoryDBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".guessquest", "history.db"), nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTPTimeoutSeconds)
	}
	if len(c.Locales) == 0 {
		return fmt.Errorf("LOCALES must list at least one locale")
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
