// Package config reads the environment defaults for the skanjo client.
//
// Values parsed here are the lowest-precedence layer: the CLI registers them
// as viper defaults, so a config file or flag still overrides them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultFeatureScopes are requested for a feature key when none are configured.
var DefaultFeatureScopes = []string{"analyze", "match"}

// Config holds settings that can be supplied through SKANJO_* variables.
type Config struct {
	APIBaseURL    string   `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
	FeatureScopes []string `env:"FEATURE_SCOPES" envDefault:"analyze,match" envSeparator:","`
	UserAgent     string   `env:"USER_AGENT"`

	Session Session `envPrefix:"SESSION_"`
	Admin   Admin   `envPrefix:"ADMIN_"`

	AnalyticsMaxRetries int           `env:"ANALYTICS_MAX_RETRIES" envDefault:"3"`
	AnalyticsRetryDelay time.Duration `env:"ANALYTICS_RETRY_DELAY" envDefault:"500ms"`

	Gemini Gemini `envPrefix:"GEMINI_"`
}

// Session selects where the logged-in identity is kept between runs.
type Session struct {
	Backend  string        `env:"BACKEND" envDefault:"file"`
	Dir      string        `env:"DIR"`
	RedisURL string        `env:"REDIS_URL"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"30m"`
}

type Admin struct {
	Username     string `env:"USERNAME"`
	PasswordFile string `env:"PASSWORD_FILE"`
}

type Gemini struct {
	Enabled    bool   `env:"ENABLED" envDefault:"false"`
	APIKeyFile string `env:"API_KEY_FILE"`
	Model      string `env:"MODEL" envDefault:"gemini-2.5-pro"`
	MaxRetries int    `env:"MAX_RETRIES" envDefault:"3"`
}

// Load parses SKANJO_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SKANJO_"}); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if cfg.Session.Dir == "" {
		cfg.Session.Dir = DefaultSessionDir()
	}
	if len(cfg.FeatureScopes) == 0 {
		cfg.FeatureScopes = append([]string(nil), DefaultFeatureScopes...)
	}

	return cfg, nil
}

// DefaultSessionDir is $XDG_CONFIG_HOME/skanjo (or the OS equivalent),
// falling back to .skanjo in the working directory.
func DefaultSessionDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".skanjo"
	}
	return filepath.Join(dir, "skanjo")
}
