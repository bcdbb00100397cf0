package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skanjo/internal/config"
)

const (
	app = "skanjo"
)

type Config struct {
	APIBaseURL    string           `mapstructure:"api-base-url"`
	UserAgent     string           `mapstructure:"user-agent"`
	FeatureScopes []string         `mapstructure:"feature-scopes"`
	Session       *SessionConfig   `mapstructure:"session"`
	Admin         *AdminConfig     `mapstructure:"admin"`
	Analytics     *AnalyticsConfig `mapstructure:"analytics"`
	AI            *AIConfig        `mapstructure:"ai"`
}

type SessionConfig struct {
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	RedisURL string        `mapstructure:"redis-url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordFile string `mapstructure:"password-file"`
}

type AnalyticsConfig struct {
	MaxRetries int           `mapstructure:"max-retries"`
	RetryDelay time.Duration `mapstructure:"retry-delay"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skanjo is a cli for the Skanjo CV screening service",
		Long: "skanjo registers and logs in to the Skanjo backend, manages API and feature keys, " +
			"reports API usage and walks through the CV analysis wizard.",
		SilenceUsage: true,
	}
)

// Execute executes the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skanjo.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("api-base-url", "", "base URL of the Skanjo backend")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("api-base-url", rootCmd.PersistentFlags().Lookup("api-base-url"))
}

// loadConfig layers SKANJO_* environment defaults, the config file and bound
// flags into a Config. A missing default config file is not an error; a
// missing or broken explicit one is.
func loadConfig(v *viper.Viper, file string) (*Config, error) {
	env, err := config.Load()
	if err != nil {
		return nil, err
	}
	setDefaults(v, env)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg *Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, env *config.Config) {
	v.SetDefault("api-base-url", env.APIBaseURL)
	v.SetDefault("user-agent", env.UserAgent)
	v.SetDefault("feature-scopes", env.FeatureScopes)

	v.SetDefault("session.backend", env.Session.Backend)
	v.SetDefault("session.dir", env.Session.Dir)
	v.SetDefault("session.redis-url", env.Session.RedisURL)
	v.SetDefault("session.timeout", env.Session.Timeout)

	v.SetDefault("admin.username", env.Admin.Username)
	v.SetDefault("admin.password-file", env.Admin.PasswordFile)

	v.SetDefault("analytics.max-retries", env.AnalyticsMaxRetries)
	v.SetDefault("analytics.retry-delay", env.AnalyticsRetryDelay)

	v.SetDefault("ai.enabled", env.Gemini.Enabled)
	v.SetDefault("ai.gemini.api-key-file", env.Gemini.APIKeyFile)
	v.SetDefault("ai.gemini.model", env.Gemini.Model)
	v.SetDefault("ai.gemini.max-retries", env.Gemini.MaxRetries)
	v.SetDefault("ai.gemini.max-log-length", 0)
}

func getConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), cfgFile)
}
