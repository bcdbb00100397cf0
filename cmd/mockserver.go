package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/logger"
	"github.com/spigell/skanjo/internal/mockserver"
	"github.com/spigell/skanjo/internal/secrets"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run an in-memory Skanjo backend",
	Long: "Run an in-memory Skanjo backend for local use. Admin endpoints are enabled " +
		"when admin.username and an admin password are configured.",
	Args: cobra.NoArgs,
	RunE: runMockServer,
}

func init() {
	rootCmd.AddCommand(mockServerCmd)

	mockServerCmd.Flags().String("addr", "127.0.0.1:8000", "listen address")
	mockServerCmd.Flags().Float64("rate-limit", 10, "requests per second per API key, 0 disables the limit")
	mockServerCmd.Flags().Int("burst", 20, "rate limit burst per API key")
}

func runMockServer(cmd *cobra.Command, _ []string) error {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer log.Sync()

	cfg, err := getConfig()
	if err != nil {
		return err
	}

	opts := mockserver.Options{Logger: log}
	opts.RateLimit, _ = cmd.Flags().GetFloat64("rate-limit")
	opts.Burst, _ = cmd.Flags().GetInt("burst")

	if cfg.Admin != nil && cfg.Admin.Username != "" {
		creds, err := secrets.LoadCredentials("admin", cfg.Admin.Username, secrets.Source{
			File: cfg.Admin.PasswordFile,
			Env:  "SKANJO_ADMIN_PASSWORD",
		})
		if err != nil {
			log.Warn("admin endpoints disabled", zap.Error(err))
		} else {
			opts.AdminUsername = creds.Username
			opts.AdminPassword = creds.Password
		}
	}

	addr, _ := cmd.Flags().GetString("addr")
	return mockserver.New(opts).ListenAndServe(cmd.Context(), addr)
}
