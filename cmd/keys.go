package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/secrets"
	"github.com/spigell/skanjo/internal/skanjo"
	"github.com/spigell/skanjo/internal/utils"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Issue API and feature keys",
}

var keysAPICmd = &cobra.Command{
	Use:   "api",
	Short: "Issue an API key for a client email (admin)",
	Long: "Issue an API key for a client email. Requires admin credentials: " +
		"admin.username and admin.password-file in the config, or SKANJO_ADMIN_PASSWORD.",
	Args: cobra.NoArgs,
	RunE: withApplication(runKeysAPI),
}

var keysFeatureCmd = &cobra.Command{
	Use:   "feature",
	Short: "Issue a feature key for a subscription plan",
	Args:  cobra.NoArgs,
	RunE:  withApplication(runKeysFeature),
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysAPICmd, keysFeatureCmd)

	keysAPICmd.Flags().String("email", "", "client email")
	keysAPICmd.Flags().String("admin-username", "", "admin username (overrides admin.username)")

	keysFeatureCmd.Flags().String("plan", "", "plan: "+strings.Join(skanjo.PlanIDs(), ", "))
	keysFeatureCmd.Flags().StringSlice("scopes", nil, "comma separated scopes (default from feature-scopes)")
}

func runKeysAPI(cmd *cobra.Command, _ []string, a *application) error {
	email, _ := cmd.Flags().GetString("email")
	if err := askIfEmpty(&email, "Client email"); err != nil {
		return err
	}

	username, _ := cmd.Flags().GetString("admin-username")
	if username == "" && a.cfg.Admin != nil {
		username = a.cfg.Admin.Username
	}

	passwordFile := ""
	if a.cfg.Admin != nil {
		passwordFile = a.cfg.Admin.PasswordFile
	}

	creds, err := secrets.LoadCredentials("admin", username, secrets.Source{
		File: passwordFile,
		Env:  "SKANJO_ADMIN_PASSWORD",
	})
	if err != nil {
		return fmt.Errorf("%w (set admin.username and admin.password-file)", err)
	}

	resp, err := a.client.CreateAPIKey(cmd.Context(), skanjo.APIKeyRequest{
		Email:         email,
		AdminUsername: creds.Username,
		AdminPassword: creds.Password,
	})
	if err != nil {
		return err
	}

	a.logger.Info("api key created",
		zap.String("client_email", email),
		zap.String("api_key", utils.MaskSecret(resp.APIKey)),
	)

	if resp.Message != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), resp.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.APIKey)
	return nil
}

func runKeysFeature(cmd *cobra.Command, _ []string, a *application) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	planName, _ := cmd.Flags().GetString("plan")
	if planName == "" {
		if planName, err = choose("Plan", skanjo.PlanIDs()); err != nil {
			return err
		}
	}

	plan, err := skanjo.FindPlan(planName)
	if err != nil {
		return fmt.Errorf("%w (choose one of %s)", err, strings.Join(skanjo.PlanIDs(), ", "))
	}

	scopes, _ := cmd.Flags().GetStringSlice("scopes")
	if len(scopes) == 0 {
		scopes = a.cfg.FeatureScopes
	}

	resp, err := a.client.CreateFeatureKey(cmd.Context(), user.APIKey, plan.ID, scopes)
	if err != nil {
		return err
	}

	a.logger.Info("feature key created",
		zap.String("plan", plan.ID),
		zap.Strings("scopes", scopes),
		zap.String("feature_key", utils.MaskSecret(resp.FeatureKey)),
	)

	if resp.Message != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), resp.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.FeatureKey)
	return nil
}
