package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/logger"
	"github.com/spigell/skanjo/internal/skanjo"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a Skanjo account and log in",
	Long:  "Create a Skanjo account. Values not given as flags are prompted for.",
	Args:  cobra.NoArgs,
	RunE:  withApplication(runRegister),
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an existing account",
	Args:  cobra.NoArgs,
	RunE:  withApplication(runLogin),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Args:  cobra.NoArgs,
	RunE:  withApplication(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
	RunE:  withApplication(runWhoami),
}

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)

	registerCmd.Flags().String("name", "", "full name")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("phone", "", "phone number (at least 10 characters)")
	registerCmd.Flags().String("company", "", "company name")
	registerCmd.Flags().String("position", "", "position in the company")
	registerCmd.Flags().String("password-file", "", "read the password from a file instead of prompting")

	loginCmd.Flags().String("email", "", "email address")
	loginCmd.Flags().String("password-file", "", "read the password from a file instead of prompting")

	whoamiCmd.Flags().Bool("show-key", false, "print the full API key")
}

func runRegister(cmd *cobra.Command, _ []string, a *application) error {
	flags := cmd.Flags()
	req := skanjo.RegisterRequest{}
	req.Name, _ = flags.GetString("name")
	req.Email, _ = flags.GetString("email")
	req.Phone, _ = flags.GetString("phone")
	req.CompanyName, _ = flags.GetString("company")
	req.Position, _ = flags.GetString("position")

	for _, f := range []struct {
		value *string
		label string
	}{
		{&req.Name, "Full name"},
		{&req.Email, "Email"},
		{&req.Phone, "Phone"},
		{&req.CompanyName, "Company name"},
		{&req.Position, "Position"},
	} {
		if err := askIfEmpty(f.value, f.label); err != nil {
			return err
		}
	}

	passwordFile, _ := flags.GetString("password-file")
	pass, err := password("account password", passwordFile)
	if err != nil {
		return err
	}
	req.Password = pass

	identity, err := a.client.RegisterUser(cmd.Context(), req)
	if err != nil {
		return err
	}

	a.store.Login(cmd.Context(), *identity)

	a.logger.Info("registered", logger.StringFields(logger.StringField{Key: logger.FieldEmail, Value: identity.Email})...)
	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are logged in.\n", identity.Name)
	return nil
}

func runLogin(cmd *cobra.Command, _ []string, a *application) error {
	flags := cmd.Flags()
	req := skanjo.LoginRequest{}
	req.Email, _ = flags.GetString("email")

	if err := askIfEmpty(&req.Email, "Email"); err != nil {
		return err
	}

	passwordFile, _ := flags.GetString("password-file")
	pass, err := password("account password", passwordFile)
	if err != nil {
		return err
	}
	req.Password = pass

	identity, err := a.client.LoginUser(cmd.Context(), req)
	if err != nil {
		return err
	}

	a.store.Login(cmd.Context(), *identity)

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>.\n", identity.Name, identity.Email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string, a *application) error {
	if !a.store.IsAuthenticated() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}

	a.store.Logout(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string, a *application) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	showKey, _ := cmd.Flags().GetBool("show-key")
	a.logger.Debug("current session", zap.Stringer("state", a.store.State()))

	return printIdentity(cmd.OutOrStdout(), user, showKey)
}
