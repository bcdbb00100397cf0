package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/skanjo/internal/skanjo"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the account profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fill in the onboarding questionnaire",
	Long: "Send the onboarding questionnaire for the logged-in account. " +
		"Required answers not given as flags are prompted for.",
	Args: cobra.NoArgs,
	RunE: withApplication(runProfileUpdate),
}

var companySizes = []string{"1-10", "11-50", "51-200", "201-1000", "1000+"}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileUpdateCmd)

	f := profileUpdateCmd.Flags()
	f.String("industry", "", "industry")
	f.String("company-size", "", "company size: "+fmt.Sprint(companySizes))
	f.String("country", "", "country")
	f.String("job-title", "", "job title")
	f.String("website", "", "company website")
	f.String("linkedin", "", "LinkedIn profile URL")
	f.String("how-did-you-hear", "", "how you heard about Skanjo")
	f.String("interested-features", "", "features you are interested in")
	f.Bool("marketing-opt-in", false, "receive product news")
}

func runProfileUpdate(cmd *cobra.Command, _ []string, a *application) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	f := cmd.Flags()
	update := skanjo.ProfileUpdate{}
	update.Industry, _ = f.GetString("industry")
	update.CompanySize, _ = f.GetString("company-size")
	update.Country, _ = f.GetString("country")
	update.JobTitle, _ = f.GetString("job-title")
	update.Website, _ = f.GetString("website")
	update.LinkedInURL, _ = f.GetString("linkedin")
	update.HowDidYouHear, _ = f.GetString("how-did-you-hear")
	update.InterestedFeatures, _ = f.GetString("interested-features")
	update.MarketingOptIn, _ = f.GetBool("marketing-opt-in")

	if err := askIfEmpty(&update.Industry, "Industry"); err != nil {
		return err
	}
	if update.CompanySize == "" {
		if update.CompanySize, err = choose("Company size", companySizes); err != nil {
			return err
		}
	}
	if err := askIfEmpty(&update.Country, "Country"); err != nil {
		return err
	}
	if err := askIfEmpty(&update.JobTitle, "Job title"); err != nil {
		return err
	}

	resp, err := a.client.UpdateProfile(cmd.Context(), user.APIKey, update)
	if err != nil {
		return err
	}

	msg := resp.Message
	if msg == "" {
		msg = "Profile updated"
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
