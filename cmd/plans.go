package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spigell/skanjo/internal/skanjo"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List subscription plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printPlans(cmd.OutOrStdout(), skanjo.Plans)
	},
}

func init() {
	rootCmd.AddCommand(plansCmd)
}

func printPlans(w io.Writer, plans []skanjo.Plan) error {
	for _, p := range plans {
		title := fmt.Sprintf("%s (%s) %s%s", p.Name, p.ID, p.Price, p.Period)
		if p.Popular {
			title += "  * most popular"
		}
		heading(w, title)
		fmt.Fprintln(w, p.Description)
		bullets(w, p.Features)
		if len(p.Limitations) > 0 {
			fmt.Fprintln(w, "Limitations:")
			bullets(w, p.Limitations)
		}
	}
	return nil
}
