package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/usage"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Report API usage of the logged-in account",
	Long: "Fetch the recorded API calls of the logged-in account and report calls, " +
		"errors and health per endpoint.",
	Args: cobra.NoArgs,
	RunE: withApplication(runAnalytics),
}

func init() {
	rootCmd.AddCommand(analyticsCmd)

	analyticsCmd.Flags().String("endpoint", "", "only calls to this endpoint")
	analyticsCmd.Flags().Bool("errors-only", false, "only failed calls")
	analyticsCmd.Flags().String("since", "", "only calls after this time (RFC3339, YYYY-MM-DD or a duration like 24h)")
	analyticsCmd.Flags().Bool("output-json", false, "print the report as JSON")
}

func runAnalytics(cmd *cobra.Command, _ []string, a *application) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	f := cmd.Flags()
	endpoint, _ := f.GetString("endpoint")
	errorsOnly, _ := f.GetBool("errors-only")
	sinceRaw, _ := f.GetString("since")
	asJSON, _ := f.GetBool("output-json")

	since, err := parseSince(sinceRaw, time.Now())
	if err != nil {
		return err
	}

	records, err := a.client.FetchAnalytics(cmd.Context(), user.APIKey)
	if err != nil {
		return err
	}

	a.logger.Info("fetched analytics", zap.Int("count", len(records)))

	filters := []usage.Filter{
		usage.NewEndpoint(endpoint),
		usage.NewErrorsOnly(errorsOnly),
		usage.NewSince(since, a.logger),
	}

	records, err = usage.Run(cmd.Context(), a.logger, filters, records)
	if err != nil {
		return fmt.Errorf("filtering analytics: %w", err)
	}

	summary := usage.Report(records)
	if asJSON {
		return printJSON(cmd.OutOrStdout(), summary)
	}
	return printSummary(cmd.OutOrStdout(), summary)
}

// parseSince accepts an absolute time or a duration counted back from now.
// An empty value means no lower bound.
func parseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			d = -d
		}
		return now.Add(-d), nil
	}

	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid --since value %q: want RFC3339, YYYY-MM-DD or a duration", s)
}

func printSummary(w io.Writer, summary usage.Summary) error {
	if summary.Calls == 0 {
		_, err := fmt.Fprintln(w, "No API calls recorded.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ENDPOINT\tCALLS\tERRORS\tERROR RATE\tSTATUS")
	for _, e := range summary.Endpoints {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\t%s\n", e.Endpoint, e.Calls, e.Errors, e.Rate*100, e.Status)
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t\t\n", summary.Calls, summary.Errors)
	return tw.Flush()
}
