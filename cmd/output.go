package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/skanjo/internal/skanjo"
	"github.com/spigell/skanjo/internal/utils"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printIdentity shows the account; the API key is masked unless showKey is set.
func printIdentity(w io.Writer, id *skanjo.Identity, showKey bool) error {
	key := utils.MaskSecret(id.APIKey)
	if showKey {
		key = id.APIKey
	}

	status := "inactive"
	if id.IsActive {
		status = "active"
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", id.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", id.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", id.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", id.Phone)
	fmt.Fprintf(tw, "Company:\t%s\n", id.CompanyName)
	fmt.Fprintf(tw, "Position:\t%s\n", id.Position)
	fmt.Fprintf(tw, "Status:\t%s\n", status)
	fmt.Fprintf(tw, "API key:\t%s\n", key)
	return tw.Flush()
}

func bullets(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}
