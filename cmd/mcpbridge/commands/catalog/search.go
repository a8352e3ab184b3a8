package catalog

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	searchJSON        bool
	searchInteractive bool
)

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false,
		"pick a result with a fuzzy finder and show its details")
	Cmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog",
	Long: `Search catalog entries by name, package and description.

The search is case-insensitive. Results are sorted by match quality: exact
name matches first, then name prefix matches, then name substring matches,
then package matches, then description-only matches.

If no query is provided, all entries are listed.`,
	Example: `  # Search for entries containing "git"
  mcpbridge catalog search git

  # Browse interactively
  mcpbridge catalog search -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var query string
		if len(args) > 0 {
			query = args[0]
		}
		return runSearch(cmd.OutOrStdout(), query)
	},
}

func runSearch(w io.Writer, query string) error {
	results := source().Search(query)
	if len(results) == 0 {
		fmt.Fprintf(w, "No catalog entries found matching %q\n", query)
		return nil
	}

	if searchInteractive {
		entry, ok, err := pick(results)
		if err != nil || !ok {
			return err
		}
		describe(w, entry)
		return nil
	}
	return outputEntries(w, results, searchJSON)
}

// pick lets the user choose one of entries. ok is false when the user
// aborted. Tests replace it.
var pick = pickInteractive
