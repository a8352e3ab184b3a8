package catalog

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/internal/catalog"
	"github.com/thoreinstein/mcpbridge/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List catalog entries",
	Example: `  mcpbridge catalog list --json`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return outputEntries(cmd.OutOrStdout(), source().List(), listJSON)
	},
}

func outputEntries(w io.Writer, entries []catalog.Entry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(entries), "encoding JSON")
	}
	return outputTable(w, entries)
}
