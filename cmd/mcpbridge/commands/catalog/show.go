package catalog

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/internal/catalog"
	"github.com/thoreinstein/mcpbridge/internal/errors"
)

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:     "show <name>",
	Short:   "Show a catalog entry",
	Example: `  mcpbridge catalog show postgres`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd.OutOrStdout(), args[0])
	},
}

func runShow(w io.Writer, name string) error {
	entry, err := lookup(name)
	if err != nil {
		return err
	}

	if showJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(entry), "encoding JSON")
	}
	describe(w, entry)
	return nil
}

func lookup(name string) (catalog.Entry, error) {
	entry, err := source().Get(name)
	if errors.Is(err, catalog.ErrNotFound) {
		return entry, errors.NewUserError(err, "Run: mcpbridge catalog search "+name)
	}
	return entry, err
}
