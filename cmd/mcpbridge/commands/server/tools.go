package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/internal/bridge"
	"github.com/thoreinstein/mcpbridge/internal/errors"
)

var toolsJSON bool

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "Output in JSON format, including input schemas")
	Cmd.AddCommand(toolsCmd)
}

var toolsCmd = &cobra.Command{
	Use:   "tools <name>",
	Short: "List the tools a server exposes",
	Long: `Connect to a server and list the tools it advertises.

A server whose tool listing fails still connects; the failure is reported
as a warning and the list is empty.`,
	Example: `  # List tools
  mcpbridge server tools github

  # Include input schemas
  mcpbridge server tools github --json

  See Also:
    mcpbridge server call    - Call a tool`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTools(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), newManager(cmd.Context()), args[0])
	},
}

func runTools(ctx context.Context, w, stderr io.Writer, mgr *bridge.Manager, name string) error {
	if err := mgr.Connect(ctx, name); err != nil {
		return err
	}
	defer mgr.Disconnect(name)

	if st, ok := mgr.Status(name); ok && !st.Healthy() {
		fmt.Fprintf(stderr, "%s %v\n", color.YellowString("Warning:"), st.DiscoveryErr)
	}

	tools := mgr.Tools(name)
	if toolsJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(tools), "encoding JSON")
	}

	if len(tools) == 0 {
		fmt.Fprintf(w, "Server %q exposes no tools\n", name)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sTOOL%s\t%sDESCRIPTION%s\n", colorBold, colorReset, colorBold, colorReset)
	for _, t := range tools {
		fmt.Fprintf(tw, "%s%s%s\t%s\n", colorGreen, t.Name, colorReset, truncate(firstLine(t.Description), 70))
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
