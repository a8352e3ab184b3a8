// Package catalog provides the catalog command group for browsing and
// installing well-known MCP servers.
package catalog

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/internal/catalog"
	"github.com/thoreinstein/mcpbridge/internal/errors"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorCyan  = "\033[36m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// source returns the catalog the commands operate on. Tests replace it.
var source = catalog.Default

// Cmd is the catalog command that groups all catalog subcommands.
var Cmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse and install well-known MCP servers",
	Long: `Browse the built-in catalog of well-known MCP servers and install them
into the config file by name.

Installing an entry writes its command, arguments and URL under a server
name of your choice. Secrets the server needs are passed with --env.`,
	Example: `  # Browse the catalog
  mcpbridge catalog list

  # Find servers related to git
  mcpbridge catalog search git

  # Install a server
  mcpbridge catalog install github --env GITHUB_PERSONAL_ACCESS_TOKEN=ghp_xxx

  See Also:
    mcpbridge catalog show     - Show an entry
    mcpbridge server list      - List configured servers`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// outputTable writes entries as a table.
func outputTable(w io.Writer, entries []catalog.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sNAME%s\t%sPACKAGE%s\t%sDESCRIPTION%s\n",
		colorBold, colorReset, colorBold, colorReset, colorBold, colorReset)

	for _, e := range entries {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\n",
			colorGreen, e.Name, colorReset,
			e.Package,
			truncate(e.Description, 60))
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}

// describe writes the details of one entry.
func describe(w io.Writer, e catalog.Entry) {
	fmt.Fprintf(w, "%s%s%s\n", colorCyan+colorBold, e.Name, colorReset)
	fmt.Fprintf(w, "  Package:     %s\n", e.Package)
	fmt.Fprintf(w, "  Description: %s\n", e.Description)
	fmt.Fprintf(w, "  Transport:   %s\n", e.Server.EffectiveTransport())
	if e.Server.IsRemote() {
		fmt.Fprintf(w, "  URL:         %s\n", e.Server.URL)
	} else {
		fmt.Fprintf(w, "  Command:     %s\n", e.Server.Target())
	}

	if len(e.RequiredEnv) == 0 {
		return
	}
	fmt.Fprintln(w, "  Required environment:")
	for _, v := range e.RequiredEnv {
		if v.Description == "" {
			fmt.Fprintf(w, "    %s\n", v.Name)
			continue
		}
		fmt.Fprintf(w, "    %s %s(%s)%s\n", v.Name, colorGray, v.Description, colorReset)
	}
}

// truncate shortens s to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
