package commands

import (
	"fmt"
	"io"
	"runtime"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd"
	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long: `Print the version, commit and build date of mcpbridge, together with the
MCP protocol revision it negotiates and the config file in use.`,
	Run: func(c *cobra.Command, _ []string) {
		printVersion(c.OutOrStdout())
	},
}

func printVersion(w io.Writer) {
	configFile := "(none)"
	if cfg := flags.Config(); cfg != nil && cfg.Path != "" {
		configFile = cfg.Path
	}

	fmt.Fprintf(w, "%s version %s\n", cmd.Name, cmd.Version)
	fmt.Fprintf(w, "  commit:    %s\n", cmd.Commit)
	fmt.Fprintf(w, "  built:     %s\n", cmd.Date)
	fmt.Fprintf(w, "  go:        %s\n", runtime.Version())
	fmt.Fprintf(w, "  protocol:  %s\n", mcpgo.LATEST_PROTOCOL_VERSION)
	fmt.Fprintf(w, "  config:    %s\n", configFile)
}
