package server

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
	"github.com/thoreinstein/mcpbridge/internal/config"
	"github.com/thoreinstein/mcpbridge/internal/errors"
	"github.com/thoreinstein/mcpbridge/internal/logging"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
)

var (
	listJSON        bool
	listShowSecrets bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listShowSecrets, "show-secrets", false, "Reveal masked secrets in env, headers, args and URLs")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured MCP servers",
	Long: `List all MCP servers declared in the config file.

Environment variables and headers containing secrets (TOKEN, KEY, SECRET,
PASSWORD, AUTH, CREDENTIAL, API_KEY) are masked by default, as are tokens
passed on the command line or embedded in URLs. Use --show-secrets to reveal
them.`,
	Example: `  # List all servers
  mcpbridge server list

  # Output as JSON
  mcpbridge server list --json

  See Also:
    mcpbridge server tools   - List a server's tools
    mcpbridge server add     - Add a new server`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.OutOrStdout(), flags.Config())
	},
}

// serverInfoJSON represents an MCP server in JSON output format.
type serverInfoJSON struct {
	Name      string            `json:"name"`
	Transport string            `json:"transport"`
	Command   string            `json:"command,omitempty"`
	Args      []string          `json:"args,omitempty"`
	Cwd       string            `json:"cwd,omitempty"`
	URL       string            `json:"url,omitempty"`
	Disabled  bool              `json:"disabled"`
	Env       map[string]string `json:"env,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(w io.Writer, cfg *config.Config) error {
	servers := make([]*mcp.Server, 0, len(cfg.Names()))
	for _, name := range cfg.Names() {
		s, _ := cfg.Server(name)
		servers = append(servers, redact(s))
	}

	if listJSON {
		return outputJSON(w, servers)
	}
	return outputTabular(w, servers)
}

// redact returns a copy of s with secrets masked unless --show-secrets is set.
func redact(s *mcp.Server) *mcp.Server {
	c := s.Clone()
	if listShowSecrets {
		return c
	}
	c.Env = logging.MaskSecrets(c.Env)
	c.Headers = logging.MaskSecrets(c.Headers)
	c.Args = logging.MaskArgs(c.Args)
	if c.URL != "" {
		c.URL = logging.MaskURL(c.URL)
	}
	return c
}

// outputJSON outputs servers in JSON format.
func outputJSON(w io.Writer, servers []*mcp.Server) error {
	infos := make([]serverInfoJSON, len(servers))
	for i, s := range servers {
		infos[i] = serverInfoJSON{
			Name:      s.Name,
			Transport: s.EffectiveTransport(),
			Command:   s.Command,
			Args:      s.Args,
			Cwd:       s.Cwd,
			URL:       s.URL,
			Disabled:  s.Disabled,
			Env:       s.Env,
			Headers:   s.Headers,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(infos), "encoding JSON")
}

// outputTabular outputs servers as a table.
func outputTabular(w io.Writer, servers []*mcp.Server) error {
	if len(servers) == 0 {
		fmt.Fprintln(w, "No MCP servers configured")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Add one with:")
		fmt.Fprintln(w, "  mcpbridge server add <name> -- <command> [args...]")
		fmt.Fprintln(w, "  mcpbridge catalog install <name>")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sNAME%s\t%sTRANSPORT%s\t%sCOMMAND/URL%s\t%sSTATUS%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, s := range servers {
		status := "enabled"
		statusColor := colorGreen
		if s.Disabled {
			status = "disabled"
			statusColor = colorGray
		}

		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%s%s%s\n",
			colorGreen, s.Name, colorReset,
			s.EffectiveTransport(),
			truncate(s.Target(), 60),
			statusColor, status, colorReset)
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}
