// Package server provides the server command group for managing configured
// MCP servers and calling their tools.
package server

import "github.com/spf13/cobra"

// Cmd is the server command that groups all server-related subcommands.
var Cmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"servers"},
	Short:   "Manage MCP servers and call their tools",
	Long: `Manage the MCP servers declared in the config file, inspect the tools they
expose and invoke them.

Local servers run as subprocesses over stdio. Remote servers are reached
over streamable HTTP. Connections only live for the duration of a command.`,
	Example: `  # Add a local server
  mcpbridge server add github -- npx -y @modelcontextprotocol/server-github

  # Add a remote server with an auth header
  mcpbridge server add context7 --url https://mcp.context7.com/mcp --header "Authorization=Bearer xyz"

  # Check every enabled server
  mcpbridge server check

  See Also:
    mcpbridge server list    - List configured servers
    mcpbridge server tools   - List a server's tools
    mcpbridge server call    - Call a tool
    mcpbridge server check   - Connect and report health
    mcpbridge server add     - Add a server
    mcpbridge server remove  - Remove a server`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}
