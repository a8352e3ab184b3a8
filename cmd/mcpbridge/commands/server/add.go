package server

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
	"github.com/thoreinstein/mcpbridge/internal/backup"
	"github.com/thoreinstein/mcpbridge/internal/config"
	"github.com/thoreinstein/mcpbridge/internal/errors"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
	"github.com/thoreinstein/mcpbridge/internal/mcp/validator"
)

// Sentinel errors for server add operations.
var (
	errAddMissingCommandOrURL = errors.New("either command or --url is required")
	errAddBothCommandAndURL   = errors.New("cannot specify both command and --url")
)

// Package-level flag variables for server add command.
var (
	addURL       string
	addEnv       []string
	addHeaders   []string
	addCwd       string
	addTransport string
	addDisabled  bool
	addForce     bool
)

func init() {
	addCmd.Flags().StringVar(&addURL, "url", "",
		"remote server endpoint for the http transport")
	addCmd.Flags().StringSliceVar(&addEnv, "env", nil,
		"environment variables in KEY=VALUE format (repeatable)")
	addCmd.Flags().StringSliceVar(&addHeaders, "header", nil,
		"HTTP headers in KEY=VALUE format (repeatable)")
	addCmd.Flags().StringVar(&addCwd, "cwd", "",
		"working directory of the server process")
	addCmd.Flags().StringVar(&addTransport, "transport", "",
		"explicit transport: stdio, http (default: inferred)")
	addCmd.Flags().BoolVar(&addDisabled, "disabled", false,
		"add the server disabled so bulk operations skip it")
	addCmd.Flags().BoolVarP(&addForce, "force", "f", false,
		"overwrite if server already exists")
	Cmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <name> [command] [args...]",
	Short: "Add an MCP server to the config file",
	Long: `Add an MCP server to the config file in use, or to the default config file
when none was loaded.

For local stdio servers, provide a command and optional arguments after "--"
so that arguments starting with a dash reach the server.
For remote http servers, use the --url flag.`,
	Example: `  # Add a local stdio server
  mcpbridge server add github -- npx -y @modelcontextprotocol/server-github

  # Add a remote server with an auth header
  mcpbridge server add api --url https://api.example.com/mcp --header "Authorization=Bearer token"

  # Add a local server with environment variables
  mcpbridge server add db --env DB_HOST=localhost --env DB_PORT=5432 -- ./db-mcp

  # Overwrite an existing server
  mcpbridge server add github --force -- npx -y @modelcontextprotocol/server-github

  See Also:
    mcpbridge server list    - List configured servers
    mcpbridge server remove  - Remove a server`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := buildServer(args)
		if err != nil {
			return err
		}
		return runAdd(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags.ConfigFile(), server)
	},
}

// buildServer assembles a server definition from the positional arguments
// and flags.
func buildServer(args []string) (*mcp.Server, error) {
	server := &mcp.Server{
		Name:      args[0],
		URL:       addURL,
		Cwd:       addCwd,
		Transport: addTransport,
		Disabled:  addDisabled,
	}
	if len(args) > 1 {
		server.Command = args[1]
		server.Args = args[2:]
	}

	if server.Command == "" && server.URL == "" {
		return nil, errors.NewUserError(errAddMissingCommandOrURL, "Run: mcpbridge server add --help")
	}
	if server.Command != "" && server.URL != "" {
		return nil, errors.NewUserError(errAddBothCommandAndURL, "Run: mcpbridge server add --help")
	}

	var err error
	if server.Env, err = parseKeyValueSlice(addEnv, "--env"); err != nil {
		return nil, errors.NewUserError(err, "")
	}
	if server.Headers, err = parseKeyValueSlice(addHeaders, "--header"); err != nil {
		return nil, errors.NewUserError(err, "")
	}
	return server, nil
}

func runAdd(w, stderr io.Writer, path string, server *mcp.Server) error {
	if err := backup.EnsureBackedUp(path); err != nil {
		return errors.NewSystemError(err, "")
	}
	warnings, err := config.AddServer(path, server, addForce)
	switch {
	case errors.Is(err, errors.ErrAlreadyExists):
		return errors.NewUserError(err, "Use --force to overwrite it")
	case errors.Is(err, errors.ErrInvalidConfig), errors.Is(err, errors.ErrMissingName):
		return errors.NewUserError(err, "Run: mcpbridge server add --help")
	case err != nil:
		return errors.NewSystemError(err, "")
	}

	printWarnings(stderr, warnings)
	fmt.Fprintf(w, "MCP server %q added to %s\n", server.Name, path)
	return nil
}

func printWarnings(w io.Writer, warnings []*validator.ValidationError) {
	for _, warn := range warnings {
		fmt.Fprintf(w, "%s %s: %s\n", color.YellowString("Warning:"), warn.Field, warn.Message)
	}
}
