package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
	"github.com/thoreinstein/mcpbridge/internal/backup"
	"github.com/thoreinstein/mcpbridge/internal/catalog"
	"github.com/thoreinstein/mcpbridge/internal/config"
	"github.com/thoreinstein/mcpbridge/internal/errors"
)

var (
	installAlias string
	installEnv   []string
	installForce bool
)

func init() {
	installCmd.Flags().StringVar(&installAlias, "as", "",
		"server name to install under (default: the entry name)")
	installCmd.Flags().StringSliceVar(&installEnv, "env", nil,
		"environment variables in KEY=VALUE format (repeatable)")
	installCmd.Flags().BoolVarP(&installForce, "force", "f", false,
		"overwrite if server already exists")
	Cmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install [name]",
	Short: "Install a catalog entry into the config file",
	Long: `Install a catalog entry as a server in the config file in use, or in the
default config file when none was loaded.

Without a name, a fuzzy finder is shown when running in a terminal.
Required environment variables that are not passed with --env are reported;
the server is installed anyway and they can be added later.`,
	Example: `  # Install under the entry name
  mcpbridge catalog install github --env GITHUB_PERSONAL_ACCESS_TOKEN=ghp_xxx

  # Install a second instance under another name
  mcpbridge catalog install postgres --as analytics-db --env DATABASE_URL=postgres://...

  # Pick interactively
  mcpbridge catalog install`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags.ConfigFile(), args)
	},
}

func runInstall(w, stderr io.Writer, path string, args []string) error {
	var entry catalog.Entry
	switch {
	case len(args) == 1:
		var err error
		if entry, err = lookup(args[0]); err != nil {
			return err
		}
	case interactive():
		var ok bool
		var err error
		entry, ok, err = pick(source().List())
		if err != nil || !ok {
			return err
		}
	default:
		return errors.NewUserError(errors.ErrMissingName, "Run: mcpbridge catalog list")
	}

	env, err := parseEnv(installEnv)
	if err != nil {
		return err
	}

	server, missing := entry.Config(installAlias, env)
	if err := backup.EnsureBackedUp(path); err != nil {
		return errors.NewSystemError(err, "")
	}
	warnings, err := config.AddServer(path, server, installForce)
	switch {
	case errors.Is(err, errors.ErrAlreadyExists):
		return errors.NewUserError(err, "Use --force to overwrite it, or --as to pick another name")
	case errors.Is(err, errors.ErrInvalidConfig):
		return errors.NewUserError(err, "")
	case err != nil:
		return errors.NewSystemError(err, "")
	}

	for _, warn := range warnings {
		fmt.Fprintf(stderr, "%s %s: %s\n", color.YellowString("Warning:"), warn.Field, warn.Message)
	}
	if len(missing) > 0 {
		fmt.Fprintf(stderr, "%s %q needs %s; set it in %s before connecting\n",
			color.YellowString("Warning:"), server.Name, strings.Join(missing, ", "), path)
	}
	fmt.Fprintf(w, "Installed %s as MCP server %q in %s\n", entry.Name, server.Name, path)
	return nil
}

func parseEnv(entries []string) (map[string]string, error) {
	env := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, errors.NewUserError(
				errors.Newf("invalid --env format %q: expected KEY=VALUE", entry), "")
		}
		env[key] = value
	}
	return env, nil
}
