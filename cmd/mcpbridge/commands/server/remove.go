package server

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
	"github.com/thoreinstein/mcpbridge/internal/backup"
	"github.com/thoreinstein/mcpbridge/internal/config"
	"github.com/thoreinstein/mcpbridge/internal/errors"
)

func init() {
	Cmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove an MCP server from the config file",
	Example: `  mcpbridge server remove github`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRemove(cmd.OutOrStdout(), flags.ConfigFile(), args[0])
	},
}

func runRemove(w io.Writer, path, name string) error {
	if err := backup.EnsureBackedUp(path); err != nil {
		return errors.NewSystemError(err, "")
	}
	if err := config.RemoveServer(path, name); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.NewUserError(err, "Run: mcpbridge server list")
		}
		return errors.NewSystemError(err, "")
	}
	fmt.Fprintf(w, "MCP server %q removed from %s\n", name, path)
	return nil
}
