// Package config implements the config command group: locating, editing,
// validating and restoring the config file.
package config

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
)

// lenient marks commands that must work on a config file that fails to
// load.
var lenient = map[string]string{flags.LenientConfig: "true"}

// Cmd is the config command group.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Locate, edit, validate and restore the config file",
	Long: `Manage the config file that declares MCP servers.

The file in use is the one named by --config, else the first config.yaml,
config.json or config.toml found in the working directory or in
$XDG_CONFIG_HOME/mcpbridge. Commands that write the file create it in the
latter location when none exists.

Before mcpbridge changes the file it saves a copy under
$XDG_STATE_HOME/mcpbridge/backups. The five most recent copies are kept.`,
	Example: `  mcpbridge config path
  mcpbridge config edit
  mcpbridge config validate --json
  mcpbridge config backups
  mcpbridge config restore 20260123T100712`,
}
