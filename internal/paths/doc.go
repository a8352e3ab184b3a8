// Package paths resolves where mcpbridge keeps its configuration and state.
//
// The package wraps github.com/adrg/xdg for XDG Base Directory compliance.
// The config directory is $MCPBRIDGE_CONFIG_DIR when set and
// <ConfigHome>/mcpbridge otherwise:
//
//	paths.ConfigDir()         // ~/.config/mcpbridge
//	paths.DefaultConfigFile() // ~/.config/mcpbridge/config.yaml
//
// Config backups live under the state directory, overridable with
// $MCPBRIDGE_STATE_DIR:
//
//	paths.BackupDir() // ~/.local/state/mcpbridge/backups
package paths
