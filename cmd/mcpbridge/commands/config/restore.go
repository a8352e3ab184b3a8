package config

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/internal/backup"
	"github.com/thoreinstein/mcpbridge/internal/errors"
)

func init() {
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a saved copy of the config file",
	Long: `Write a saved copy back to the path it was taken from, with its original
permissions. The current file is overwritten without being backed up.`,
	Example: `  mcpbridge config backups
  mcpbridge config restore 20260123T100712`,
	Args:        cobra.ExactArgs(1),
	Annotations: lenient,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRestore(cmd.OutOrStdout(), backup.NewManager(), args[0])
	},
}

func runRestore(w io.Writer, m *backup.Manager, id string) error {
	manifest, err := m.Restore(id)
	switch {
	case errors.Is(err, backup.ErrNoBackupsFound):
		return errors.NewUserError(err, "Run: mcpbridge config backups")
	case errors.Is(err, backup.ErrBackupCorrupted):
		return errors.NewSystemError(err, "Pick another backup: mcpbridge config backups")
	case err != nil:
		return errors.NewUserError(err, "")
	}
	fmt.Fprintf(w, "Restored %s from backup %s\n", manifest.Source, manifest.ID)
	return nil
}
