package config

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/internal/backup"
	"github.com/thoreinstein/mcpbridge/internal/errors"
)

var backupsJSON bool

func init() {
	backupsCmd.Flags().BoolVar(&backupsJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(backupsCmd)
}

var backupsCmd = &cobra.Command{
	Use:         "backups",
	Short:       "List saved copies of the config file",
	Args:        cobra.NoArgs,
	Annotations: lenient,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBackups(cmd.OutOrStdout(), backup.NewManager(), backupsJSON)
	},
}

type backupJSON struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	Version   string    `json:"mcpbridge_version,omitempty"`
}

func runBackups(w io.Writer, m *backup.Manager, asJSON bool) error {
	manifests, err := m.List()
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.NewSystemError(err, "")
	}

	if asJSON {
		out := make([]backupJSON, 0, len(manifests))
		for _, b := range manifests {
			out = append(out, backupJSON{ID: b.ID, CreatedAt: b.CreatedAt, Source: b.Source, Version: b.ToolVersion})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(manifests) == 0 {
		fmt.Fprintln(w, "No backups found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE")
	for _, b := range manifests {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.ID, b.CreatedAt.Local().Format(time.DateTime), b.Source)
	}
	return tw.Flush()
}
