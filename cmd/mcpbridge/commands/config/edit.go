package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
	"github.com/thoreinstein/mcpbridge/internal/backup"
	"github.com/thoreinstein/mcpbridge/internal/editor"
	"github.com/thoreinstein/mcpbridge/internal/errors"
	"github.com/thoreinstein/mcpbridge/internal/mcp/parser"
	"github.com/thoreinstein/mcpbridge/internal/mcp/validator"
	"github.com/thoreinstein/mcpbridge/internal/paths"
	"github.com/thoreinstein/mcpbridge/pkg/fileutil"
)

// openEditor is replaced in tests.
var openEditor = editor.Open

// templates seed a config file that does not exist yet.
var templates = map[parser.Format]string{
	parser.FormatYAML: "servers: {}\n",
	parser.FormatJSON: "{\n  \"servers\": {}\n}\n",
	parser.FormatTOML: "[servers]\n",
}

func init() {
	Cmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in your editor",
	Long: `Open the config file in $EDITOR, falling back to $VISUAL, nano and vi.

The file is created when it does not exist, and backed up before the editor
starts. When the editor exits the file is checked and any problems are
reported.`,
	Args:        cobra.NoArgs,
	Annotations: lenient,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runEdit(cmd.OutOrStdout(), flags.ConfigFile())
	},
}

func runEdit(w io.Writer, path string) error {
	format, err := parser.FormatFromPath(path)
	if err != nil {
		return errors.NewUserError(err, "Use a .yaml, .json or .toml config file")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
			return errors.NewSystemError(errors.Wrap(err, "creating config directory"), "")
		}
		if err := fileutil.AtomicWriteFile(path, []byte(templates[format]), 0o600); err != nil {
			return errors.NewSystemError(errors.Wrap(err, "creating config file"), "")
		}
	} else if err := backup.EnsureBackedUp(path); err != nil {
		return errors.NewSystemError(err, "")
	}

	fmt.Fprintf(w, "Location: %s\n", path)
	if err := openEditor(path); err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to your preferred editor")
	}

	servers, err := parser.ParseFile(path)
	if err != nil {
		return errors.NewUserError(err, "Run: mcpbridge config edit, or restore a copy with mcpbridge config backups")
	}
	if issues := validator.New(validator.WithAllowEmpty(true)).Validate(servers); len(issues) > 0 {
		return validator.NewReporter(w, validator.FormatText).Report(path, issues)
	}
	return nil
}
