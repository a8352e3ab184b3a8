package config

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
)

func init() {
	Cmd.AddCommand(pathCmd)
}

var pathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the path of the config file",
	Args:        cobra.NoArgs,
	Annotations: lenient,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPath(cmd.OutOrStdout(), flags.ConfigFile())
	},
}

func runPath(w io.Writer, path string) error {
	_, err := fmt.Fprintln(w, path)
	return err
}
