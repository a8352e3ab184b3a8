package config

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
	"github.com/thoreinstein/mcpbridge/internal/config"
	"github.com/thoreinstein/mcpbridge/internal/errors"
	"github.com/thoreinstein/mcpbridge/internal/mcp/parser"
	"github.com/thoreinstein/mcpbridge/internal/mcp/validator"
)

var validateJSON bool

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file for problems",
	Long: `Check the config file's settings and every server definition.

Errors make a server unusable; warnings point at settings that are ignored
or likely mistaken. The command exits non-zero when any error is found.`,
	Args:        cobra.NoArgs,
	Annotations: lenient,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format := validator.FormatText
		if validateJSON {
			format = validator.FormatJSON
		}
		return runValidate(cmd.OutOrStdout(), flags.ConfigFile(), flags.Config(), flags.LoadError(), format)
	},
}

// runValidate reports on cfg, or on the servers in path when cfg failed to
// load with loadErr.
func runValidate(w io.Writer, path string, cfg *config.Config, loadErr error, format validator.Format) error {
	var issues []*validator.ValidationError
	if loadErr != nil {
		issues = append(issues, &validator.ValidationError{
			Message:  loadErr.Error(),
			Severity: validator.SeverityError,
			Err:      loadErr,
		})
		// The servers table may still parse when a setting is bad.
		if servers, err := parser.ParseFile(path); err == nil {
			issues = append(issues, validator.New(validator.WithAllowEmpty(true)).Validate(servers)...)
		}
	} else {
		settingErrs, serverIssues := config.Validate(cfg)
		for _, err := range settingErrs {
			issue := &validator.ValidationError{Message: err.Error(), Severity: validator.SeverityError, Err: err}
			var settingErr *config.SettingError
			if errors.As(err, &settingErr) {
				issue.Field = settingErr.Key
				issue.Message = settingErr.Err.Error()
			}
			issues = append(issues, issue)
		}
		issues = append(issues, serverIssues...)
	}

	if err := validator.NewReporter(w, format).Report(path, issues); err != nil {
		return errors.NewSystemError(err, "")
	}

	if n := len(validator.Errors(issues)); n > 0 {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrInvalidConfig, "%d error(s) in %s", n, path),
			"Run: mcpbridge config edit")
	}
	return nil
}
