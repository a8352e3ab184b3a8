package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
	"github.com/thoreinstein/mcpbridge/internal/doctor"
	"github.com/thoreinstein/mcpbridge/internal/errors"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
	"github.com/thoreinstein/mcpbridge/internal/mcp/parser"
	"github.com/thoreinstein/mcpbridge/internal/paths"
)

var (
	doctorJSON bool
	doctorAll  bool
	doctorFix  bool
)

// errDoctorWarnings is a sentinel error for exit code 1.
var errDoctorWarnings = errors.New("doctor found warnings")

// errDoctorErrors is a sentinel error for exit code 2.
var errDoctorErrors = errors.New("doctor found errors")

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false,
		"show every check, including passed ones")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair file permissions that doctor can fix, then check again")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "all")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose problems with the config file and servers",
	Long: `Run diagnostic checks that catch problems before a connection fails:

  config-file          the config file exists and parses
  server-definitions   every server definition is valid
  server-commands      every enabled stdio server's command can be found
  file-permissions     files holding secrets are private to you

No server is contacted; use "mcpbridge server check" for that.

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{flags.LenientConfig: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDoctor(cmd.OutOrStdout(), newDoctorRunner(flags.ConfigFile()))
	},
}

// newDoctorRunner builds the checks for the config file at path. When the
// file failed to load, its servers are read directly so definitions can
// still be checked.
func newDoctorRunner(path string) *doctor.Runner {
	var servers *mcp.Config
	if cfg := flags.Config(); cfg != nil {
		servers = cfg.Servers
	} else if parsed, err := parser.ParseFile(path); err == nil {
		servers = parsed
	}

	return doctor.NewRunner(
		doctor.NewConfigFileCheck(path),
		doctor.NewServerDefinitionCheck(servers),
		doctor.NewCommandCheck(servers, exec.LookPath),
		doctor.NewPermissionCheck(path, paths.BackupDir(), servers),
	)
}

func runDoctor(w io.Writer, runner *doctor.Runner) error {
	report := runner.Run()

	if doctorFix {
		fixes := runner.Fix()
		if !doctorJSON {
			printFixes(w, fixes)
		}
		if len(fixes) > 0 {
			report = runner.Run()
		}
	}

	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.NewSystemError(errors.Wrap(err, "encoding JSON"), "")
		}
	} else {
		printDoctorText(w, report)
	}

	switch {
	case report.HasErrors():
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	case report.HasWarnings():
		return errors.NewExitErrorWithSuggestion(errDoctorWarnings, errors.ExitUser, fixSuggestion(report))
	}
	return nil
}

func fixSuggestion(report *doctor.Report) string {
	for _, r := range report.Results {
		if r.Fixable {
			return "Run: mcpbridge doctor --fix"
		}
	}
	return ""
}

func printFixes(w io.Writer, fixes []doctor.FixResult) {
	for _, f := range fixes {
		if f.Fixed {
			fmt.Fprintf(w, "%s fixed %s: %s\n", color.GreenString("✓"), f.Path, f.Description)
		} else {
			fmt.Fprintf(w, "%s could not fix %s: %s\n", color.RedString("✗"), f.Path, f.Description)
		}
	}
	if len(fixes) > 0 {
		fmt.Fprintln(w)
	}
}

func printDoctorText(w io.Writer, report *doctor.Report) {
	hasOutput := false
	for _, result := range report.Results {
		if !doctorAll && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && result.Status >= doctor.SeverityWarning {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
