package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// issueJSON is the JSON shape of one issue.
type issueJSON struct {
	Severity string `json:"severity"`
	Server   string `json:"server,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

type reportJSON struct {
	Path   string      `json:"path,omitempty"`
	Valid  bool        `json:"valid"`
	Issues []issueJSON `json:"issues"`
}

// Report writes the issues found in the config file at path. An empty
// path is omitted from the output.
func (r *Reporter) Report(path string, issues []*ValidationError) error {
	switch r.format {
	case FormatJSON:
		return r.reportJSON(path, issues)
	default:
		r.reportText(path, issues)
		return nil
	}
}

func (r *Reporter) reportJSON(path string, issues []*ValidationError) error {
	out := reportJSON{
		Path:   path,
		Valid:  !HasErrors(issues),
		Issues: make([]issueJSON, 0, len(issues)),
	}
	for _, i := range issues {
		out.Issues = append(out.Issues, issueJSON{
			Severity: i.Severity.String(),
			Server:   i.ServerName,
			Field:    i.Field,
			Message:  i.Message,
		})
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(out), "encoding JSON report")
}

func (r *Reporter) reportText(path string, issues []*ValidationError) {
	errs := Errors(issues)
	warnings := Warnings(issues)

	subject := "Config"
	if path != "" {
		subject = path
	}

	if len(errs) == 0 && len(warnings) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ %s is valid", subject))
		return
	}

	var summary []string
	if len(errs) > 0 {
		summary = append(summary, color.RedString("%d error(s)", len(errs)))
	}
	if len(warnings) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
	}
	verdict := "Validation failed"
	if len(errs) == 0 {
		verdict = "Validation passed with warnings"
	}
	fmt.Fprintf(r.out, "%s: %s: %s\n\n", subject, verdict, strings.Join(summary, ", "))

	if len(errs) > 0 {
		fmt.Fprintln(r.out, "Errors:")
		for _, err := range errs {
			r.printIssue(err, color.FgRed)
		}
		fmt.Fprintln(r.out)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(r.out, "Warnings:")
		for _, warn := range warnings {
			r.printIssue(warn, color.FgYellow)
		}
		fmt.Fprintln(r.out)
	}
}

// printIssue writes one line:  • server.field: message
func (r *Reporter) printIssue(i *ValidationError, c color.Attribute) {
	printer := color.New(c).SprintFunc()

	var sb strings.Builder
	sb.WriteString("  • ")

	var where string
	switch {
	case i.ServerName != "" && i.Field != "":
		where = i.ServerName + "." + i.Field
	case i.ServerName != "":
		where = i.ServerName
	default:
		where = i.Field
	}
	if where != "" {
		sb.WriteString(printer(where))
		sb.WriteString(": ")
	}

	sb.WriteString(i.Message)
	fmt.Fprintln(r.out, sb.String())
}
