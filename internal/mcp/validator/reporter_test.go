package validator

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestReporter_Text(t *testing.T) {
	noColor(t)

	issues := []*ValidationError{
		{ServerName: "gh", Field: "command", Message: "stdio server requires command", Severity: SeverityError},
		{ServerName: "remote", Field: "cwd", Message: "cwd is ignored for http servers", Severity: SeverityWarning},
		{Field: "log_format", Message: "log_format must be 'text' or 'json'", Severity: SeverityError},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report("/etc/mcpbridge.yaml", issues))

	out := buf.String()
	assert.Contains(t, out, "/etc/mcpbridge.yaml: Validation failed: 2 error(s), 1 warning(s)")
	assert.Contains(t, out, "  • gh.command: stdio server requires command")
	assert.Contains(t, out, "  • remote.cwd: cwd is ignored for http servers")
	assert.Contains(t, out, "  • log_format: log_format must be")
}

func TestReporter_TextWarningsOnly(t *testing.T) {
	noColor(t)

	issues := []*ValidationError{
		{ServerName: "remote", Field: "cwd", Message: "ignored", Severity: SeverityWarning},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report("", issues))
	assert.Contains(t, buf.String(), "Config: Validation passed with warnings: 1 warning(s)")
	assert.NotContains(t, buf.String(), "Errors:")
}

func TestReporter_TextClean(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report("config.yaml", nil))
	assert.Equal(t, "✓ config.yaml is valid\n", buf.String())
}

func TestReporter_JSON(t *testing.T) {
	issues := []*ValidationError{
		{ServerName: "gh", Field: "command", Message: "missing", Severity: SeverityError},
		{ServerName: "remote", Field: "cwd", Message: "ignored", Severity: SeverityWarning},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatJSON).Report("config.yaml", issues))

	var got struct {
		Path   string `json:"path"`
		Valid  bool   `json:"valid"`
		Issues []struct {
			Severity string `json:"severity"`
			Server   string `json:"server"`
			Field    string `json:"field"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "config.yaml", got.Path)
	assert.False(t, got.Valid)
	require.Len(t, got.Issues, 2)
	assert.Equal(t, "error", got.Issues[0].Severity)
	assert.Equal(t, "gh", got.Issues[0].Server)
	assert.Equal(t, "warning", got.Issues[1].Severity)

	buf.Reset()
	require.NoError(t, NewReporter(&buf, FormatJSON).Report("", nil))
	assert.JSONEq(t, `{"valid": true, "issues": []}`, buf.String())
}
