package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/mcpbridge/internal/logging"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
	"github.com/thoreinstein/mcpbridge/internal/mcp/parser"
	"github.com/thoreinstein/mcpbridge/internal/mcp/validator"
	"github.com/thoreinstein/mcpbridge/internal/paths"
)

// ConfigFileCheck verifies the config file can be read and parsed.
type ConfigFileCheck struct {
	path string
}

var _ Check = (*ConfigFileCheck)(nil)

// NewConfigFileCheck creates a check for the config file at path.
func NewConfigFileCheck(path string) *ConfigFileCheck {
	return &ConfigFileCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *ConfigFileCheck) Name() string {
	return "config-file"
}

// Category returns the grouping for this check.
func (c *ConfigFileCheck) Category() string {
	return "config"
}

// Run parses the config file. A missing file is reported as info, since
// it only means no servers are configured.
func (c *ConfigFileCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	info, err := os.Stat(c.path)
	switch {
	case os.IsNotExist(err):
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("no config file at %s; no servers are configured", c.path)
		result.FixHint = "Run: mcpbridge server add, or mcpbridge catalog install"
		return result
	case err != nil:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat config file: %v", err)
		return result
	case info.IsDir():
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s is a directory", c.path)
		return result
	}

	servers, err := parser.ParseFile(c.path)
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		result.FixHint = "Run: mcpbridge config edit"
		return result
	}

	format, _ := parser.FormatFromPath(c.path)
	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s parses (%d server(s))", c.path, len(servers.Servers))
	result.Details = map[string]any{
		"path":    c.path,
		"format":  string(format),
		"servers": len(servers.Servers),
	}
	return result
}

// ServerDefinitionCheck validates every server definition.
type ServerDefinitionCheck struct {
	servers *mcp.Config
}

var _ Check = (*ServerDefinitionCheck)(nil)

// NewServerDefinitionCheck creates a check over servers, which may be nil
// when the config file failed to load.
func NewServerDefinitionCheck(servers *mcp.Config) *ServerDefinitionCheck {
	return &ServerDefinitionCheck{servers: servers}
}

// Name returns the unique identifier for this check.
func (c *ServerDefinitionCheck) Name() string {
	return "server-definitions"
}

// Category returns the grouping for this check.
func (c *ServerDefinitionCheck) Category() string {
	return "config"
}

// Run validates the server definitions.
func (c *ServerDefinitionCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.servers == nil || len(c.servers.Servers) == 0 {
		result.Status = SeverityInfo
		result.Message = "no servers configured"
		return result
	}

	issues := validator.New(validator.WithAllowEmpty(true)).Validate(c.servers)
	errs, warnings := validator.Errors(issues), validator.Warnings(issues)
	total := len(c.servers.Servers)

	switch {
	case len(errs) > 0:
		result.Status = SeverityError
	case len(warnings) > 0:
		result.Status = SeverityWarning
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("all %d server definition(s) are valid", total)
		return result
	}

	result.Message = fmt.Sprintf("%d error(s), %d warning(s) across %d server definition(s)",
		len(errs), len(warnings), total)
	result.FixHint = "Run: mcpbridge config validate"

	described := make([]string, 0, len(issues))
	for _, issue := range issues {
		described = append(described, issue.Error())
	}
	result.Details = map[string]any{"issues": described}
	return result
}

// CommandCheck verifies that the command of every enabled stdio server can
// be found, so that spawning it will not fail.
type CommandCheck struct {
	servers  *mcp.Config
	lookPath func(string) (string, error)
}

var _ Check = (*CommandCheck)(nil)

// NewCommandCheck creates a check over servers. lookPath resolves bare
// command names and is normally exec.LookPath.
func NewCommandCheck(servers *mcp.Config, lookPath func(string) (string, error)) *CommandCheck {
	return &CommandCheck{servers: servers, lookPath: lookPath}
}

// Name returns the unique identifier for this check.
func (c *CommandCheck) Name() string {
	return "server-commands"
}

// Category returns the grouping for this check.
func (c *CommandCheck) Category() string {
	return "servers"
}

// Run resolves each command.
func (c *CommandCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	found := make(map[string]any)
	var missing []string
	if c.servers != nil {
		for _, name := range c.servers.Names() {
			s := c.servers.Servers[name]
			if s.Disabled || !s.IsLocal() || s.Command == "" {
				continue
			}
			resolved, err := c.resolve(s)
			if err != nil {
				missing = append(missing, fmt.Sprintf("%s: %s", name, err))
				continue
			}
			found[name] = resolved
		}
	}

	switch {
	case len(missing) > 0:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d stdio server command(s) not found", len(missing))
		result.FixHint = "Install the missing commands or fix them with: mcpbridge config edit"
		result.Details = map[string]any{"missing": missing, "found": found}
	case len(found) == 0:
		result.Status = SeverityInfo
		result.Message = "no enabled stdio servers"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("found commands for %d stdio server(s)", len(found))
		result.Details = map[string]any{"found": found}
	}
	return result
}

// resolve finds the executable s would spawn. Commands containing a path
// separator are taken relative to the server's cwd, like exec.Cmd does.
func (c *CommandCheck) resolve(s *mcp.Server) (string, error) {
	command := s.Command
	if !strings.ContainsRune(command, '/') && !strings.ContainsRune(command, filepath.Separator) {
		path, err := c.lookPath(command)
		if err != nil {
			return "", errors.Newf("%s not found in PATH", command)
		}
		return path, nil
	}

	command, err := paths.ExpandHome(command)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(command) && s.Cwd != "" {
		dir, err := paths.ExpandHome(s.Cwd)
		if err != nil {
			return "", err
		}
		command = filepath.Join(dir, command)
	}

	info, err := os.Stat(command)
	if err != nil {
		return "", errors.Newf("%s does not exist", command)
	}
	if info.IsDir() {
		return "", errors.Newf("%s is a directory", command)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return "", errors.Newf("%s is not executable", command)
	}
	return command, nil
}

// PermissionCheck flags config files and backups that other users can read
// while they hold secrets, and config files other users can write.
type PermissionCheck struct {
	PermissionFixer

	path      string
	backupDir string
	servers   *mcp.Config
}

var _ Check = (*PermissionCheck)(nil)
var _ Fixer = (*PermissionCheck)(nil)

// NewPermissionCheck creates a check for the config file at path, whose
// servers are used to decide whether it holds secrets, and the backup
// directory.
func NewPermissionCheck(path, backupDir string, servers *mcp.Config) *PermissionCheck {
	return &PermissionCheck{path: path, backupDir: backupDir, servers: servers}
}

// Name returns the unique identifier for this check.
func (c *PermissionCheck) Name() string {
	return "file-permissions"
}

// Category returns the grouping for this check.
func (c *PermissionCheck) Category() string {
	return "security"
}

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string
	TargetPerm  os.FileMode
	Fixable     bool
	FixHint     string
}

// Run inspects the config file and the backup directory.
func (c *PermissionCheck) Run() *CheckResult {
	if runtime.GOOS == "windows" {
		c.setIssues(nil)
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "permission checks do not apply on windows",
		}
	}

	var issues []pathIssue
	checked := 0

	if info, err := os.Stat(c.path); err == nil && !info.IsDir() {
		checked++
		issues = append(issues, c.checkConfigFile(info.Mode().Perm())...)
	}
	if info, err := os.Stat(c.backupDir); err == nil && info.IsDir() {
		checked++
		mode := info.Mode().Perm()
		if mode&0o077 != 0 {
			issues = append(issues, pathIssue{
				Path:        c.backupDir,
				Type:        "directory",
				Problem:     "backup directory is accessible to other users and holds copies of the config file",
				Severity:    SeverityWarning,
				Permissions: formatPermissions(mode),
				TargetPerm:  paths.DefaultDirPerm,
				Fixable:     true,
				FixHint:     "chmod 700 " + c.backupDir,
			})
		}
	}

	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

func (c *PermissionCheck) checkConfigFile(mode os.FileMode) []pathIssue {
	if mode&0o077 != 0 && hasSecrets(c.servers) {
		return []pathIssue{{
			Path:        c.path,
			Type:        "file",
			Problem:     "config file holds secrets and is readable by other users",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(mode),
			TargetPerm:  0o600,
			Fixable:     true,
			FixHint:     "chmod 600 " + c.path,
		}}
	}
	if mode&0o022 != 0 {
		target := mode &^ 0o022
		return []pathIssue{{
			Path:        c.path,
			Type:        "file",
			Problem:     "config file is writable by other users, who could change the commands it runs",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(mode),
			TargetPerm:  target,
			Fixable:     true,
			FixHint:     fmt.Sprintf("chmod %o %s", target, c.path),
		}}
	}
	return nil
}

// hasSecrets reports whether any server carries a value that would be
// masked in listings.
func hasSecrets(servers *mcp.Config) bool {
	if servers == nil {
		return false
	}
	for _, s := range servers.Servers {
		for k, v := range s.Env {
			if logging.ShouldMask(k) || logging.ContainsTokenPrefix(v) {
				return true
			}
		}
		for k := range s.Headers {
			if logging.ShouldMask(k) {
				return true
			}
		}
		if !slices.Equal(s.Args, logging.MaskArgs(s.Args)) {
			return true
		}
		if s.URL != "" && logging.MaskURL(s.URL) != s.URL {
			return true
		}
	}
	return false
}

// buildResult constructs the final CheckResult from accumulated issues.
func (c *PermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	if len(issues) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("%d path(s) have safe permissions", checked),
		}
	}

	status := SeverityWarning
	issueDetails := make([]map[string]any, 0, len(issues))
	var fixHints []string
	fixable := false
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			status = SeverityError
		}
		issueMap := map[string]any{
			"path":     issue.Path,
			"type":     issue.Type,
			"problem":  issue.Problem,
			"severity": issue.Severity.String(),
		}
		if issue.Permissions != "" {
			issueMap["permissions"] = issue.Permissions
		}
		issueDetails = append(issueDetails, issueMap)

		if issue.Fixable {
			fixable = true
		}
		if issue.FixHint != "" {
			fixHints = append(fixHints, issue.FixHint)
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   status,
		Message:  fmt.Sprintf("found %d permission issue(s) across %d path(s)", len(issues), checked),
		Details: map[string]any{
			"checked_paths": checked,
			"issues":        issueDetails,
		},
		Fixable: fixable,
		FixHint: strings.Join(fixHints, "; "),
	}
}

// formatPermissions returns a human-readable permission string (e.g., "0644").
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}
