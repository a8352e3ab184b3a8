package validator

import (
	"net/url"
	"slices"
	"strings"
	"unicode"

	"github.com/thoreinstein/mcpbridge/internal/mcp"
)

// validTransports is the set of valid transport values.
var validTransports = []string{mcp.TransportStdio, mcp.TransportHTTP, ""}

// Option configures a Validator.
type Option func(*Validator)

// Validator validates MCP server configurations.
type Validator struct {
	// allowEmpty permits configs with no servers.
	// Default is false (at least one server required).
	allowEmpty bool
}

// New creates a new Validator with the given options.
func New(opts ...Option) *Validator {
	v := &Validator{
		allowEmpty: false,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithAllowEmpty configures whether empty configs (no servers) are allowed.
// Default is false, meaning at least one server is required.
func WithAllowEmpty(allow bool) Option {
	return func(v *Validator) {
		v.allowEmpty = allow
	}
}

// Validate checks a Config for issues.
// Returns a slice of validation errors/warnings ordered by server name, or
// nil if valid. Use [HasErrors] to check if any errors (vs warnings) were
// found.
func (v *Validator) Validate(cfg *mcp.Config) []*ValidationError {
	if cfg == nil {
		return []*ValidationError{{
			Message:  "config is nil",
			Severity: SeverityError,
		}}
	}

	var errs []*ValidationError

	if !v.allowEmpty && len(cfg.Servers) == 0 {
		errs = append(errs, &ValidationError{
			Message:  "config has no servers",
			Severity: SeverityError,
			Err:      ErrEmptyConfig,
		})
	}

	for _, name := range cfg.Names() {
		server := cfg.Servers[name]
		if server == nil {
			continue
		}
		errs = append(errs, v.ValidateServer(name, server)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateServer checks a single server registered under name.
func (v *Validator) ValidateServer(name string, server *mcp.Server) []*ValidationError {
	var errs []*ValidationError

	errs = append(errs, v.validateName(name)...)

	if !slices.Contains(validTransports, server.Transport) {
		errs = append(errs, &ValidationError{
			ServerName: name,
			Field:      "transport",
			Message:    "transport must be 'stdio', 'http', or empty",
			Severity:   SeverityError,
			Err:        ErrInvalidTransport,
		})
	}

	errs = append(errs, v.validateTransportFields(name, server)...)
	errs = append(errs, v.validateEnv(name, server)...)
	errs = append(errs, v.validateHeaders(name, server)...)

	return errs
}

// validateName checks that name is usable as a namespace and as a
// configuration key segment.
func (v *Validator) validateName(name string) []*ValidationError {
	if name == "" {
		return []*ValidationError{{
			Field:    "name",
			Message:  "server name is required",
			Severity: SeverityError,
			Err:      ErrMissingServerName,
		}}
	}

	if strings.ContainsFunc(name, func(r rune) bool {
		return r == '.' || unicode.IsSpace(r) || unicode.IsControl(r)
	}) {
		return []*ValidationError{{
			ServerName: name,
			Field:      "name",
			Message:    "server name cannot contain dots or whitespace",
			Severity:   SeverityError,
			Err:        ErrInvalidServerName,
		}}
	}
	return nil
}

// validateTransportFields validates that the server has the required fields
// for its transport type.
func (v *Validator) validateTransportFields(name string, server *mcp.Server) []*ValidationError {
	var errs []*ValidationError

	switch server.Transport {
	case mcp.TransportStdio:
		if server.Command == "" {
			errs = append(errs, &ValidationError{
				ServerName: name,
				Field:      "command",
				Message:    "stdio transport requires command",
				Severity:   SeverityError,
				Err:        ErrMissingCommand,
			})
		}
	case mcp.TransportHTTP:
		if server.URL == "" {
			errs = append(errs, &ValidationError{
				ServerName: name,
				Field:      "url",
				Message:    "http transport requires URL",
				Severity:   SeverityError,
				Err:        ErrMissingURL,
			})
		}
	case "":
		// No explicit transport - infer from fields
		if server.Command == "" && server.URL == "" {
			errs = append(errs, &ValidationError{
				ServerName: name,
				Field:      "command/url",
				Message:    "server must have command (for stdio) or URL (for http)",
				Severity:   SeverityError,
			})
		}
	}

	if server.URL != "" && server.IsRemote() {
		if err := checkURL(server.URL); err != "" {
			errs = append(errs, &ValidationError{
				ServerName: name,
				Field:      "url",
				Message:    err,
				Severity:   SeverityError,
				Err:        ErrInvalidURL,
			})
		}
	}

	// Warn about ambiguous configuration
	if server.Command != "" && server.URL != "" {
		msg := "server has both command and URL"
		switch {
		case server.Transport == mcp.TransportHTTP:
			msg += "; transport=http means URL will be used"
		case server.Transport == mcp.TransportStdio:
			msg += "; transport=stdio means command will be used"
		default:
			msg += "; without explicit transport, command takes precedence"
		}
		errs = append(errs, &ValidationError{
			ServerName: name,
			Message:    msg,
			Severity:   SeverityWarning,
		})
	}

	if server.IsRemote() {
		if server.Cwd != "" {
			errs = append(errs, &ValidationError{
				ServerName: name,
				Field:      "cwd",
				Message:    "cwd is ignored for http servers",
				Severity:   SeverityWarning,
			})
		}
		if len(server.Env) > 0 {
			errs = append(errs, &ValidationError{
				ServerName: name,
				Field:      "env",
				Message:    "env is ignored for http servers; use headers",
				Severity:   SeverityWarning,
			})
		}
	} else if len(server.Headers) > 0 {
		errs = append(errs, &ValidationError{
			ServerName: name,
			Field:      "headers",
			Message:    "headers are ignored for stdio servers",
			Severity:   SeverityWarning,
		})
	}

	return errs
}

// checkURL returns a description of what is wrong with raw, or "".
func checkURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "url cannot be parsed: " + err.Error()
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "url must use http or https"
	}
	if u.Host == "" {
		return "url must include a host"
	}
	return ""
}

// validateEnv validates that environment variable keys are non-empty and
// contain no '='.
func (v *Validator) validateEnv(name string, server *mcp.Server) []*ValidationError {
	var errs []*ValidationError

	for key := range server.Env {
		if key == "" || strings.Contains(key, "=") {
			errs = append(errs, &ValidationError{
				ServerName: name,
				Field:      "env",
				Message:    "environment variable key cannot be empty or contain '='",
				Severity:   SeverityError,
				Err:        ErrEmptyEnvKey,
			})
			break // Only report once
		}
	}

	return errs
}

// validateHeaders validates that HTTP header keys are non-empty.
func (v *Validator) validateHeaders(name string, server *mcp.Server) []*ValidationError {
	var errs []*ValidationError

	for key := range server.Headers {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, &ValidationError{
				ServerName: name,
				Field:      "headers",
				Message:    "header key cannot be empty",
				Severity:   SeverityError,
				Err:        ErrEmptyHeaderKey,
			})
			break // Only report once
		}
	}

	return errs
}
