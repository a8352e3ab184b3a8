package mcp

import (
	"maps"
	"slices"
	"strings"
)

// Transport type constants for MCP server communication.
const (
	// TransportStdio indicates a local subprocess spoken to over stdin/stdout.
	// This is the default transport when a Command is specified.
	TransportStdio = "stdio"

	// TransportHTTP indicates a remote server reached over streamable HTTP.
	// This is the default transport when only a URL is specified.
	TransportHTTP = "http"
)

// Server is the configuration of one MCP server. The server's name is the
// key it is stored under in [Config.Servers]; Name mirrors that key and is
// never written to configuration files.
type Server struct {
	// Name is the namespace the server is registered under.
	Name string `json:"-" yaml:"-" toml:"-" mapstructure:"-"`

	// Transport is "stdio" or "http". Empty means inferred, see
	// [Server.EffectiveTransport].
	Transport string `json:"transport,omitempty" yaml:"transport,omitempty" toml:"transport,omitempty" mapstructure:"transport"`

	// Command is the executable for stdio servers.
	Command string `json:"command,omitempty" yaml:"command,omitempty" toml:"command,omitempty" mapstructure:"command"`

	// Args are passed to Command.
	Args []string `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty" mapstructure:"args"`

	// Env is overlaid on the inherited environment of the subprocess.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty" toml:"env,omitempty" mapstructure:"env"`

	// Cwd is the working directory of the subprocess. Empty inherits ours.
	Cwd string `json:"cwd,omitempty" yaml:"cwd,omitempty" toml:"cwd,omitempty" mapstructure:"cwd"`

	// URL is the endpoint for http servers.
	URL string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty" mapstructure:"url"`

	// Headers are attached to every outbound request of http servers.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" toml:"headers,omitempty" mapstructure:"headers"`

	// Disabled servers stay in the file but are skipped by bulk operations.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty" mapstructure:"disabled"`
}

// EffectiveTransport returns the explicit transport, or infers one:
// a Command means stdio, a lone URL means http. A server with neither is
// treated as stdio so that validation reports the missing command.
func (s *Server) EffectiveTransport() string {
	if s.Transport != "" {
		return s.Transport
	}
	if s.Command == "" && s.URL != "" {
		return TransportHTTP
	}
	return TransportStdio
}

// IsLocal returns true if this server is spawned as a subprocess.
func (s *Server) IsLocal() bool {
	return s.EffectiveTransport() == TransportStdio
}

// IsRemote returns true if this server is reached over HTTP.
func (s *Server) IsRemote() bool {
	return s.EffectiveTransport() == TransportHTTP
}

// Target describes what a connection attempt reaches for: the command line
// of stdio servers or the URL of http servers.
func (s *Server) Target() string {
	if s.IsRemote() {
		return s.URL
	}
	if len(s.Args) == 0 {
		return s.Command
	}
	return s.Command + " " + strings.Join(s.Args, " ")
}

// Clone returns a deep copy of s.
func (s *Server) Clone() *Server {
	if s == nil {
		return nil
	}
	c := *s
	c.Args = slices.Clone(s.Args)
	c.Env = maps.Clone(s.Env)
	c.Headers = maps.Clone(s.Headers)
	return &c
}

// Config holds server definitions keyed by namespace.
type Config struct {
	// Servers maps server names to their configurations.
	Servers map[string]*Server `json:"servers" yaml:"servers" toml:"servers"`
}

// NewConfig creates a new Config with initialized maps.
func NewConfig() *Config {
	return &Config{
		Servers: make(map[string]*Server),
	}
}

// Normalize sets each server's Name from its key and drops nil entries.
// Decoders call it after reading a file.
func (c *Config) Normalize() {
	if c.Servers == nil {
		c.Servers = make(map[string]*Server)
	}
	for name, s := range c.Servers {
		if s == nil {
			delete(c.Servers, name)
			continue
		}
		s.Name = name
	}
}

// Server returns the configuration registered under name.
func (c *Config) Server(name string) (*Server, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.Servers[name]
	return s, ok && s != nil
}

// Names returns the configured server names in sorted order.
func (c *Config) Names() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.Servers))
}
