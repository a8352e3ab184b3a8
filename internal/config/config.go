// Package config provides configuration management for mcpbridge using Viper.
package config

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/mcpbridge/internal/mcp"
	"github.com/thoreinstein/mcpbridge/internal/mcp/parser"
	"github.com/thoreinstein/mcpbridge/internal/paths"
)

// AppName is the application name used for config file naming and as the
// environment variable prefix.
const AppName = "mcpbridge"

// EnvPrefix prefixes environment variables that override settings,
// e.g. MCPBRIDGE_TRACE.
const EnvPrefix = "MCPBRIDGE"

// Config represents the top-level configuration structure.
type Config struct {
	// Trace enables connection lifecycle and tool call logging.
	Trace bool `mapstructure:"trace" yaml:"trace"`

	// LogFormat is "text" or "json".
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Path is the file the configuration was read from. Empty when no file
	// was found.
	Path string `mapstructure:"-" yaml:"-"`

	// Servers holds the server definitions, keyed by namespace.
	Servers *mcp.Config `mapstructure:"-" yaml:"-"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
// Any previous Viper state is discarded.
func Init() {
	viper.Reset()

	// Config file settings. The type follows the extension of the file found.
	viper.SetConfigName("config")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("trace", false)
	viper.SetDefault("log_format", "text")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
//
// Settings are read through Viper. The servers table is decoded straight
// from the file because Viper lowercases map keys, which would corrupt
// server names and environment variable names.
func Load(path string) (*Config, error) {
	if path != "" {
		expanded, err := paths.ExpandHome(path)
		if err != nil {
			return nil, errors.Wrap(err, "resolving config path")
		}
		viper.SetConfigFile(expanded)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "":
			// The user named a file, so it must exist and parse.
			return nil, errors.Wrapf(err, "reading config file %s", path)
		case !errors.As(err, &notFound):
			return nil, errors.Wrap(err, "reading config file")
		}
		// Implicit load with no file: use defaults.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	cfg.Path = viper.ConfigFileUsed()
	cfg.Servers = mcp.NewConfig()
	if cfg.Path != "" {
		servers, err := parser.ParseFile(cfg.Path)
		if err != nil {
			return nil, errors.Wrap(err, "reading servers")
		}
		cfg.Servers = servers
	}

	if errs, _ := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "validating config")
	}

	return &cfg, nil
}

// Server returns the server configured under name.
func (c *Config) Server(name string) (*mcp.Server, bool) {
	if c == nil {
		return nil, false
	}
	return c.Servers.Server(name)
}

// Names returns every configured server name in sorted order.
func (c *Config) Names() []string {
	if c == nil {
		return nil
	}
	return c.Servers.Names()
}

// EnabledNames returns the names of servers that are not disabled, in
// sorted order. Bulk operations act on these.
func (c *Config) EnabledNames() []string {
	var names []string
	for _, name := range c.Names() {
		if s, ok := c.Server(name); ok && !s.Disabled {
			names = append(names, name)
		}
	}
	return names
}

// WritePath is the file that server edits are written to: the file the
// configuration was loaded from, or the default location.
func (c *Config) WritePath() string {
	if c != nil && c.Path != "" {
		return c.Path
	}
	return paths.DefaultConfigFile()
}
