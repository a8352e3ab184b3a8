// Package flags provides shared state between the root command and the
// noun subpackages (server, catalog, config). It exists to avoid import
// cycles.
package flags

import "github.com/thoreinstein/mcpbridge/internal/config"

// LenientConfig is the command annotation that lets a command run when the
// config file failed to load. Commands that repair the file set it to "true".
const LenientConfig = "lenient-config"

var (
	cfg     *config.Config
	cfgFile string
	loadErr error
	trace   bool
)

// Config returns the configuration loaded by the root command. It is nil
// when loading failed.
func Config() *config.Config {
	return cfg
}

// SetConfig replaces the loaded configuration. Tests use it to inject
// server definitions.
func SetConfig(c *config.Config) {
	cfg = c
}

// ConfigFile returns the file commands should read and write: the --config
// path when given, else the file that was loaded, else the default
// location.
func ConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return cfg.WritePath()
}

// SetConfigFile records the --config path.
func SetConfigFile(path string) {
	cfgFile = path
}

// LoadError returns the error from loading the config file, if any.
func LoadError() error {
	return loadErr
}

// SetLoadError records the error from loading the config file.
func SetLoadError(err error) {
	loadErr = err
}

// Trace reports whether bridge call tracing is enabled, either through
// --trace or the trace setting.
func Trace() bool {
	return trace
}

// SetTrace sets the tracing state.
func SetTrace(on bool) {
	trace = on
}
