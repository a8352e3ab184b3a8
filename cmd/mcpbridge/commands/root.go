// Package commands implements the CLI commands for mcpbridge.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd"
	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/catalog"
	configcmd "github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/config"
	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/server"
	"github.com/thoreinstein/mcpbridge/internal/backup"
	"github.com/thoreinstein/mcpbridge/internal/config"
	"github.com/thoreinstein/mcpbridge/internal/errors"
	"github.com/thoreinstein/mcpbridge/internal/logging"
	"github.com/thoreinstein/mcpbridge/internal/paths"
)

// configPath holds the value of the --config flag.
var configPath string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// traceFlag holds the value of the --trace flag.
var traceFlag bool

// logFileHandle is the open --log-file, closed when the command finishes.
var logFileHandle *os.File

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: ./config.* or $XDG_CONFIG_HOME/mcpbridge/config.*)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format: text, json (default from config, else text)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false,
		"log every connection and tool call at debug level")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate(cmd.Name + " version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(server.Cmd)
	rootCmd.AddCommand(catalog.Cmd)
	rootCmd.AddCommand(configcmd.Cmd)

	backup.Version = cmd.Version
}

func initConfig() {
	config.Init()
	if configPath != "" {
		path, err := paths.ExpandHome(configPath)
		if err != nil {
			path = configPath
		}
		flags.SetConfigFile(path)
	}
	// Capture load errors for later reporting
	cfg, err := config.Load(configPath)
	flags.SetConfig(cfg)
	flags.SetLoadError(err)
}

var rootCmd = &cobra.Command{
	Use:   "mcpbridge",
	Short: "Connect to MCP servers and call their tools",
	Long: `mcpbridge connects to Model Context Protocol (MCP) servers, discovers the
tools they expose and invokes them with structured arguments.

Servers are declared in a config file under "servers". Local servers are
spawned as subprocesses and spoken to over stdio; remote servers are reached
over streamable HTTP. Tool results are decoded into plain values and printed
as JSON.`,
	Example: `  # Register a local server
  mcpbridge server add fs -- npx -y @modelcontextprotocol/server-filesystem /tmp

  # Install a well-known server from the built-in catalog
  mcpbridge catalog install github --env GITHUB_PERSONAL_ACCESS_TOKEN=ghp_xxx

  # List tools and call one
  mcpbridge server tools fs
  mcpbridge server call fs list_directory path=/tmp

  See Also: mcpbridge server, mcpbridge catalog, mcpbridge config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if err := flags.LoadError(); err != nil && cmd.Annotations[flags.LenientConfig] != "true" {
			return errors.NewUserError(err, "Run: mcpbridge config validate")
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		closeLogFile()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"), "cannot use --quiet and --verbose together")
	}

	cfg := flags.Config()
	trace := traceFlag || (cfg != nil && cfg.Trace)
	flags.SetTrace(trace)

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("MCPBRIDGE_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}
	if trace && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	format := logFormat
	if format == "" && cfg != nil {
		format = cfg.LogFormat
	}
	switch logging.Format(format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return errors.NewUserError(errors.Newf("invalid --log-format %q", format), "use text or json")
	}

	handlers := []slog.Handler{
		logging.New(logging.Config{
			Level:  level,
			Format: logging.Format(format),
			Output: cmd.ErrOrStderr(),
		}).Handler(),
	}

	closeLogFile()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		logFileHandle = f
		// File output uses JSON format
		handlers = append(handlers, logging.New(logging.Config{
			Level:  level,
			Format: logging.FormatJSON,
			Output: f,
		}).Handler())
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// closeLogFile closes the --log-file opened by setupLogging, if any.
func closeLogFile() {
	if logFileHandle == nil {
		return
	}
	err := logFileHandle.Close()
	logFileHandle = nil
	if err != nil {
		fmt.Fprintf(os.Stderr, "closing log file: %v\n", err)
	}
}

// Execute runs the root command. Interrupts cancel the command's context
// so that in-flight connections and tool calls are abandoned.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer closeLogFile()
	return errors.FromBridge(rootCmd.ExecuteContext(ctx))
}

// Report prints err and its suggestion, if any, to w and returns the
// process exit code.
func Report(w io.Writer, err error) int {
	code := errors.ExitUser
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
	}

	fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)
	if exitErr != nil && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("Hint:"), exitErr.Suggestion)
	}
	return code
}
