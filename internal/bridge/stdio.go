package bridge

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/thoreinstein/mcpbridge/internal/logging"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
	"github.com/thoreinstein/mcpbridge/internal/paths"
)

// maxStderrLine caps how much of a single stderr line is logged.
const maxStderrLine = 4096

// StdioConnector spawns servers as subprocesses and speaks to them over
// stdin/stdout.
type StdioConnector struct {
	Logger     *slog.Logger
	ClientInfo mcpgo.Implementation
}

// NewStdioConnector returns a StdioConnector logging to logger.
func NewStdioConnector(logger *slog.Logger) *StdioConnector {
	return &StdioConnector{Logger: logger, ClientInfo: DefaultClientInfo}
}

// Connect spawns the configured command and performs the handshake.
//
// The subprocess inherits this process's environment overlaid with the
// configured env. It is not bound to ctx: it lives until the session is
// closed.
func (c *StdioConnector) Connect(ctx context.Context, namespace string, server *mcp.Server) (*Link, error) {
	if server.Command == "" {
		return nil, &ConfigurationError{
			Namespace: namespace,
			Key:       "servers." + namespace + ".command",
			Reason:    "stdio servers require a command",
		}
	}

	logger := c.logger().With("namespace", namespace)

	dir := ""
	if server.Cwd != "" {
		expanded, err := paths.ExpandHome(server.Cwd)
		if err != nil {
			return nil, &ConfigurationError{
				Namespace: namespace,
				Key:       "servers." + namespace + ".cwd",
				Reason:    err.Error(),
			}
		}
		dir = expanded
	}

	t := transport.NewStdioWithOptions(server.Command, envList(server.Env), server.Args,
		transport.WithCommandFunc(func(_ context.Context, command string, env, args []string) (*exec.Cmd, error) {
			cmd := exec.Command(command, args...)
			cmd.Env = mergeEnv(os.Environ(), env)
			cmd.Dir = dir
			return cmd, nil
		}),
		transport.WithCommandLogger(sdkLogger{logger}),
	)

	logger.Debug("spawning server",
		"command", server.Command,
		"args", logging.MaskArgs(server.Args),
		"cwd", dir)

	sc := &stdioClient{Client: client.NewClient(t), logger: logger}
	return handshake(ctx, namespace, server, sc, c.clientInfo(), logger)
}

func (c *StdioConnector) logger() *slog.Logger {
	if c.Logger == nil {
		return logging.NewDiscard()
	}
	return c.Logger
}

func (c *StdioConnector) clientInfo() mcpgo.Implementation {
	if c.ClientInfo.Name == "" {
		return DefaultClientInfo
	}
	return c.ClientInfo
}

// stdioClient drains the subprocess's stderr into the log once started. An
// unread stderr pipe would eventually block a chatty server.
type stdioClient struct {
	*client.Client
	logger *slog.Logger
}

func (c *stdioClient) Start(ctx context.Context) error {
	if err := c.Client.Start(ctx); err != nil {
		return err
	}
	if stderr, ok := client.GetStderr(c.Client); ok && stderr != nil {
		go drainStderr(stderr, c.logger)
	}
	return nil
}

func drainStderr(r io.Reader, logger *slog.Logger) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			if len(line) > maxStderrLine {
				line = line[:maxStderrLine]
			}
			logger.Debug("server stderr", "line", line)
		}
		if err != nil {
			return
		}
	}
}

// envList renders env as KEY=VALUE pairs in key order.
func envList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	list := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		list = append(list, k+"="+env[k])
	}
	return list
}

// mergeEnv overlays KEY=VALUE pairs on base. Overlay entries replace base
// entries with the same key; each key appears once.
func mergeEnv(base, overlay []string) []string {
	if len(overlay) == 0 {
		return base
	}

	override := make(map[string]bool, len(overlay))
	for _, kv := range overlay {
		k, _, _ := strings.Cut(kv, "=")
		override[k] = true
	}

	merged := make([]string, 0, len(base)+len(overlay))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if override[k] {
			continue
		}
		merged = append(merged, kv)
	}
	return append(merged, overlay...)
}
