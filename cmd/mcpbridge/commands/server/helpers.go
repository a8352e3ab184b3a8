package server

import (
	"context"
	"strings"

	"github.com/thoreinstein/mcpbridge/cmd"
	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
	"github.com/thoreinstein/mcpbridge/internal/bridge"
	"github.com/thoreinstein/mcpbridge/internal/errors"
	"github.com/thoreinstein/mcpbridge/internal/logging"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// managerOptions are appended to the options of every manager the commands
// build. Tests use it to replace the transport connectors.
var managerOptions []bridge.Option

// newManager returns a manager over the loaded configuration. Bridge logs
// are discarded unless tracing is enabled.
func newManager(ctx context.Context) *bridge.Manager {
	logger := logging.NewDiscard()
	if flags.Trace() {
		logger = logging.FromContext(ctx)
	}

	opts := []bridge.Option{
		bridge.WithLogger(logger),
		bridge.WithClientInfo(cmd.Name, cmd.Version),
	}
	opts = append(opts, managerOptions...)
	return bridge.NewManager(flags.Config(), opts...)
}

// parseKeyValueSlice parses a slice of KEY=VALUE strings into a map.
// Returns an error if any entry is malformed.
func parseKeyValueSlice(entries []string, flagName string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, errors.Newf("invalid %s format %q: expected KEY=VALUE", flagName, entry)
		}
		result[key] = value
	}
	return result, nil
}

// truncate shortens s to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
