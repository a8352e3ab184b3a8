package bridge

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/util"
)

// sdkLogger routes mcp-go transport logs into slog. The transports are
// chatty at info level, so their info lines are demoted to debug.
type sdkLogger struct {
	logger *slog.Logger
}

var _ util.Logger = sdkLogger{}

func (l sdkLogger) Infof(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "source", "mcp-go")
}

func (l sdkLogger) Errorf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...), "source", "mcp-go")
}
