package logging

import "log/slog"

// LevelTrace is below Debug and carries per-call protocol detail.
const LevelTrace = slog.Level(-8)

// LevelFromVerbosity maps the count of -v flags to a level:
// none logs warnings, -v info, -vv debug, -vvv and beyond trace.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// LevelName renders a level, naming LevelTrace "TRACE".
func LevelName(l slog.Level) string {
	if l <= LevelTrace {
		return "TRACE"
	}
	return l.String()
}
