package errors

import (
	"github.com/thoreinstein/mcpbridge/internal/bridge"
)

// FromBridge converts errors returned by the bridge into ExitErrors with a
// suggestion for the user. Configuration mistakes and unknown names are user
// errors; failures talking to a server are system errors. Other errors, and
// errors that already carry an exit code, are returned unchanged.
func FromBridge(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if As(err, &exitErr) {
		return err
	}

	var (
		cfgErr      *bridge.ConfigurationError
		connErr     *bridge.ConnectionError
		notConnErr  *bridge.NotConnectedError
		notFoundErr *bridge.ToolNotFoundError
		execErr     *bridge.ToolExecutionError
	)
	switch {
	case As(err, &cfgErr):
		return NewConfigError(err)
	case As(err, &notFoundErr):
		return NewUserError(err, "Run: mcpbridge server tools "+notFoundErr.Namespace)
	case As(err, &notConnErr):
		return NewUserError(err, "Run: mcpbridge server check "+notConnErr.Namespace)
	case As(err, &connErr):
		return NewSystemError(err, "Check that the server command or URL is reachable: mcpbridge server check "+connErr.Namespace)
	case As(err, &execErr):
		return NewSystemError(err, "")
	default:
		return err
	}
}
