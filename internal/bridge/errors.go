package bridge

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// errorMarker is embedded by every error type defined in this package.
type errorMarker struct{}

func (errorMarker) bridgeError() {}

type bridgeError interface {
	error
	bridgeError()
}

// IsBridgeError reports whether err, or any error it wraps, was produced by
// this package.
func IsBridgeError(err error) bool {
	var be bridgeError
	return errors.As(err, &be)
}

// ConfigurationError reports a server entry that is missing or unusable.
type ConfigurationError struct {
	errorMarker

	// Namespace is the server name.
	Namespace string
	// Key is the dotted configuration key at fault, e.g. "servers.github.url".
	Key string
	// Reason describes what is wrong with Key.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("mcp server %q: invalid configuration at %s: %s", e.Namespace, e.Key, e.Reason)
}

// ConnectionError reports a failure to start or initialize a session.
type ConnectionError struct {
	errorMarker

	Namespace string
	// Target is the command line or URL that was reached for.
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mcp server %q: failed to connect to %s: %v", e.Namespace, e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NotConnectedError is returned when a call names a namespace with no live
// connection.
type NotConnectedError struct {
	errorMarker

	Namespace string
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("mcp server %q is not connected", e.Namespace)
}

// ToolNotFoundError is returned when the connected server did not advertise
// the requested tool.
type ToolNotFoundError struct {
	errorMarker

	Namespace string
	Tool      string
	// Known lists the tools the server did advertise, in discovery order.
	Known []string
}

func (e *ToolNotFoundError) Error() string {
	known := "no tools available"
	if len(e.Known) > 0 {
		known = "available tools: " + strings.Join(e.Known, ", ")
	}
	return fmt.Sprintf("mcp server %q has no tool %q (%s)", e.Namespace, e.Tool, known)
}

// ToolExecutionError reports a failed invocation. Either the transport
// failed (Err is set) or the server flagged its result as an error
// (Message holds the server's text).
type ToolExecutionError struct {
	errorMarker

	Namespace string
	Tool      string
	Message   string
	Err       error
}

func (e *ToolExecutionError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("mcp tool %s.%s failed: %s", e.Namespace, e.Tool, msg)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// DiscoveryWarning records a failed tools/list. It is logged and kept on the
// connection; it never fails a connect.
type DiscoveryWarning struct {
	errorMarker

	Namespace string
	Err       error
}

func (e *DiscoveryWarning) Error() string {
	return fmt.Sprintf("mcp server %q: tool discovery failed: %v", e.Namespace, e.Err)
}

func (e *DiscoveryWarning) Unwrap() error {
	return e.Err
}
