// Package bridge connects to MCP servers and calls their tools with typed
// values.
//
// A [Manager] keeps at most one live connection per namespace. Namespaces
// are resolved to server configuration through a [ServerSource], and a
// [Connector] per transport kind brings the session up:
//
//	m := bridge.NewManager(cfg, bridge.WithLogger(logger))
//	defer m.DisconnectAll()
//
//	if err := m.Connect(ctx, "github"); err != nil {
//		return err
//	}
//	args := value.NewMap().Set("owner", value.String("golang"))
//	v, err := m.CallTool(ctx, "github", "list_repos", args)
//
// # Transports
//
// [StdioConnector] spawns the configured command and speaks over its
// stdin/stdout; the subprocess lives until the connection is closed.
// [HTTPConnector] opens a streamable HTTP session whose every request
// carries the configured headers. Both perform the initialize handshake and list the server's tools.
// A failed tool listing leaves the connection usable with no tools and is
// reported by [Manager.Status].
//
// # Results
//
// Tool calls are read from the raw response by [ParseCallResult], which
// keeps object key order and blocks of any kind. [Interpret] turns the
// result into a [value.Value]: structured content wins, a single text block is parsed as JSON when possible, several text
// blocks become a list, and anything else is rendered as text.
//
// # Errors
//
// Every error this package returns is one of [ConfigurationError],
// [ConnectionError], [NotConnectedError], [ToolNotFoundError] or
// [ToolExecutionError]; [IsBridgeError] recognizes them through wrapping.
package bridge
