package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/client/transport"
	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/thoreinstein/mcpbridge/internal/logging"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
)

// Tool describes one tool advertised by a server.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// Session is a live client session.
type Session interface {
	// CallTool sends tools/call and returns the result as received. A
	// result flagged as an error is returned, not turned into an error.
	CallTool(ctx context.Context, tool string, args any) (*CallResult, error)
	Close() error
}

// Link is the outcome of a successful connect.
type Link struct {
	Session Session
	// Tools is the discovered catalog in the order the server listed it.
	Tools []Tool
	// DiscoveryErr is set when tools/list failed. Tools is then empty.
	DiscoveryErr error
}

// Connector opens sessions for one transport kind.
//
// Implementations return a *ConfigurationError when the server entry lacks
// what the transport needs and a *ConnectionError when the session cannot be
// established. A failed tool listing is not an error; it is reported through
// Link.DiscoveryErr.
type Connector interface {
	Connect(ctx context.Context, namespace string, server *mcp.Server) (*Link, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context, namespace string, server *mcp.Server) (*Link, error)

// Connect calls f.
func (f ConnectorFunc) Connect(ctx context.Context, namespace string, server *mcp.Server) (*Link, error) {
	return f(ctx, namespace, server)
}

// DefaultClientInfo identifies this client during the initialize handshake.
var DefaultClientInfo = mcpgo.Implementation{Name: "mcpbridge", Version: "dev"}

// sdkClient is the subset of the mcp-go client used to bring a session up.
type sdkClient interface {
	Start(ctx context.Context) error
	Initialize(ctx context.Context, req mcpgo.InitializeRequest) (*mcpgo.InitializeResult, error)
	ListTools(ctx context.Context, req mcpgo.ListToolsRequest) (*mcpgo.ListToolsResult, error)
	GetTransport() transport.Interface
	Close() error
}

// requester sends one JSON-RPC request and waits for its response.
type requester interface {
	SendRequest(ctx context.Context, req transport.JSONRPCRequest) (*transport.JSONRPCResponse, error)
}

// rpcSession issues tool calls directly on the transport. The mcp-go client
// decodes results into Go maps and rejects unknown content kinds; the raw
// response keeps both key order and every block.
type rpcSession struct {
	rpc    requester
	closer interface{ Close() error }
}

func (s *rpcSession) CallTool(ctx context.Context, tool string, args any) (*CallResult, error) {
	resp, err := s.rpc.SendRequest(ctx, transport.JSONRPCRequest{
		JSONRPC: mcpgo.JSONRPC_VERSION,
		ID:      mcpgo.NewRequestId("call-" + uuid.NewString()),
		Method:  string(mcpgo.MethodToolsCall),
		Params:  mcpgo.CallToolParams{Name: tool, Arguments: args},
	})
	if err != nil {
		return nil, errors.Wrap(err, "sending tools/call")
	}
	if resp == nil {
		return nil, errors.New("no response to tools/call")
	}
	if resp.Error != nil {
		return nil, resp.Error.AsError()
	}
	return ParseCallResult(resp.Result)
}

func (s *rpcSession) Close() error {
	return s.closer.Close()
}

// maskedTarget is the server's URL or command line with secrets masked.
func maskedTarget(server *mcp.Server) string {
	if server.IsRemote() {
		return logging.MaskURL(server.URL)
	}
	return strings.Join(append([]string{server.Command}, logging.MaskArgs(server.Args)...), " ")
}

// handshake starts the client, performs initialize and discovers tools.
//
// The transport is started with a context detached from ctx so the session
// outlives the connect call; ctx still bounds initialize and discovery.
func handshake(ctx context.Context, namespace string, server *mcp.Server, c sdkClient, info mcpgo.Implementation, logger *slog.Logger) (*Link, error) {
	fail := func(err error) (*Link, error) {
		if cerr := c.Close(); cerr != nil {
			logger.Debug("closing failed session", "error", cerr)
		}
		return nil, &ConnectionError{
			Namespace: namespace,
			Target:    maskedTarget(server),
			Err:       err,
		}
	}

	if err := c.Start(context.WithoutCancel(ctx)); err != nil {
		return fail(errors.Wrap(err, "starting transport"))
	}

	req := mcpgo.InitializeRequest{}
	req.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = info
	res, err := c.Initialize(ctx, req)
	if err != nil {
		return fail(errors.Wrap(err, "initializing session"))
	}
	logger.Debug("session initialized",
		"server_name", res.ServerInfo.Name,
		"server_version", res.ServerInfo.Version,
		"protocol", res.ProtocolVersion)

	link := &Link{Session: &rpcSession{rpc: c.GetTransport(), closer: c}}
	tools, err := discover(ctx, c)
	if err != nil {
		link.DiscoveryErr = &DiscoveryWarning{Namespace: namespace, Err: err}
		logger.Warn("tool discovery failed, continuing without tools", "error", err)
		return link, nil
	}
	link.Tools = tools
	return link, nil
}

// discover lists every tool the server advertises. The client follows
// pagination cursors itself.
func discover(ctx context.Context, c sdkClient) ([]Tool, error) {
	res, err := c.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		return nil, errors.Wrap(err, "listing tools")
	}

	tools := make([]Tool, 0, len(res.Tools))
	for _, t := range res.Tools {
		schema, err := inputSchema(t)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding input schema of %q", t.Name)
		}
		tools = append(tools, Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schema,
		})
	}
	return tools, nil
}

func inputSchema(t mcpgo.Tool) (json.RawMessage, error) {
	if len(t.RawInputSchema) > 0 {
		return t.RawInputSchema, nil
	}
	return json.Marshal(t.InputSchema)
}
