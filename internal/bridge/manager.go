package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"

	"github.com/thoreinstein/mcpbridge/internal/logging"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
	"github.com/thoreinstein/mcpbridge/internal/value"
)

// ServerSource looks up server configuration by namespace.
type ServerSource interface {
	Server(name string) (*mcp.Server, bool)
}

// Status describes one live connection.
type Status struct {
	Namespace   string
	Transport   string
	Target      string
	Tools       int
	ConnectedAt time.Time

	// DiscoveryErr is set when the server's tool listing failed. It
	// distinguishes a server with no tools from one whose listing is broken.
	DiscoveryErr error
}

// Healthy reports whether tool discovery succeeded.
func (s Status) Healthy() bool {
	return s.DiscoveryErr == nil
}

type connection struct {
	namespace    string
	server       *mcp.Server
	session      Session
	tools        []Tool
	discoveryErr error
	connectedAt  time.Time
}

func (c *connection) hasTool(name string) bool {
	return slices.ContainsFunc(c.tools, func(t Tool) bool { return t.Name == name })
}

func (c *connection) toolNames() []string {
	names := make([]string, len(c.tools))
	for i, t := range c.tools {
		names[i] = t.Name
	}
	return names
}

// Manager owns the live connections to configured servers, one per
// namespace, and routes tool calls to them.
//
// A Manager is safe for concurrent use. Its lock is never held while
// talking to a server.
type Manager struct {
	source     ServerSource
	connectors map[string]Connector
	logger     *slog.Logger
	clientInfo mcpgo.Implementation

	mu    sync.RWMutex
	conns map[string]*connection

	flight singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for connection lifecycle and call tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithConnector registers c for servers using the given transport,
// replacing the built-in connector for that transport.
func WithConnector(transport string, c Connector) Option {
	return func(m *Manager) {
		m.connectors[transport] = c
	}
}

// WithClientInfo sets the client name and version sent by the built-in
// connectors during the handshake.
func WithClientInfo(name, version string) Option {
	return func(m *Manager) {
		m.clientInfo = mcpgo.Implementation{Name: name, Version: version}
	}
}

// NewManager returns a Manager resolving servers through source. Servers
// using the stdio and http transports are handled by the built-in
// connectors unless replaced with [WithConnector].
func NewManager(source ServerSource, opts ...Option) *Manager {
	m := &Manager{
		source:     source,
		connectors: make(map[string]Connector),
		logger:     logging.NewDiscard(),
		clientInfo: DefaultClientInfo,
		conns:      make(map[string]*connection),
	}
	for _, opt := range opts {
		opt(m)
	}

	if _, ok := m.connectors[mcp.TransportStdio]; !ok {
		m.connectors[mcp.TransportStdio] = &StdioConnector{Logger: m.logger, ClientInfo: m.clientInfo}
	}
	if _, ok := m.connectors[mcp.TransportHTTP]; !ok {
		m.connectors[mcp.TransportHTTP] = &HTTPConnector{Logger: m.logger, ClientInfo: m.clientInfo}
	}
	return m
}

// Connect establishes the connection for name. It is a no-op when name is
// already connected. Concurrent calls for the same namespace share a single
// attempt and its outcome; the context of the caller that started the
// attempt governs it.
func (m *Manager) Connect(ctx context.Context, name string) error {
	if m.HasServer(name) {
		return nil
	}

	_, err, _ := m.flight.Do(name, func() (any, error) {
		if m.HasServer(name) {
			return nil, nil
		}
		return nil, m.connect(ctx, name)
	})
	return err
}

func (m *Manager) connect(ctx context.Context, name string) error {
	server, ok := m.lookup(name)
	if !ok {
		return &ConfigurationError{
			Namespace: name,
			Key:       "servers." + name,
			Reason:    "no server is configured under this name",
		}
	}

	kind := server.EffectiveTransport()
	connector, ok := m.connectors[kind]
	if !ok {
		return &ConfigurationError{
			Namespace: name,
			Key:       "servers." + name + ".transport",
			Reason:    fmt.Sprintf("unsupported transport %q (expected stdio or http)", kind),
		}
	}

	logger := m.logger.With("namespace", name)
	logger.Debug("connecting", "transport", kind, "target", maskedTarget(server))

	link, err := connector.Connect(ctx, name, server)
	if err != nil {
		logger.Debug("connect failed", "error", err)
		if IsBridgeError(err) {
			return err
		}
		return &ConnectionError{Namespace: name, Target: maskedTarget(server), Err: err}
	}
	if link == nil || link.Session == nil {
		return &ConnectionError{
			Namespace: name,
			Target:    maskedTarget(server),
			Err:       errors.New("connector returned no session"),
		}
	}

	conn := &connection{
		namespace:    name,
		server:       server,
		session:      link.Session,
		tools:        slices.Clone(link.Tools),
		discoveryErr: link.DiscoveryErr,
		connectedAt:  time.Now(),
	}

	m.mu.Lock()
	m.conns[name] = conn
	m.mu.Unlock()

	logger.Info("connected",
		"transport", kind,
		"target", maskedTarget(server),
		"tools", len(conn.tools))
	return nil
}

// lookup returns a private copy of the configuration for name.
func (m *Manager) lookup(name string) (*mcp.Server, bool) {
	if m.source == nil {
		return nil, false
	}
	server, ok := m.source.Server(name)
	if !ok || server == nil {
		return nil, false
	}
	snapshot := server.Clone()
	snapshot.Name = name
	return snapshot, true
}

// IsConfigured reports whether the source has configuration for name.
func (m *Manager) IsConfigured(name string) bool {
	_, ok := m.lookup(name)
	return ok
}

// HasServer reports whether name has a live connection.
func (m *Manager) HasServer(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.conns[name]
	return ok
}

// Tools returns the tools discovered on name, in discovery order. It returns
// an empty slice when name is not connected.
func (m *Manager) Tools(name string) []Tool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.conns[name]
	if !ok {
		return []Tool{}
	}
	return append([]Tool{}, conn.tools...)
}

// ConnectedServers returns the connected namespaces in sorted order.
func (m *Manager) ConnectedServers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := slices.Sorted(maps.Keys(m.conns))
	if names == nil {
		return []string{}
	}
	return names
}

// Status describes the connection for name.
func (m *Manager) Status(name string) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.conns[name]
	if !ok {
		return Status{}, false
	}
	return Status{
		Namespace:    name,
		Transport:    conn.server.EffectiveTransport(),
		Target:       maskedTarget(conn.server),
		Tools:        len(conn.tools),
		ConnectedAt:  conn.connectedAt,
		DiscoveryErr: conn.discoveryErr,
	}, true
}

// CallTool invokes tool on the server connected under name and interprets
// its result.
//
// It fails with *NotConnectedError when name has no connection,
// *ToolNotFoundError when the server did not advertise tool, and
// *ToolExecutionError when the call fails in transport or the server flags
// its result as an error.
func (m *Manager) CallTool(ctx context.Context, name, tool string, args *value.Map) (value.Value, error) {
	m.mu.RLock()
	conn, ok := m.conns[name]
	m.mu.RUnlock()
	if !ok {
		return nil, &NotConnectedError{Namespace: name}
	}
	if !conn.hasTool(tool) {
		return nil, &ToolNotFoundError{Namespace: name, Tool: tool, Known: conn.toolNames()}
	}

	logger := m.logger.With("namespace", name, "tool", tool, "call_id", uuid.NewString())
	logger.Debug("calling tool", "args", args.Len())
	start := time.Now()

	res, err := conn.session.CallTool(ctx, tool, value.Encode(args))
	if err != nil {
		logger.Debug("tool call failed", "duration", time.Since(start), "error", err)
		if IsBridgeError(err) {
			return nil, err
		}
		return nil, &ToolExecutionError{Namespace: name, Tool: tool, Err: err}
	}
	if res == nil {
		logger.Debug("tool call returned no result", "duration", time.Since(start))
		return value.Null{}, nil
	}

	if res.IsError {
		msg := ErrorText(res.Content)
		if msg == "" {
			msg = errorPlaceholder
		}
		logger.Debug("tool reported an error", "duration", time.Since(start))
		return nil, &ToolExecutionError{Namespace: name, Tool: tool, Message: msg}
	}

	logger.Debug("tool call finished",
		"duration", time.Since(start),
		"blocks", len(res.Content),
		"structured", res.Structured != nil)
	return Interpret(res.Content, res.Structured), nil
}

// Disconnect closes the connection for name. The connection is forgotten
// even when closing fails; failures are logged, never returned.
func (m *Manager) Disconnect(name string) {
	m.mu.Lock()
	conn, ok := m.conns[name]
	delete(m.conns, name)
	m.mu.Unlock()

	if ok {
		_ = m.close(conn)
	}
}

// DisconnectAll closes every connection concurrently and waits for all of
// them. A failure or panic in one close does not affect the others.
func (m *Manager) DisconnectAll() {
	m.mu.Lock()
	conns := m.conns
	m.conns = make(map[string]*connection)
	m.mu.Unlock()

	if len(conns) == 0 {
		return
	}

	p := pool.New().WithErrors()
	for _, conn := range conns {
		p.Go(func() error {
			return m.close(conn)
		})
	}
	if err := p.Wait(); err != nil {
		m.logger.Debug("some connections did not close cleanly", "error", err)
	}
}

func (m *Manager) close(conn *connection) error {
	logger := m.logger.With("namespace", conn.namespace)

	var err error
	if r := panics.Try(func() { err = conn.session.Close() }); r != nil {
		err = r.AsError()
	}
	if err != nil {
		err = errors.Wrapf(err, "closing %q", conn.namespace)
		logger.Warn("closing connection failed", "error", err)
		return err
	}
	logger.Debug("disconnected")
	return nil
}
