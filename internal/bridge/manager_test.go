package bridge_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/thoreinstein/mcpbridge/internal/bridge"
	"github.com/thoreinstein/mcpbridge/internal/bridge/mocks"
	"github.com/thoreinstein/mcpbridge/internal/logging"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
	"github.com/thoreinstein/mcpbridge/internal/value"
)

type servers map[string]*mcp.Server

func (s servers) Server(name string) (*mcp.Server, bool) {
	srv, ok := s[name]
	return srv, ok
}

func stdioServer(command string, args ...string) *mcp.Server {
	return &mcp.Server{Command: command, Args: args}
}

func newManager(t *testing.T, source bridge.ServerSource, connector bridge.Connector) *bridge.Manager {
	t.Helper()
	return bridge.NewManager(source,
		bridge.WithLogger(logging.ForTest(t)),
		bridge.WithConnector(mcp.TransportStdio, connector),
		bridge.WithConnector(mcp.TransportHTTP, connector),
	)
}

// connected returns a manager with one namespace connected to session.
func connected(t *testing.T, name string, session bridge.Session, tools ...string) *bridge.Manager {
	t.Helper()
	link := &bridge.Link{Session: session}
	for _, tool := range tools {
		link.Tools = append(link.Tools, bridge.Tool{Name: tool})
	}

	connector := mocks.NewMockConnector(t)
	connector.EXPECT().Connect(mock.Anything, name, mock.Anything).Return(link, nil).Once()

	m := newManager(t, servers{name: stdioServer("server-" + name)}, connector)
	require.NoError(t, m.Connect(context.Background(), name))
	return m
}

func TestManager_Connect(t *testing.T) {
	session := mocks.NewMockSession(t)
	connector := mocks.NewMockConnector(t)
	connector.EXPECT().
		Connect(mock.Anything, "github", mock.MatchedBy(func(s *mcp.Server) bool {
			return s.Command == "npx" && s.Name == "github"
		})).
		Return(&bridge.Link{
			Session: session,
			Tools: []bridge.Tool{
				{Name: "search_repos"},
				{Name: "create_issue"},
			},
		}, nil).
		Once()

	source := servers{"github": {Name: "github", Command: "npx", Args: []string{"-y", "server-github"}}}
	m := newManager(t, source, connector)

	require.NoError(t, m.Connect(context.Background(), "github"))
	require.NoError(t, m.Connect(context.Background(), "github"), "second connect is a no-op")

	assert.True(t, m.HasServer("github"))
	assert.Equal(t, []string{"github"}, m.ConnectedServers())

	tools := m.Tools("github")
	require.Len(t, tools, 2)
	assert.Equal(t, "search_repos", tools[0].Name)
	assert.Equal(t, "create_issue", tools[1].Name)

	status, ok := m.Status("github")
	require.True(t, ok)
	assert.Equal(t, mcp.TransportStdio, status.Transport)
	assert.Equal(t, "npx -y server-github", status.Target)
	assert.Equal(t, 2, status.Tools)
	assert.True(t, status.Healthy())
	assert.False(t, status.ConnectedAt.IsZero())
}

func TestManager_Connect_NotConfigured(t *testing.T) {
	connector := mocks.NewMockConnector(t)
	m := newManager(t, servers{}, connector)

	err := m.Connect(context.Background(), "missing")

	var cfgErr *bridge.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "missing", cfgErr.Namespace)
	assert.Equal(t, "servers.missing", cfgErr.Key)
	assert.False(t, m.HasServer("missing"))
	assert.False(t, m.IsConfigured("missing"))
}

func TestManager_Connect_UnsupportedTransport(t *testing.T) {
	connector := mocks.NewMockConnector(t)
	m := newManager(t, servers{"legacy": {Transport: "sse", URL: "http://localhost/sse"}}, connector)

	err := m.Connect(context.Background(), "legacy")

	var cfgErr *bridge.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "servers.legacy.transport", cfgErr.Key)
	assert.Contains(t, err.Error(), `"sse"`)
	assert.True(t, m.IsConfigured("legacy"))
	assert.False(t, m.HasServer("legacy"))
}

func TestManager_Connect_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantSame bool
	}{
		{
			name:     "connection error propagates",
			err:      &bridge.ConnectionError{Namespace: "broken", Target: "false", Err: errors.New("exit status 1")},
			wantSame: true,
		},
		{
			name:     "configuration error propagates",
			err:      &bridge.ConfigurationError{Namespace: "broken", Key: "servers.broken.command", Reason: "empty"},
			wantSame: true,
		},
		{
			name: "foreign error becomes connection error",
			err:  errors.New("dial tcp: refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connector := mocks.NewMockConnector(t)
			connector.EXPECT().Connect(mock.Anything, "broken", mock.Anything).Return(nil, tt.err)

			m := newManager(t, servers{"broken": stdioServer("false")}, connector)
			err := m.Connect(context.Background(), "broken")
			require.Error(t, err)
			assert.False(t, m.HasServer("broken"))
			assert.True(t, bridge.IsBridgeError(err))

			if tt.wantSame {
				assert.Same(t, tt.err, err)
				return
			}
			var connErr *bridge.ConnectionError
			require.True(t, errors.As(err, &connErr))
			assert.Equal(t, "false", connErr.Target)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestManager_Connect_MasksSecretArgs(t *testing.T) {
	connector := mocks.NewMockConnector(t)
	connector.EXPECT().Connect(mock.Anything, "gh", mock.Anything).Return(nil, errors.New("exit status 1"))

	m := newManager(t, servers{"gh": stdioServer("gh-mcp", "--token=ghp_abcdefgh1234", "stdio")}, connector)
	err := m.Connect(context.Background(), "gh")

	var connErr *bridge.ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "gh-mcp --token=****1234 stdio", connErr.Target)
	assert.NotContains(t, err.Error(), "ghp_abcdefgh1234")
}

func TestManager_Connect_Concurrent(t *testing.T) {
	session := mocks.NewMockSession(t)
	release := make(chan struct{})
	var attempts atomic.Int32

	connector := bridge.ConnectorFunc(func(ctx context.Context, namespace string, server *mcp.Server) (*bridge.Link, error) {
		attempts.Add(1)
		<-release
		return &bridge.Link{Session: session}, nil
	})

	m := newManager(t, servers{"slow": stdioServer("slow")}, connector)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = m.Connect(context.Background(), "slow")
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), attempts.Load())
	assert.True(t, m.HasServer("slow"))
}

func TestManager_Connect_SnapshotsConfiguration(t *testing.T) {
	session := mocks.NewMockSession(t)
	connector := mocks.NewMockConnector(t)
	connector.EXPECT().Connect(mock.Anything, "fs", mock.Anything).Return(&bridge.Link{Session: session}, nil)

	source := servers{"fs": stdioServer("mcp-fs", "/srv")}
	m := newManager(t, source, connector)
	require.NoError(t, m.Connect(context.Background(), "fs"))

	source["fs"].Args[0] = "/tmp"
	source["fs"].Command = "changed"

	status, ok := m.Status("fs")
	require.True(t, ok)
	assert.Equal(t, "mcp-fs /srv", status.Target)
}

func TestManager_Status_DiscoveryFailure(t *testing.T) {
	session := mocks.NewMockSession(t)
	discoveryErr := &bridge.DiscoveryWarning{Namespace: "flaky", Err: errors.New("method not found")}
	connector := mocks.NewMockConnector(t)
	connector.EXPECT().Connect(mock.Anything, "flaky", mock.Anything).
		Return(&bridge.Link{Session: session, DiscoveryErr: discoveryErr}, nil)

	m := newManager(t, servers{"flaky": stdioServer("flaky")}, connector)
	require.NoError(t, m.Connect(context.Background(), "flaky"))

	status, ok := m.Status("flaky")
	require.True(t, ok)
	assert.False(t, status.Healthy())
	assert.Same(t, discoveryErr, status.DiscoveryErr)
	assert.Equal(t, 0, status.Tools)
	assert.Empty(t, m.Tools("flaky"))
	assert.NotNil(t, m.Tools("flaky"))
}

func TestManager_Queries_Unconnected(t *testing.T) {
	m := bridge.NewManager(servers{"a": stdioServer("a")})

	assert.True(t, m.IsConfigured("a"))
	assert.False(t, m.IsConfigured("b"))
	assert.False(t, m.HasServer("a"))
	assert.NotNil(t, m.Tools("a"))
	assert.Empty(t, m.Tools("a"))
	assert.Equal(t, []string{}, m.ConnectedServers())
	_, ok := m.Status("a")
	assert.False(t, ok)
}

func TestManager_ConnectedServers_Sorted(t *testing.T) {
	connector := bridge.ConnectorFunc(func(ctx context.Context, namespace string, server *mcp.Server) (*bridge.Link, error) {
		return &bridge.Link{Session: mocks.NewMockSession(t)}, nil
	})
	m := newManager(t, servers{
		"zeta":  stdioServer("z"),
		"alpha": stdioServer("a"),
		"mid":   {URL: "https://mcp.example.com"},
	}, connector)

	for _, name := range []string{"zeta", "mid", "alpha"} {
		require.NoError(t, m.Connect(context.Background(), name))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, m.ConnectedServers())
}

func TestManager_CallTool(t *testing.T) {
	session := mocks.NewMockSession(t)
	session.EXPECT().
		CallTool(mock.Anything, "search", mock.MatchedBy(func(raw any) bool {
			args, ok := raw.(*orderedmap.OrderedMap[string, any])
			if !ok {
				return false
			}
			q, _ := args.Get("query")
			return args.Len() == 2 && args.Oldest().Key == "query" && q == "golang"
		})).
		Return(&bridge.CallResult{Content: []bridge.Block{
			{Type: bridge.BlockText, Text: `{"total": 2, "items": ["a", "b"]}`},
		}}, nil).
		Once()

	m := connected(t, "search", session, "search")

	args := value.NewMap().
		Set("query", value.String("golang")).
		Set("limit", value.Number(10))
	got, err := m.CallTool(context.Background(), "search", "search", args)
	require.NoError(t, err)

	want := value.NewMap().
		Set("total", value.Number(2)).
		Set("items", value.List{value.String("a"), value.String("b")})
	assert.True(t, value.Equal(want, got), "got %s", value.Render(got))
}

func TestManager_CallTool_NilArgs(t *testing.T) {
	session := mocks.NewMockSession(t)
	session.EXPECT().
		CallTool(mock.Anything, "ping", mock.MatchedBy(func(raw any) bool {
			args, ok := raw.(*orderedmap.OrderedMap[string, any])
			return ok && args.Len() == 0
		})).
		Return(&bridge.CallResult{}, nil)

	m := connected(t, "ns", session, "ping")

	got, err := m.CallTool(context.Background(), "ns", "ping", nil)
	require.NoError(t, err)
	assert.Equal(t, value.Null{}, got)
}

func TestManager_CallTool_Errors(t *testing.T) {
	transportErr := errors.New("broken pipe")
	passthrough := &bridge.NotConnectedError{Namespace: "inner"}

	tests := []struct {
		name      string
		namespace string
		tool      string
		tools     []string
		setup     func(s *mocks.MockSession)
		check     func(t *testing.T, err error)
	}{
		{
			name:      "not connected",
			namespace: "other",
			tool:      "anything",
			check: func(t *testing.T, err error) {
				var target *bridge.NotConnectedError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "other", target.Namespace)
			},
		},
		{
			name:      "unknown tool lists known tools",
			namespace: "ns",
			tool:      "delete",
			tools:     []string{"read", "write"},
			check: func(t *testing.T, err error) {
				var target *bridge.ToolNotFoundError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, []string{"read", "write"}, target.Known)
				assert.Contains(t, err.Error(), "read, write")
			},
		},
		{
			name:      "unknown tool on empty catalog",
			namespace: "ns",
			tool:      "delete",
			check: func(t *testing.T, err error) {
				var target *bridge.ToolNotFoundError
				require.True(t, errors.As(err, &target))
				assert.Contains(t, err.Error(), "no tools available")
			},
		},
		{
			name:      "transport failure",
			namespace: "ns",
			tool:      "read",
			tools:     []string{"read"},
			setup: func(s *mocks.MockSession) {
				s.EXPECT().CallTool(mock.Anything, "read", mock.Anything).Return(nil, transportErr)
			},
			check: func(t *testing.T, err error) {
				var target *bridge.ToolExecutionError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "ns", target.Namespace)
				assert.Equal(t, "read", target.Tool)
				assert.ErrorIs(t, err, transportErr)
				assert.Contains(t, err.Error(), "ns.read")
			},
		},
		{
			name:      "bridge error passes through",
			namespace: "ns",
			tool:      "read",
			tools:     []string{"read"},
			setup: func(s *mocks.MockSession) {
				s.EXPECT().CallTool(mock.Anything, "read", mock.Anything).Return(nil, passthrough)
			},
			check: func(t *testing.T, err error) {
				assert.Same(t, passthrough, err)
			},
		},
		{
			name:      "server reported error",
			namespace: "ns",
			tool:      "read",
			tools:     []string{"read"},
			setup: func(s *mocks.MockSession) {
				res := &bridge.CallResult{
					IsError: true,
					Content: []bridge.Block{
						{Type: bridge.BlockText, Text: "file not found"},
						{Type: bridge.BlockImage, MIMEType: "image/png"},
						{Type: bridge.BlockText, Text: "/etc/shadow"},
					},
				}
				s.EXPECT().CallTool(mock.Anything, "read", mock.Anything).Return(res, nil)
			},
			check: func(t *testing.T, err error) {
				var target *bridge.ToolExecutionError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "file not found\n/etc/shadow", target.Message)
			},
		},
		{
			name:      "server reported error without text",
			namespace: "ns",
			tool:      "read",
			tools:     []string{"read"},
			setup: func(s *mocks.MockSession) {
				s.EXPECT().CallTool(mock.Anything, "read", mock.Anything).Return(&bridge.CallResult{IsError: true}, nil)
			},
			check: func(t *testing.T, err error) {
				var target *bridge.ToolExecutionError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "tool reported an error", target.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := mocks.NewMockSession(t)
			if tt.setup != nil {
				tt.setup(session)
			}
			m := connected(t, "ns", session, tt.tools...)

			got, err := m.CallTool(context.Background(), tt.namespace, tt.tool, value.NewMap())
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, bridge.IsBridgeError(err))
			tt.check(t, err)
		})
	}
}

func TestManager_Disconnect(t *testing.T) {
	session := mocks.NewMockSession(t)
	session.EXPECT().Close().Return(errors.New("already exited")).Once()

	m := connected(t, "ns", session)
	m.Disconnect("ns")

	assert.False(t, m.HasServer("ns"))
	assert.Empty(t, m.ConnectedServers())

	// Unknown and already removed namespaces are ignored.
	m.Disconnect("ns")
	m.Disconnect("never")
}

func TestManager_DisconnectAll(t *testing.T) {
	var closed atomic.Int32
	sessions := map[string]*mocks.MockSession{
		"ok":     mocks.NewMockSession(t),
		"fails":  mocks.NewMockSession(t),
		"panics": mocks.NewMockSession(t),
	}
	sessions["ok"].EXPECT().Close().RunAndReturn(func() error {
		closed.Add(1)
		return nil
	})
	sessions["fails"].EXPECT().Close().RunAndReturn(func() error {
		closed.Add(1)
		return errors.New("close failed")
	})
	sessions["panics"].EXPECT().Close().RunAndReturn(func() error {
		closed.Add(1)
		panic("close panicked")
	})

	connector := bridge.ConnectorFunc(func(ctx context.Context, namespace string, server *mcp.Server) (*bridge.Link, error) {
		return &bridge.Link{Session: sessions[namespace]}, nil
	})
	source := servers{}
	for name := range sessions {
		source[name] = stdioServer(name)
	}
	m := newManager(t, source, connector)
	for name := range sessions {
		require.NoError(t, m.Connect(context.Background(), name))
	}
	require.Len(t, m.ConnectedServers(), 3)

	assert.NotPanics(t, m.DisconnectAll)
	assert.Equal(t, int32(3), closed.Load())
	assert.Empty(t, m.ConnectedServers())

	// Idempotent on an empty manager.
	m.DisconnectAll()
}

func TestManager_Reconnect(t *testing.T) {
	first := mocks.NewMockSession(t)
	first.EXPECT().Close().Return(nil)
	second := mocks.NewMockSession(t)

	connector := mocks.NewMockConnector(t)
	connector.EXPECT().Connect(mock.Anything, "ns", mock.Anything).Return(&bridge.Link{Session: first}, nil).Once()
	connector.EXPECT().Connect(mock.Anything, "ns", mock.Anything).
		Return(&bridge.Link{Session: second, Tools: []bridge.Tool{{Name: "fresh"}}}, nil).Once()

	m := newManager(t, servers{"ns": stdioServer("srv")}, connector)
	require.NoError(t, m.Connect(context.Background(), "ns"))
	m.Disconnect("ns")
	require.NoError(t, m.Connect(context.Background(), "ns"))

	tools := m.Tools("ns")
	require.Len(t, tools, 1)
	assert.Equal(t, "fresh", tools[0].Name)
}
