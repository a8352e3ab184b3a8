package server

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpbridge/internal/bridge"
	"github.com/thoreinstein/mcpbridge/internal/bridge/mocks"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
)

func TestTools(t *testing.T) {
	withServers(t, map[string]*mcp.Server{"fs": {Command: "mcp-fs"}})

	session := mocks.NewMockSession(t)
	session.EXPECT().Close().Return(nil).Once()
	withConnector(t, linkTo(t, "fs", session,
		bridge.Tool{Name: "read_file", Description: "Read a file.\nReturns its contents."},
		bridge.Tool{Name: "list_directory", Description: "List a directory", InputSchema: json.RawMessage(`{"type":"object"}`)},
	))

	var out, stderr bytes.Buffer
	require.NoError(t, runTools(context.Background(), &out, &stderr, newManager(context.Background()), "fs"))

	assert.Contains(t, out.String(), "read_file")
	assert.Contains(t, out.String(), "Read a file.")
	assert.NotContains(t, out.String(), "Returns its contents", "only the first description line is shown")
	assert.Contains(t, out.String(), "list_directory")
	assert.Empty(t, stderr.String())
}

func TestTools_JSON(t *testing.T) {
	withServers(t, map[string]*mcp.Server{"fs": {Command: "mcp-fs"}})
	setFlag(t, &toolsJSON, true)

	session := mocks.NewMockSession(t)
	session.EXPECT().Close().Return(nil).Once()
	withConnector(t, linkTo(t, "fs", session,
		bridge.Tool{Name: "list_directory", InputSchema: json.RawMessage(`{"type":"object"}`)},
	))

	var out, stderr bytes.Buffer
	require.NoError(t, runTools(context.Background(), &out, &stderr, newManager(context.Background()), "fs"))

	var got []bridge.Tool
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "list_directory", got[0].Name)
	assert.JSONEq(t, `{"type":"object"}`, string(got[0].InputSchema))
}

func TestTools_DiscoveryWarning(t *testing.T) {
	withServers(t, map[string]*mcp.Server{"flaky": {Command: "flaky"}})

	session := mocks.NewMockSession(t)
	session.EXPECT().Close().Return(nil).Once()
	connector := mocks.NewMockConnector(t)
	connector.EXPECT().Connect(mock.Anything, "flaky", mock.Anything).Return(&bridge.Link{
		Session:      session,
		DiscoveryErr: &bridge.DiscoveryWarning{Namespace: "flaky", Err: errors.New("method not found")},
	}, nil).Once()
	withConnector(t, connector)

	var out, stderr bytes.Buffer
	require.NoError(t, runTools(context.Background(), &out, &stderr, newManager(context.Background()), "flaky"))

	assert.Contains(t, stderr.String(), "method not found")
	assert.Contains(t, out.String(), "exposes no tools")
}

func TestTools_NotConfigured(t *testing.T) {
	withServers(t, nil)

	var out, stderr bytes.Buffer
	err := runTools(context.Background(), &out, &stderr, newManager(context.Background()), "ghost")

	var cfgErr *bridge.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "ghost", cfgErr.Namespace)
}
