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
	mcperrors "github.com/thoreinstein/mcpbridge/internal/errors"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
)

// checkFixture configures three servers: one healthy, one whose tool
// listing fails and one that cannot be reached.
func checkFixture(t *testing.T) {
	t.Helper()
	withServers(t, map[string]*mcp.Server{
		"good":     {Command: "good"},
		"degraded": {Command: "degraded"},
		"down":     {URL: "https://down.example.com/mcp"},
	})

	good := mocks.NewMockSession(t)
	good.EXPECT().Close().Return(nil).Once()
	degraded := mocks.NewMockSession(t)
	degraded.EXPECT().Close().Return(nil).Once()

	connector := mocks.NewMockConnector(t)
	connector.EXPECT().Connect(mock.Anything, "good", mock.Anything).
		Return(&bridge.Link{Session: good, Tools: []bridge.Tool{{Name: "a"}, {Name: "b"}}}, nil).Once()
	connector.EXPECT().Connect(mock.Anything, "degraded", mock.Anything).
		Return(&bridge.Link{Session: degraded, DiscoveryErr: errors.New("tools/list timed out")}, nil).Once()
	connector.EXPECT().Connect(mock.Anything, "down", mock.Anything).
		Return(nil, &bridge.ConnectionError{Namespace: "down", Target: "https://down.example.com/mcp", Err: errors.New("connection refused")}).Once()
	withConnector(t, connector)
}

func TestCheck_JSON(t *testing.T) {
	checkFixture(t)
	setFlag(t, &checkJSON, true)

	var out bytes.Buffer
	err := runCheck(context.Background(), &out, newManager(context.Background()), []string{"good", "down", "degraded"})

	var exitErr *mcperrors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, mcperrors.ExitSystem, exitErr.Code)
	assert.Contains(t, err.Error(), "1 of 3 servers failed")

	var results []checkResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 3)

	assert.Equal(t, "degraded", results[0].Name)
	assert.Equal(t, statusDegraded, results[0].Status)
	assert.Contains(t, results[0].DiscoveryError, "tools/list timed out")

	assert.Equal(t, "down", results[1].Name)
	assert.Equal(t, statusFailed, results[1].Status)
	assert.Contains(t, results[1].Error, "connection refused")

	assert.Equal(t, "good", results[2].Name)
	assert.Equal(t, statusOK, results[2].Status)
	assert.Equal(t, 2, results[2].Tools)
	assert.Equal(t, mcp.TransportStdio, results[2].Transport)
}

func TestCheck_Table(t *testing.T) {
	checkFixture(t)

	var out bytes.Buffer
	err := runCheck(context.Background(), &out, newManager(context.Background()), []string{"good", "down", "degraded"})
	require.Error(t, err)

	for _, want := range []string{"NAME", "STATUS", "good", "down", "degraded", "connection refused"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestCheck_AllHealthy(t *testing.T) {
	withServers(t, map[string]*mcp.Server{"good": {Command: "good"}})
	session := mocks.NewMockSession(t)
	session.EXPECT().Close().Return(nil).Once()
	withConnector(t, linkTo(t, "good", session, bridge.Tool{Name: "a"}))

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), &out, newManager(context.Background()), []string{"good"}))
	assert.Contains(t, out.String(), "ok")
}

func TestCheck_NothingToCheck(t *testing.T) {
	withServers(t, nil)

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), &out, newManager(context.Background()), nil))
	assert.Contains(t, out.String(), "No enabled MCP servers")
}
