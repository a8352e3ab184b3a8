package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpbridge/internal/bridge"
)

func TestFromBridge(t *testing.T) {
	plain := New("disk full")
	existing := NewUserError(New("bad flag"), "see --help")

	tests := []struct {
		name           string
		err            error
		wantCode       int
		wantSuggestion string
		wantUnchanged  bool
	}{
		{
			name:          "nil",
			err:           nil,
			wantUnchanged: true,
		},
		{
			name:          "foreign error",
			err:           plain,
			wantUnchanged: true,
		},
		{
			name:          "already an exit error",
			err:           existing,
			wantUnchanged: true,
		},
		{
			name:           "configuration",
			err:            &bridge.ConfigurationError{Namespace: "gh", Key: "servers.gh", Reason: "missing"},
			wantCode:       ExitUser,
			wantSuggestion: "Run: mcpbridge server list",
		},
		{
			name:           "wrapped configuration",
			err:            fmt.Errorf("connecting: %w", &bridge.ConfigurationError{Namespace: "gh", Key: "servers.gh.url"}),
			wantCode:       ExitUser,
			wantSuggestion: "Run: mcpbridge server list",
		},
		{
			name:           "tool not found",
			err:            &bridge.ToolNotFoundError{Namespace: "gh", Tool: "nope"},
			wantCode:       ExitUser,
			wantSuggestion: "Run: mcpbridge server tools gh",
		},
		{
			name:           "not connected",
			err:            &bridge.NotConnectedError{Namespace: "gh"},
			wantCode:       ExitUser,
			wantSuggestion: "Run: mcpbridge server check gh",
		},
		{
			name:           "connection",
			err:            &bridge.ConnectionError{Namespace: "gh", Target: "npx", Err: plain},
			wantCode:       ExitSystem,
			wantSuggestion: "Check that the server command or URL is reachable: mcpbridge server check gh",
		},
		{
			name:     "execution",
			err:      &bridge.ToolExecutionError{Namespace: "gh", Tool: "t", Message: "boom"},
			wantCode: ExitSystem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromBridge(tt.err)
			if tt.wantUnchanged {
				assert.Equal(t, tt.err, got)
				return
			}

			var exitErr *ExitError
			require.True(t, As(got, &exitErr))
			assert.Equal(t, tt.wantCode, exitErr.Code)
			assert.Equal(t, tt.wantSuggestion, exitErr.Suggestion)
			assert.True(t, Is(got, tt.err) || exitErr.Err == tt.err)
			assert.Equal(t, tt.err.Error(), got.Error())
		})
	}
}
