// Package mcp defines the configuration model for MCP (Model Context
// Protocol) servers that the bridge connects to.
//
// # Server Configuration
//
// The [Server] type describes a single server reachable over one of two
// transports:
//
//	// Local stdio server
//	server := &mcp.Server{
//	    Command: "npx",
//	    Args:    []string{"-y", "@modelcontextprotocol/server-filesystem", "/tmp"},
//	    Env:     map[string]string{"DEBUG": "1"},
//	    Cwd:     "/srv/work",
//	}
//
//	// Remote streamable HTTP server
//	server := &mcp.Server{
//	    URL:     "https://api.example.com/mcp",
//	    Headers: map[string]string{"Authorization": "Bearer ${API_KEY}"},
//	}
//
// # Transport Types
//
//   - [TransportStdio]: subprocess over stdin/stdout (default with Command)
//   - [TransportHTTP]: streamable HTTP session (default with a lone URL)
//
// [Server.EffectiveTransport] resolves the transport when none is set.
//
// # Configuration Container
//
// [Config] maps namespaces to servers. The namespace is the map key; call
// [Config.Normalize] after decoding to copy keys into [Server.Name].
package mcp
