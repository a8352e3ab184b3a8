// Package config provides configuration management for the mcpbridge CLI.
//
// # Configuration File
//
// The configuration file is found in the current directory or in
// $XDG_CONFIG_HOME/mcpbridge (overridable with MCPBRIDGE_CONFIG_DIR), named
// config.yaml, config.json or config.toml:
//
//	trace: false
//	log_format: text
//	servers:
//	  github:
//	    command: npx
//	    args: ["-y", "@modelcontextprotocol/server-github"]
//	    env:
//	      GITHUB_PERSONAL_ACCESS_TOKEN: ghp_...
//	  docs:
//	    url: https://mcp.example.com/mcp
//	    headers:
//	      Authorization: Bearer ...
//
// Settings can be overridden with MCPBRIDGE_* environment variables, e.g.
// MCPBRIDGE_TRACE=true.
//
// # Loading Configuration
//
// Call [Init] once, then [Load] with an explicit path or "" to search:
//
//	config.Init()
//	cfg, err := config.Load(flagPath)
//	if err != nil {
//	    return err
//	}
//	manager := bridge.NewManager(cfg)
//
// A missing file is only an error when a path was given explicitly.
//
// # Editing Servers
//
// [AddServer] and [RemoveServer] rewrite the servers table of a config file
// in place, keeping every other key, and write atomically with 0600
// permissions because env and headers often hold credentials.
package config
