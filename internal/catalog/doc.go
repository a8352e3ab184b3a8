// Package catalog is the built-in list of well-known MCP servers that can be
// installed into a config file by name.
//
// The list is embedded from catalog.yaml. Each entry carries the server
// configuration to install and the environment variables it requires:
//
//	entry, err := catalog.Default().Get("github")
//	server, missing := entry.Config("", map[string]string{"GITHUB_PERSONAL_ACCESS_TOKEN": token})
package catalog
