package catalog

import (
	"cmp"
	_ "embed"
	"maps"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpbridge/internal/mcp"
)

//go:embed catalog.yaml
var builtin []byte

// ErrNotFound indicates the catalog has no entry with the requested name.
var ErrNotFound = errors.New("catalog entry not found")

// EnvVar documents an environment variable a server needs.
type EnvVar struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Entry is one installable server.
type Entry struct {
	// Name is the catalog key and the default server name on install.
	Name string `yaml:"name" json:"name"`

	// Package is the npm or PyPI package that provides the server, or a
	// vendor name for hosted servers.
	Package string `yaml:"package" json:"package"`

	Description string `yaml:"description" json:"description"`

	// Server is the configuration written on install.
	Server mcp.Server `yaml:"server" json:"server"`

	// RequiredEnv lists variables the server cannot start without.
	RequiredEnv []EnvVar `yaml:"required_env,omitempty" json:"required_env,omitempty"`
}

// Config returns the server configuration to install under alias, or under
// the entry's name when alias is empty. env is overlaid on the entry's env.
// missing lists required variables that env does not provide, in catalog
// order.
func (e *Entry) Config(alias string, env map[string]string) (server *mcp.Server, missing []string) {
	server = e.Server.Clone()
	server.Name = alias
	if server.Name == "" {
		server.Name = e.Name
	}

	if len(env) > 0 {
		if server.Env == nil {
			server.Env = make(map[string]string, len(env))
		}
		maps.Copy(server.Env, env)
	}

	for _, v := range e.RequiredEnv {
		if server.Env[v.Name] == "" {
			missing = append(missing, v.Name)
		}
	}
	return server, missing
}

// Catalog is an immutable set of entries.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

type file struct {
	Entries []Entry `yaml:"entries"`
}

// Parse decodes a catalog document. Entry names must be unique and every
// entry must define a command or URL.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parsing catalog")
	}

	c := &Catalog{byName: make(map[string]int, len(f.Entries))}
	for _, e := range f.Entries {
		if e.Name == "" {
			return nil, errors.New("catalog entry without a name")
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, errors.Newf("duplicate catalog entry %q", e.Name)
		}
		if e.Server.Command == "" && e.Server.URL == "" {
			return nil, errors.Newf("catalog entry %q has neither command nor url", e.Name)
		}
		e.Server.Name = e.Name
		c.byName[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	slices.SortFunc(c.entries, func(a, b Entry) int {
		return cmp.Compare(a.Name, b.Name)
	})
	for i, e := range c.entries {
		c.byName[e.Name] = i
	}
	return c, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(builtin)
})

// Default returns the catalog shipped with the binary.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		// The embedded catalog is covered by tests.
		panic(err)
	}
	return c
}

// Get returns the entry named name.
func (c *Catalog) Get(name string) (Entry, error) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return c.entries[i], nil
}

// List returns every entry sorted by name.
func (c *Catalog) List() []Entry {
	return slices.Clone(c.entries)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
