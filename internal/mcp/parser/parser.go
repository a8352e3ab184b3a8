// Package parser reads and writes MCP server configuration files. A file
// may be YAML, JSON or TOML, chosen by extension; only its "servers" table
// is interpreted and every other key is carried through writes untouched.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpbridge/internal/mcp"
	"github.com/thoreinstein/mcpbridge/internal/paths"
	"github.com/thoreinstein/mcpbridge/pkg/fileutil"
)

// Format is a configuration file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ServersKey is the top-level key holding server definitions.
const ServersKey = "servers"

// filePerm keeps config files private; env and headers may carry secrets.
const filePerm = 0o600

// Sentinel errors for parser operations.
var (
	// ErrUnsupportedFormat indicates a file extension with no known encoding.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrInvalidConfig indicates the document doesn't hold a valid servers table.
	ErrInvalidConfig = errors.New("invalid MCP configuration")
)

// ParseError wraps errors that occur during parsing with path context.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parsing MCP config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parsing MCP config: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.WithDetailf(ErrUnsupportedFormat, "extension %q", filepath.Ext(path))
}

// Parse reads the servers table of a document. Empty input yields an empty
// config.
func Parse(data []byte, format Format) (*mcp.Config, error) {
	cfg := mcp.NewConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, cfg)
	case FormatJSON:
		err = json.Unmarshal(data, cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, errors.WithDetailf(ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decoding %s", format), ErrInvalidConfig)
	}

	cfg.Normalize()
	return cfg, nil
}

// ParseFile reads the servers table of the file at path.
// Returns an empty config (not error) if the file doesn't exist, following
// the principle that a missing config file means "no servers configured".
func ParseFile(path string) (*mcp.Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mcp.NewConfig(), nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return cfg, nil
}

// Document is a whole configuration file decoded generically so that keys
// this package doesn't know about survive a rewrite.
type Document struct {
	Path   string
	Format Format
	Data   map[string]any
}

// ReadDocument loads the file at path. A missing file yields an empty
// document that WriteDocument will create.
func ReadDocument(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	doc := &Document{Path: path, Format: format, Data: map[string]any{}}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc.Data)
	case FormatJSON:
		err = json.Unmarshal(data, &doc.Data)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc.Data)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: errors.Mark(err, ErrInvalidConfig)}
	}
	if doc.Data == nil {
		doc.Data = map[string]any{}
	}
	return doc, nil
}

// servers returns the servers table, creating it when absent.
func (d *Document) servers() (map[string]any, error) {
	raw, ok := d.Data[ServersKey]
	if !ok || raw == nil {
		table := map[string]any{}
		d.Data[ServersKey] = table
		return table, nil
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.WithDetailf(ErrInvalidConfig, "%q is a %T, not a table", ServersKey, raw)
	}
	return table, nil
}

// HasServer reports whether the document defines name.
func (d *Document) HasServer(name string) bool {
	table, err := d.servers()
	if err != nil {
		return false
	}
	_, ok := table[name]
	return ok
}

// SetServer stores s under its name, replacing any existing entry.
func (d *Document) SetServer(s *mcp.Server) error {
	if s.Name == "" {
		return errors.Wrap(ErrInvalidConfig, "server name is required")
	}
	table, err := d.servers()
	if err != nil {
		return err
	}

	// The json tags define the on-disk shape for every format.
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding server")
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		return errors.Wrap(err, "encoding server")
	}

	table[s.Name] = entry
	return nil
}

// RemoveServer deletes name. It reports whether the entry existed.
func (d *Document) RemoveServer(name string) (bool, error) {
	table, err := d.servers()
	if err != nil {
		return false, err
	}
	if _, ok := table[name]; !ok {
		return false, nil
	}
	delete(table, name)
	return true, nil
}

// Encode renders the document in its format.
func (d *Document) Encode() ([]byte, error) {
	switch d.Format {
	case FormatYAML:
		return yaml.Marshal(d.Data)
	case FormatJSON:
		data, err := json.MarshalIndent(d.Data, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatTOML:
		return toml.Marshal(d.Data)
	}
	return nil, errors.WithDetailf(ErrUnsupportedFormat, "format %q", d.Format)
}

// Write saves the document atomically, creating parent directories.
func (d *Document) Write() error {
	data, err := d.Encode()
	if err != nil {
		return &ParseError{Path: d.Path, Err: errors.Wrap(err, "encoding document")}
	}
	if err := paths.EnsureDir(filepath.Dir(d.Path), 0); err != nil {
		return &ParseError{Path: d.Path, Err: errors.Wrap(err, "creating directory")}
	}
	if err := fileutil.AtomicWriteFile(d.Path, data, filePerm); err != nil {
		return &ParseError{Path: d.Path, Err: err}
	}
	return nil
}
