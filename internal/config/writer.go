package config

import (
	"strings"

	"github.com/cockroachdb/errors"

	mcperrors "github.com/thoreinstein/mcpbridge/internal/errors"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
	"github.com/thoreinstein/mcpbridge/internal/mcp/parser"
	"github.com/thoreinstein/mcpbridge/internal/mcp/validator"
)

// AddServer writes server into the config file at path under server.Name.
// Other content of the file is preserved. An existing entry with the same
// name is an error unless force is set. The server is validated first;
// validation warnings are returned so the caller can show them.
func AddServer(path string, server *mcp.Server, force bool) ([]*validator.ValidationError, error) {
	if server == nil || server.Name == "" {
		return nil, errors.Wrap(mcperrors.ErrMissingName, "adding server")
	}

	issues := validator.New().ValidateServer(server.Name, server)
	if validator.HasErrors(issues) {
		msgs := make([]string, 0, len(issues))
		for _, issue := range validator.Errors(issues) {
			msgs = append(msgs, issue.Error())
		}
		return issues, errors.Wrapf(mcperrors.ErrInvalidConfig, "server %q: %s", server.Name, strings.Join(msgs, "; "))
	}

	doc, err := parser.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	if doc.HasServer(server.Name) && !force {
		return nil, errors.Wrapf(mcperrors.ErrAlreadyExists, "server %q in %s", server.Name, path)
	}
	if err := doc.SetServer(server); err != nil {
		return nil, err
	}
	if err := doc.Write(); err != nil {
		return nil, err
	}
	return validator.Warnings(issues), nil
}

// RemoveServer deletes the server named name from the config file at path.
func RemoveServer(path, name string) error {
	doc, err := parser.ReadDocument(path)
	if err != nil {
		return err
	}
	removed, err := doc.RemoveServer(name)
	if err != nil {
		return err
	}
	if !removed {
		return errors.Wrapf(mcperrors.ErrNotFound, "server %q in %s", name, path)
	}
	return doc.Write()
}
