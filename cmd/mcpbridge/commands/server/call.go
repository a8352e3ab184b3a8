package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/internal/bridge"
	"github.com/thoreinstein/mcpbridge/internal/errors"
	"github.com/thoreinstein/mcpbridge/internal/value"
)

var (
	callArgsJSON string
	callRaw      bool
)

func init() {
	callCmd.Flags().StringVar(&callArgsJSON, "args", "",
		"tool arguments as a JSON object; key=value pairs override its entries")
	callCmd.Flags().BoolVar(&callRaw, "raw", false,
		"print string results without JSON quoting")
	Cmd.AddCommand(callCmd)
}

var callCmd = &cobra.Command{
	Use:   "call <name> <tool> [key=value...]",
	Short: "Call a tool on a server",
	Long: `Connect to a server, call one of its tools and print the result as JSON.

Arguments are given as key=value pairs, as a JSON object with --args, or
both. Values of key=value pairs are parsed as JSON when they are valid JSON
(numbers, booleans, null, quoted strings, arrays, objects) and taken as
plain strings otherwise.

Text results that hold JSON are decoded; structured results are printed
as the server returned them.`,
	Example: `  # Plain string and number arguments
  mcpbridge server call github search_repositories query=mcp perPage=5

  # Arguments as a JSON object
  mcpbridge server call fs read_file --args '{"path": "/tmp/notes.txt"}'

  # Print a text result without quotes
  mcpbridge server call time get_current_time timezone=UTC --raw`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolArgs, err := parseToolArgs(callArgsJSON, args[2:])
		if err != nil {
			return err
		}
		return runCall(cmd.Context(), cmd.OutOrStdout(), newManager(cmd.Context()), args[0], args[1], toolArgs)
	},
}

func runCall(ctx context.Context, w io.Writer, mgr *bridge.Manager, name, tool string, args *value.Map) error {
	if err := mgr.Connect(ctx, name); err != nil {
		return err
	}
	defer mgr.Disconnect(name)

	result, err := mgr.CallTool(ctx, name, tool, args)
	if err != nil {
		return err
	}
	return printValue(w, result)
}

func printValue(w io.Writer, v value.Value) error {
	if s, ok := v.(value.String); ok && callRaw {
		_, err := fmt.Fprintln(w, string(s))
		return errors.Wrap(err, "writing result")
	}

	data, err := json.MarshalIndent(value.Encode(v), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}
	_, err = fmt.Fprintln(w, string(data))
	return errors.Wrap(err, "writing result")
}

// parseToolArgs merges a JSON object and key=value pairs into tool
// arguments. Pairs are applied after the object, in order.
func parseToolArgs(raw string, pairs []string) (*value.Map, error) {
	args := value.NewMap()

	if strings.TrimSpace(raw) != "" {
		v, err := value.DecodeJSON([]byte(raw))
		if err != nil {
			return nil, errors.NewUserError(errors.Wrap(errors.ErrInvalidArgs, "--args is not valid JSON"),
				`pass a JSON object, e.g. --args '{"key": "value"}'`)
		}
		m, ok := v.(*value.Map)
		if !ok {
			return nil, errors.NewUserError(errors.Wrapf(errors.ErrInvalidArgs, "--args must be a JSON object, got %s", v.Kind()),
				`pass a JSON object, e.g. --args '{"key": "value"}'`)
		}
		args = m
	}

	for _, pair := range pairs {
		key, text, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, errors.NewUserError(errors.Wrapf(errors.ErrInvalidArgs, "argument %q is not key=value", pair),
				"pass arguments as key=value pairs or use --args")
		}
		args.Set(key, parseArgValue(text))
	}
	return args, nil
}

func parseArgValue(raw string) value.Value {
	if v, err := value.DecodeJSON([]byte(raw)); err == nil {
		return v
	}
	return value.String(raw)
}
