package server

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpbridge/cmd/mcpbridge/commands/flags"
	"github.com/thoreinstein/mcpbridge/internal/bridge"
	"github.com/thoreinstein/mcpbridge/internal/errors"
)

// maxConcurrentChecks bounds the number of servers started at once.
const maxConcurrentChecks = 8

var checkJSON bool

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [name...]",
	Short: "Connect to servers and report their health",
	Long: `Connect to the named servers, or to every enabled server when none are
named, and report whether each one completed the handshake and listed its
tools. Servers are checked concurrently and disconnected afterwards.

A server is "ok" when it connected and listed its tools, "degraded" when it
connected but its tool listing failed, and "failed" when it could not be
reached. The command exits non-zero if any server failed.`,
	Example: `  # Check every enabled server
  mcpbridge server check

  # Check two servers and emit JSON
  mcpbridge server check github fs --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := args
		if len(names) == 0 {
			names = flags.Config().EnabledNames()
		}
		return runCheck(cmd.Context(), cmd.OutOrStdout(), newManager(cmd.Context()), names)
	},
}

// checkResult is the outcome of checking one server.
type checkResult struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	Transport      string `json:"transport,omitempty"`
	Target         string `json:"target,omitempty"`
	Tools          int    `json:"tools"`
	LatencyMS      int64  `json:"latency_ms"`
	DiscoveryError string `json:"discovery_error,omitempty"`
	Error          string `json:"error,omitempty"`
}

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusFailed   = "failed"
)

func runCheck(ctx context.Context, w io.Writer, mgr *bridge.Manager, names []string) error {
	if len(names) == 0 {
		fmt.Fprintln(w, "No enabled MCP servers to check")
		return nil
	}
	defer mgr.DisconnectAll()

	p := pool.NewWithResults[checkResult]().WithMaxGoroutines(maxConcurrentChecks)
	for _, name := range names {
		p.Go(func() checkResult {
			return checkServer(ctx, mgr, name)
		})
	}
	results := p.Wait()
	slices.SortFunc(results, func(a, b checkResult) int {
		return cmp.Compare(a.Name, b.Name)
	})

	var err error
	if checkJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = errors.Wrap(enc.Encode(results), "encoding JSON")
	} else {
		err = outputCheckTable(w, results)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Status == statusFailed {
			failed++
		}
	}
	if failed > 0 {
		return errors.NewSystemError(
			errors.Newf("%d of %d servers failed", failed, len(results)),
			"Rerun with --trace to see connection details")
	}
	return nil
}

func checkServer(ctx context.Context, mgr *bridge.Manager, name string) checkResult {
	r := checkResult{Name: name}

	start := time.Now()
	err := mgr.Connect(ctx, name)
	r.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		r.Status = statusFailed
		r.Error = err.Error()
		return r
	}

	st, _ := mgr.Status(name)
	r.Transport = st.Transport
	r.Target = st.Target
	r.Tools = st.Tools
	r.Status = statusOK
	if !st.Healthy() {
		r.Status = statusDegraded
		r.DiscoveryError = st.DiscoveryErr.Error()
	}
	return r
}

func outputCheckTable(w io.Writer, results []checkResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sNAME%s\t%sSTATUS%s\t%sTOOLS%s\t%sLATENCY%s\t%sDETAIL%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, r := range results {
		var status, detail string
		switch r.Status {
		case statusOK:
			status = color.GreenString(r.Status)
			detail = r.Target
		case statusDegraded:
			status = color.YellowString(r.Status)
			detail = r.DiscoveryError
		default:
			status = color.RedString(r.Status)
			detail = r.Error
		}

		fmt.Fprintf(tw, "%s\t%s\t%d\t%dms\t%s\n",
			r.Name, status, r.Tools, r.LatencyMS, truncate(detail, 80))
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}
