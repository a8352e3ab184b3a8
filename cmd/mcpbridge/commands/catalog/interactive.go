package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"golang.org/x/term"

	"github.com/thoreinstein/mcpbridge/internal/catalog"
	"github.com/thoreinstein/mcpbridge/internal/errors"
)

// interactive reports whether a fuzzy finder can be shown.
var interactive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func pickInteractive(entries []catalog.Entry) (catalog.Entry, bool, error) {
	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string {
			return fmt.Sprintf("%s: %s", entries[i].Name, entries[i].Package)
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			e := entries[i]
			var b strings.Builder
			fmt.Fprintf(&b, "Name: %s\nPackage: %s\nTransport: %s\n\n%s\n",
				e.Name, e.Package, e.Server.EffectiveTransport(), e.Description)
			if len(e.RequiredEnv) > 0 {
				b.WriteString("\nRequired environment:\n")
				for _, v := range e.RequiredEnv {
					fmt.Fprintf(&b, "  %s\n", v.Name)
				}
			}
			return b.String()
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return catalog.Entry{}, false, nil
		}
		return catalog.Entry{}, false, errors.Wrap(err, "interactive selection failed")
	}
	return entries[idx], true, nil
}
