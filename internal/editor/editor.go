// Package editor launches the user's preferred text editor on a file.
package editor

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNoEditor indicates the editor setting is blank after trimming.
var ErrNoEditor = errors.New("no editor configured")

// Editor runs an editor command with the terminal attached.
type Editor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// lookPath finds fallback editors on PATH.
	lookPath func(string) (string, error)
}

// New returns an Editor wired to the process's standard streams.
func New() *Editor {
	return &Editor{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		lookPath: exec.LookPath,
	}
}

// Open launches the user's preferred editor for the given path and waits
// for it to exit.
func Open(path string) error {
	return New().Open(path)
}

// Open launches the editor for path and waits for it to exit.
// The editor setting may carry arguments, as in EDITOR="code --wait".
func (e *Editor) Open(path string) error {
	argv := strings.Fields(e.detect())
	if len(argv) == 0 {
		return ErrNoEditor
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// detect returns the editor command to use based on environment variables
// and available binaries. Fallback chain: $EDITOR → $VISUAL → nano → vi
func (e *Editor) detect() string {
	if editor := os.Getenv("EDITOR"); strings.TrimSpace(editor) != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); strings.TrimSpace(visual) != "" {
		return visual
	}

	lookPath := e.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath("nano"); err == nil {
		return "nano"
	}
	// vi is required by POSIX
	return "vi"
}
