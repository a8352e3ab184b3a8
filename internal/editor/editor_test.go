package editor

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPath(found ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		visual string
		onPath []string
		want   string
	}{
		{name: "EDITOR wins", editor: "nvim", visual: "code", want: "nvim"},
		{name: "VISUAL", visual: "code --wait", want: "code --wait"},
		{name: "blank EDITOR is unset", editor: "  ", visual: "emacs", want: "emacs"},
		{name: "nano fallback", onPath: []string{"nano", "vi"}, want: "nano"},
		{name: "vi fallback", want: "vi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)

			e := &Editor{lookPath: withPath(tt.onPath...)}
			assert.Equal(t, tt.want, e.detect())
		})
	}
}

func TestOpen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the editor")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$@\"\n"), 0o755))

	target := filepath.Join(dir, "config.yaml")
	t.Setenv("EDITOR", script+" --wait")

	var stdout bytes.Buffer
	e := New()
	e.Stdout = &stdout
	require.NoError(t, e.Open(target))
	assert.Equal(t, "--wait "+target+"\n", stdout.String())
}

func TestOpen_Failure(t *testing.T) {
	t.Setenv("EDITOR", filepath.Join(t.TempDir(), "missing-editor"))

	err := New().Open("config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running editor")
}
