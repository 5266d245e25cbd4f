package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/runtpl/store"
)

// harness runs commands against a temporary template store with captured
// standard streams.
type harness struct {
	dir      string
	in       *strings.Reader
	out, err bytes.Buffer
}

func newHarness(t *testing.T, templates map[string]string) *harness {
	t.Helper()

	h := &harness{dir: filepath.Join(t.TempDir(), "templates"), in: strings.NewReader("")}

	err := os.MkdirAll(h.dir, 0o700)
	if err != nil {
		t.Fatal(err)
	}

	for name, content := range templates {
		err := os.WriteFile(filepath.Join(h.dir, name+store.Ext), []byte(content), 0o600)
		if err != nil {
			t.Fatal(err)
		}
	}

	return h
}

func (h *harness) context(t *testing.T) context.Context {
	ctx := WithStreams(t.Context(), Streams{In: h.in, Out: &h.out, Err: &h.err})

	return WithStore(ctx, store.New(
		store.WithDir(h.dir),
		store.WithGetenv(func(string) string { return "" }),
	))
}

// editorScript installs an $EDITOR that runs body with the file as $1.
func editorScript(t *testing.T, body string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "editor.sh")

	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700)
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("EDITOR", path)
}

func TestStreamsFrom_Defaults(t *testing.T) {
	s := streamsFrom(t.Context())
	if s.In != os.Stdin || s.Out != os.Stdout || s.Err != os.Stderr {
		t.Error("expected standard streams by default")
	}

	var buf bytes.Buffer

	s = streamsFrom(WithStreams(t.Context(), Streams{Out: &buf}))
	if s.Out != &buf || s.Err != os.Stderr {
		t.Error("expected only unset streams to default")
	}
}

func TestStoreFrom_Default(t *testing.T) {
	if s := storeFrom(t.Context()); s == nil || s.Dir() != store.DefaultDir() {
		t.Errorf("expected default store, got %v", s)
	}
}
