package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
)

type initCLI struct {
	Level   string           `default:"warn"`
	Pretty  bool             `default:"false"`
	Paths   []string         `sep:","`
	Secret  string           `hidden:""`
	Version kong.VersionFlag `help:"Print version"`
	Init    Init             `cmd:""`
}

func parseInit(t *testing.T, conf string, args ...string) *kong.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: conf}, kong.Exit(func(int) {}))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInit(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "config.yaml")
	ktx := parseInit(t, conf, "--level=debug", "--secret=s")

	err := (&Init{}).Run(WithContext(t.Context(), ktx))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(conf)
	if err != nil {
		t.Fatal(err)
	}

	if want := "level: debug\npretty: false\n"; string(content) != want {
		t.Errorf("expected %q, got %q", want, content)
	}
}

func TestInit_Exists(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "config.yaml")

	err := os.WriteFile(conf, []byte("level: error\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	ktx := parseInit(t, conf)

	err = (&Init{}).Run(WithContext(t.Context(), ktx))
	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Fatalf("expected ErrWriteConfig wrapping ErrFileExists, got %v", err)
	}

	err = (&Init{Force: true}).Run(WithContext(t.Context(), ktx))
	if err != nil {
		t.Fatalf("unexpected error with force: %v", err)
	}

	content, _ := os.ReadFile(conf)
	if string(content) != "level: warn\npretty: false\n" {
		t.Errorf("expected overwritten defaults, got %q", content)
	}
}
