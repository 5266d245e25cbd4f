package profile

import (
	"slices"
	"testing"
)

func TestConfig_With(t *testing.T) {
	var c Config

	c = c.With(WithMode("cpu"), WithPath("/tmp/prof"), WithQuiet(true))

	mode, path, quiet := c()
	if mode != "cpu" || path != "/tmp/prof" || !quiet {
		t.Errorf("expected (cpu, /tmp/prof, true), got (%s, %s, %t)", mode, path, quiet)
	}

	c = c.With(WithMode(""))

	mode, path, _ = c()
	if mode != "" || path != "/tmp/prof" {
		t.Errorf("expected mode cleared and path kept, got (%q, %q)", mode, path)
	}
}

func TestConfig_Start_NoMode(t *testing.T) {
	for _, c := range []Config{nil, Config(nil).With(WithPath(t.TempDir()))} {
		p := c.Start()
		if _, ok := p.(ignore); !ok {
			t.Errorf("expected no-op profiler, got %T", p)
		}

		p.Stop()
	}
}

func TestConfig_Start_UnknownMode(t *testing.T) {
	p := Config(nil).With(WithMode("bogus"), WithQuiet(true)).Start()
	defer p.Stop()

	if _, ok := p.(ignore); !ok {
		t.Errorf("expected no-op profiler for unknown mode, got %T", p)
	}

	if slices.Contains(Modes(), "bogus") {
		t.Error("unknown mode listed as supported")
	}
}
