package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/runtpl/tpl"
)

func TestCheck(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "{{ x }}", "b": "plain"})

	err := (&Check{Templates: []string{"a", "b"}}).Run(h.context(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(h.dir, "a.tpl") + ": ok\n" +
		filepath.Join(h.dir, "b.tpl") + ": ok\n"
	if got := h.out.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCheck_AST(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "hi {{ user.name }}"})

	err := (&Check{Templates: []string{"a"}, AST: true}).Run(h.context(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := h.out.String(), "Text \"hi \"\nVar user.name\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCheck_SyntaxError(t *testing.T) {
	h := newHarness(t, map[string]string{"bad": "{{ endfor }}"})

	err := (&Check{Templates: []string{"bad"}}).Run(h.context(t))
	if !errors.Is(err, tpl.ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}

	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("expected position in %q", err.Error())
	}
}
