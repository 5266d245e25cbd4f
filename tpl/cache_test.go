package tpl

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestParseReader_Cache(t *testing.T) {
	ClearCache()

	src := "cached {{ value }}"

	first, err := ParseReader(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	second, err := Parse(t.Context(), src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if first == second {
		t.Error("expected distinct AST values")
	}

	if len(first.Nodes) == 0 || &first.Nodes[0] != &second.Nodes[0] {
		t.Error("expected cached nodes to be shared")
	}

	ClearCache()

	third, err := Parse(t.Context(), src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if &third.Nodes[0] == &first.Nodes[0] {
		t.Error("expected fresh nodes after ClearCache")
	}
}

func TestParseReader_CachedError(t *testing.T) {
	ClearCache()

	for range 2 {
		_, err := ParseReader(t.Context(), bytes.NewBufferString("{{ endfor }}"))
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("expected ErrSyntax, got %v", err)
		}
	}
}

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(t.Context(), iotest.ErrReader(errors.New("disk on fire")))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}
