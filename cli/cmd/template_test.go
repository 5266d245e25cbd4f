package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/runtpl/store"
)

func TestTemplateList(t *testing.T) {
	h := newHarness(t, map[string]string{"beta": "", "alpha": ""})

	err := (&TemplateList{}).Run(h.context(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Available templates in " + h.dir + ":\n- alpha\n- beta\n"
	if got := h.out.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTemplateList_Empty(t *testing.T) {
	h := newHarness(t, nil)

	err := (&TemplateList{}).Run(h.context(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(h.out.String(), "No templates found") {
		t.Errorf("expected empty notice, got %q", h.out.String())
	}
}

func TestTemplateNew(t *testing.T) {
	editorScript(t, `printf 'Hello {{ name }}' > "$1"`)

	h := newHarness(t, nil)

	err := (&TemplateNew{Name: "hello"}).Run(h.context(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(h.dir, "hello.tpl"))
	if err != nil {
		t.Fatal(err)
	}

	if string(content) != "Hello {{ name }}" {
		t.Errorf("unexpected content %q", content)
	}

	err = (&TemplateNew{Name: "hello"}).Run(h.context(t))
	if !errors.Is(err, store.ErrTemplateExists) {
		t.Errorf("expected ErrTemplateExists, got %v", err)
	}
}

func TestTemplateNew_Discarded(t *testing.T) {
	t.Setenv("EDITOR", "true")

	h := newHarness(t, nil)

	err := (&TemplateNew{Name: "empty"}).Run(h.context(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(h.dir, "empty.tpl")); !os.IsNotExist(err) {
		t.Errorf("expected empty template removed, got %v", err)
	}

	if !strings.Contains(h.err.String(), "Creation cancelled") {
		t.Errorf("expected notice, got %q", h.err.String())
	}
}

func TestTemplateEdit(t *testing.T) {
	editorScript(t, `printf ' edited' >> "$1"`)

	h := newHarness(t, map[string]string{"doc": "text"})

	err := (&TemplateEdit{Name: "doc"}).Run(h.context(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, _ := os.ReadFile(filepath.Join(h.dir, "doc.tpl"))
	if string(content) != "text edited" {
		t.Errorf("unexpected content %q", content)
	}

	err = (&TemplateEdit{Name: "absent"}).Run(h.context(t))
	if !errors.Is(err, store.ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestTemplateEdit_EditorFailure(t *testing.T) {
	t.Setenv("EDITOR", "false")

	h := newHarness(t, map[string]string{"doc": "text"})

	err := (&TemplateEdit{Name: "doc"}).Run(h.context(t))
	if !errors.Is(err, ErrEditor) {
		t.Errorf("expected ErrEditor, got %v", err)
	}
}

func TestTemplateRemove(t *testing.T) {
	h := newHarness(t, map[string]string{"keep": "k", "drop": "d"})
	h.in = strings.NewReader("n\ny\n")

	err := (&TemplateRemove{Names: []string{"keep", "drop"}}).Run(h.context(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(h.dir, "keep.tpl")); err != nil {
		t.Errorf("expected keep.tpl to remain: %v", err)
	}

	if _, err := os.Stat(filepath.Join(h.dir, "drop.tpl")); !os.IsNotExist(err) {
		t.Errorf("expected drop.tpl removed, got %v", err)
	}

	for _, want := range []string{"Removal cancelled.", "Template 'drop' removed successfully."} {
		if !strings.Contains(h.err.String(), want) {
			t.Errorf("expected %q in %q", want, h.err.String())
		}
	}
}

func TestTemplateRemove_Yes(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "", "b": ""})

	err := (&TemplateRemove{Names: []string{"a", "missing", "b"}, Yes: true}).Run(h.context(t))
	if !errors.Is(err, store.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	entries, _ := os.ReadDir(h.dir)
	if len(entries) != 0 {
		t.Errorf("expected both templates removed, found %d", len(entries))
	}
}
