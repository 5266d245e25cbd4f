package store

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func touch(t *testing.T, dir, name, content string) string {
	t.Helper()

	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, name)

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	return path
}

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}

	return out
}

func TestStore_Resolve(t *testing.T) {
	root := t.TempDir()
	global := filepath.Join(root, "global")
	first := filepath.Join(root, "first")
	second := filepath.Join(root, "second")

	touch(t, global, "prompt.tpl", "global")
	touch(t, global, "review.tpl", "global")
	touch(t, second, "prompt.tpl", "second")
	touch(t, first, "notes.tpl", "first")
	local := touch(t, root, "local.txt", "local")

	pathList := strings.Join(
		[]string{second, filepath.Join(root, "absent")},
		string(os.PathListSeparator),
	)

	s := New(
		WithDir(global),
		WithSearchPath(first),
		WithGetenv(env(map[string]string{EnvPath: pathList})),
	)

	tests := []struct {
		name string
		want string
	}{
		{local, local},
		{"prompt", filepath.Join(second, "prompt.tpl")},
		{"prompt.tpl", filepath.Join(second, "prompt.tpl")},
		{"review", filepath.Join(global, "review.tpl")},
		{"notes", filepath.Join(first, "notes.tpl")},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.name), func(t *testing.T) {
			got, err := s.Resolve(t.Context(), tt.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStore_Resolve_NotFound(t *testing.T) {
	global := t.TempDir()
	touch(t, global, "prompt.tpl", "")
	touch(t, global, "project.tpl", "")

	s := New(WithDir(global), WithGetenv(env(nil)))

	_, err := s.Resolve(t.Context(), "promt")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	if !strings.Contains(err.Error(), "did you mean prompt") {
		t.Errorf("expected suggestion in %q", err.Error())
	}

	_, err = s.Resolve(t.Context(), "zzz")
	if !errors.Is(err, ErrTemplateNotFound) || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("expected plain not-found error, got %v", err)
	}
}

func TestStore_SearchPath(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")

	for _, dir := range []string{a, b} {
		if err := os.Mkdir(dir, 0o700); err != nil {
			t.Fatal(err)
		}
	}

	file := touch(t, root, "file", "")
	sep := string(os.PathListSeparator)

	s := New(
		WithDir(root),
		WithSearchPath(b),
		WithGetenv(env(map[string]string{
			EnvPath: strings.Join([]string{a, file, filepath.Join(root, "none"), b, ""}, sep),
		})),
	)

	got := s.SearchPath()
	if !slices.Equal(got, []string{b, a}) {
		t.Errorf("expected [%s %s], got %v", b, a, got)
	}
}

func TestStore_List(t *testing.T) {
	root := t.TempDir()
	global := filepath.Join(root, "global")
	extra := filepath.Join(root, "extra")

	touch(t, global, "prompt.tpl", "")
	touch(t, global, "review.tpl", "")
	touch(t, global, "README.md", "")
	touch(t, extra, "prompt.tpl", "")
	touch(t, extra, "commit-message.tpl", "")

	if err := os.Mkdir(filepath.Join(global, "dir.tpl"), 0o700); err != nil {
		t.Fatal(err)
	}

	s := New(WithDir(global), WithSearchPath(extra), WithGetenv(env(nil)))

	all, err := s.List(t.Context(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := names(all); !slices.Equal(got, []string{"commit-message", "prompt", "review"}) {
		t.Errorf("unexpected names: %v", got)
	}

	for _, e := range all {
		if e.Name == "prompt" && filepath.Dir(e.Path) != extra {
			t.Errorf("expected prompt from %s, got %s", extra, e.Path)
		}
	}

	filtered, err := s.List(t.Context(), "rv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := names(filtered); !slices.Equal(got, []string{"review"}) {
		t.Errorf("expected [review], got %v", got)
	}
}

func TestStore_List_MissingDir(t *testing.T) {
	s := New(WithDir(filepath.Join(t.TempDir(), "none")), WithGetenv(env(nil)))

	entries, err := s.List(t.Context(), "")
	if err != nil || len(entries) != 0 {
		t.Errorf("expected empty listing, got %v (%v)", entries, err)
	}
}

func TestStore_Lifecycle(t *testing.T) {
	s := New(WithDir(filepath.Join(t.TempDir(), "templates")), WithGetenv(env(nil)))

	path, err := s.Create("greet", []byte("Hello {{ name }}\n"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if filepath.Base(path) != "greet.tpl" {
		t.Errorf("expected greet.tpl, got %s", path)
	}

	_, err = s.Create("greet", nil)
	if !errors.Is(err, ErrTemplateExists) {
		t.Errorf("expected ErrTemplateExists, got %v", err)
	}

	got, err := s.Existing("greet")
	if err != nil || got != path {
		t.Errorf("expected %s, got %s (%v)", path, got, err)
	}

	removed, err := s.RemoveIfEmpty("greet")
	if err != nil || removed {
		t.Errorf("expected non-empty template kept, got removed=%t (%v)", removed, err)
	}

	err = s.Remove("greet")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}

	err = s.Remove("greet")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}

	_, err = s.Create("blank", []byte(" \n\t"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	removed, err = s.RemoveIfEmpty("blank")
	if err != nil || !removed {
		t.Errorf("expected blank template removed, got removed=%t (%v)", removed, err)
	}
}

func TestStore_InvalidName(t *testing.T) {
	s := New(WithDir(t.TempDir()), WithGetenv(env(nil)))

	for _, name := range []string{"", ".", "..", "a/b", `a\b`, ".tpl"} {
		_, err := s.Path(name)
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("%q: expected ErrInvalidName, got %v", name, err)
		}
	}
}
