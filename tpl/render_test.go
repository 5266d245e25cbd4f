package tpl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const promptTemplate = `# {{ project.title }}

{{ project.description }}

## Tasks
{{foreach task in tasks}}
- [{{ task.status }}] {{ task.name }}
  {{foreach note in task.notes}}
  > {{ note }}
  {{endfor}}
{{endfor}}

## Sources
{{foreach f in files(source: sources, exclude_names: ["skip.txt"])}}
### {{ f.path }}
{{ f.content }}
{{endfor}}
`

func TestRender_Prompt(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "code"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "code", "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "code", "skip.txt"), []byte("no"), 0o644))

	t.Chdir(dir)

	ast, err := Parse(t.Context(), promptTemplate)
	require.NoError(t, err)

	data, err := ParseJSON([]byte(`{
		"project": {"title": "runtpl", "description": "Template runner."},
		"tasks": [
			{"name": "parse", "status": "x", "notes": ["lexer", "parser"]},
			{"name": "render", "status": " ", "notes": []}
		],
		"sources": "code"
	}`))
	require.NoError(t, err)

	obj, ok := data.AsObject()
	require.True(t, ok)

	got, err := ast.Render(t.Context(), obj)
	require.NoError(t, err)

	want := `# runtpl

Template runner.

## Tasks
- [x] parse
  > lexer
  > parser
- [ ] render

## Sources
### ` + filepath.Join("code", "main.go") + `
package main

`
	require.Equal(t, want, got)
}

func TestExtractVariables_Prompt(t *testing.T) {
	ast, err := Parse(t.Context(), promptTemplate)
	require.NoError(t, err)

	got, err := ExtractVariables(ast).MarshalJSON()
	require.NoError(t, err)

	require.JSONEq(t, `{
		"project": {"title": "", "description": ""},
		"tasks": [{"status": "", "name": "", "notes": []}],
		"sources": ""
	}`, string(got))

	// Key order follows first use.
	require.Equal(t,
		`{"project":{"title":"","description":""},"tasks":[{"status":"","name":"","notes":[]}],"sources":""}`,
		string(got))
}
