package tpl

import (
	"testing"
)

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no variables",
			input: "plain",
			want:  `{}`,
		},
		{
			name:  "dotted paths merge",
			input: "{{project.title}} {{project.description}} {{owner}}",
			want:  `{"project":{"title":"","description":""},"owner":""}`,
		},
		{
			name:  "loop items are not free",
			input: "{{foreach user in users}}{{user}}{{endfor}}",
			want:  `{"users":[]}`,
		},
		{
			name:  "item fields become element skeleton",
			input: "{{foreach t in tasks}}{{t.name}} {{t.done}} {{title}}{{endfor}}",
			want:  `{"tasks":[{"name":"","done":""}],"title":""}`,
		},
		{
			name:  "nested collections",
			input: "{{foreach g in groups}}{{g.name}}{{foreach m in g.members}}{{m.email}}{{endfor}}{{endfor}}",
			want:  `{"groups":[{"name":"","members":[{"email":""}]}]}`,
		},
		{
			name:  "call arguments",
			input: `{{foreach f in files(source: src.dir, recursive: false)}}{{f.path}}{{endfor}}`,
			want:  `{"src":{"dir":""}}`,
		},
		{
			name:  "object wins over list and string",
			input: "{{a}}{{foreach x in a}}{{endfor}}{{a.b}}",
			want:  `{"a":{"b":""}}`,
		},
		{
			name:  "list wins over string",
			input: "{{xs}}{{foreach x in xs}}{{x}}{{endfor}}",
			want:  `{"xs":[]}`,
		},
		{
			name:  "shadowed item",
			input: "{{foreach x in xs}}{{foreach x in x.inner}}{{x.v}}{{endfor}}{{endfor}}",
			want:  `{"xs":[{"inner":[{"v":""}]}]}`,
		},
		{
			name:  "outer item inside inner loop",
			input: "{{foreach a in as}}{{foreach b in bs}}{{a.id}}{{b}}{{endfor}}{{endfor}}",
			want:  `{"as":[{"id":""}],"bs":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast, err := Parse(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			got, err := ExtractVariables(ast).MarshalJSON()
			if err != nil {
				t.Fatalf("marshal error: %v", err)
			}

			if string(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// A scaffold always satisfies the template it was extracted from.
func TestExtractVariables_RendersCleanly(t *testing.T) {
	inputs := []string{
		"{{project.title}} {{project.description}}",
		"{{foreach t in tasks}}{{t.name}}{{foreach s in t.steps}}{{s}}{{endfor}}{{endfor}}",
		"{{foreach g in groups}}{{g.name}}{{foreach m in g.members}}{{m.email}}{{endfor}}{{endfor}}",
	}

	for _, input := range inputs {
		ast, err := Parse(t.Context(), input)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		scaffold := ExtractVariables(ast)

		_, err = ast.Render(t.Context(), scaffold)
		if err != nil {
			t.Errorf("%q: scaffold does not satisfy template: %v", input, err)
		}
	}
}
