package tpl

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "literal only",
			input: "plain text",
			want: []Token{
				{Kind: TokenLiteral, Text: "plain text", Pos: Position{0, 1, 1}, End: 10},
			},
		},
		{
			name:  "directive trimmed",
			input: "Hello {{ name }}!",
			want: []Token{
				{Kind: TokenLiteral, Text: "Hello ", Pos: Position{0, 1, 1}, End: 6},
				{Kind: TokenDirective, Text: "name", Pos: Position{6, 1, 7}, End: 16},
				{Kind: TokenLiteral, Text: "!", Pos: Position{16, 1, 17}, End: 17},
			},
		},
		{
			name:  "positions across lines",
			input: "a\n{{x}}",
			want: []Token{
				{Kind: TokenLiteral, Text: "a\n", Pos: Position{0, 1, 1}, End: 2},
				{Kind: TokenDirective, Text: "x", Pos: Position{2, 2, 1}, End: 7},
			},
		},
		{
			name:  "empty directive",
			input: "{{}}",
			want: []Token{
				{Kind: TokenDirective, Text: "", Pos: Position{0, 1, 1}, End: 4},
			},
		},
		{
			name:  "stray close delimiter is literal",
			input: "{{ a }} }}",
			want: []Token{
				{Kind: TokenDirective, Text: "a", Pos: Position{0, 1, 1}, End: 7},
				{Kind: TokenLiteral, Text: " }}", Pos: Position{7, 1, 8}, End: 10},
			},
		},
		{
			name:  "columns count runes",
			input: "é{{x}}",
			want: []Token{
				{Kind: TokenLiteral, Text: "é", Pos: Position{0, 1, 1}, End: 2},
				{Kind: TokenDirective, Text: "x", Pos: Position{2, 1, 2}, End: 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Token

			for tok, err := range NewLexer(tt.input).All() {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				got = append(got, tok)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d: %+v", len(tt.want), len(got), got)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestLexer_Unterminated(t *testing.T) {
	l := NewLexer("abc {{ name")

	tok, err := l.Next()
	if err != nil || tok.Text != "abc " {
		t.Fatalf("expected literal \"abc \", got %+v (err %v)", tok, err)
	}

	_, err = l.Next()
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}

	pos, ok := e.Position()
	if !ok || pos.Offset != 4 {
		t.Errorf("expected error at offset 4, got %v (set %v)", pos, ok)
	}

	if !strings.Contains(err.Error(), "offset 4") {
		t.Errorf("expected message to name offset 4, got %q", err.Error())
	}
}

// FuzzLexer checks that lexing never panics and that the tokens of a
// well-formed input cover it exactly.
func FuzzLexer(f *testing.F) {
	f.Add("foo")
	f.Add("{{ a.b }}")
	f.Add("{{foreach x in xs}}\n{{x}}\n{{endfor}}")
	f.Add("{{ unterminated")
	f.Add("}} {{")
	f.Add("{{{{}}}}")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		var (
			sb  strings.Builder
			end int
		)

		for tok, err := range NewLexer(input).All() {
			if err != nil {
				if !errors.Is(err, ErrSyntax) {
					t.Errorf("expected ErrSyntax, got %v", err)
				}

				return
			}

			if tok.Pos.Offset != end {
				t.Errorf("token at offset %d does not follow previous end %d",
					tok.Pos.Offset, end)
			}

			sb.WriteString(input[tok.Pos.Offset:tok.End])
			end = tok.End
		}

		if sb.String() != input {
			t.Errorf("tokens do not cover input %q: got %q", input, sb.String())
		}
	})
}
