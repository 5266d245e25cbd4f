package tpl

import (
	"io"
	"iter"
	"strings"
	"unicode/utf8"
)

// Directive delimiters.
const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// TokenKind distinguishes literal text from directives.
type TokenKind uint8

const (
	// TokenLiteral is text emitted verbatim.
	TokenLiteral TokenKind = iota
	// TokenDirective is the trimmed content between "{{" and "}}".
	TokenDirective
)

// String returns a lowercase name for the token kind.
func (k TokenKind) String() string {
	if k == TokenDirective {
		return "directive"
	}

	return "literal"
}

// Token is a lexical unit of template source.
type Token struct {
	Kind TokenKind
	Text string   // literal text, or trimmed directive content
	Pos  Position // start of the token (the "{{" for directives)
	End  int      // byte offset just past the token
}

// Lexer splits template source into literal and directive tokens.
// Tokens are produced on demand.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// NewLexer returns a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{input: src, line: 1, col: 1}
}

// Next returns the next token, or [io.EOF] once the input is exhausted.
// An opening "{{" without a matching "}}" fails with [ErrSyntax].
func (l *Lexer) Next() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{}, io.EOF
	}

	start := l.position()

	if !strings.HasPrefix(l.input[l.pos:], openDelim) {
		n := strings.Index(l.input[l.pos:], openDelim)
		if n < 0 {
			n = len(l.input) - l.pos
		}

		text := l.input[l.pos : l.pos+n]
		l.advance(n)

		return Token{Kind: TokenLiteral, Text: text, Pos: start, End: l.pos}, nil
	}

	body := l.pos + len(openDelim)

	n := strings.Index(l.input[body:], closeDelim)
	if n < 0 {
		return Token{}, ErrSyntax.At(start).Wrapf("unterminated directive")
	}

	content := strings.TrimSpace(l.input[body : body+n])
	l.advance(len(openDelim) + n + len(closeDelim))

	return Token{Kind: TokenDirective, Text: content, Pos: start, End: l.pos}, nil
}

// All returns an iterator over the remaining tokens. Iteration stops after
// the first error, which is yielded with a zero Token.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err == io.EOF {
				return
			}

			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// advance moves n bytes forward, keeping line and column current.
func (l *Lexer) advance(n int) {
	end := min(l.pos+n, len(l.input))

	for l.pos < end {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])

		l.pos += size
		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
}
