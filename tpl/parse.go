package tpl

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Block keywords.
const (
	keywordForeach = "foreach"
	keywordIn      = "in"
	keywordEndfor  = "endfor"
)

// Parse parses template source into an AST.
//
// Parsed sources are cached by content, so parsing the same template again
// returns a new AST sharing the previously built nodes.
func Parse(ctx context.Context, src string, opts ...Option) (*AST, error) {
	return parseCached(ctx, src, opts...)
}

// parse builds the node tree of src, bypassing the cache.
func parse(ctx context.Context, src string, opts ...Option) (*AST, error) {
	ast := new(AST)

	applyDefaults(ast)
	applyOptions(ast, opts...)

	ast.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(src)))

	var tokens []Token

	for tok, err := range NewLexer(src).All() {
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
	}

	trimStandalone(src, tokens)

	p := &parser{tokens: tokens}

	nodes, err := p.parseBody(nil)
	if err != nil {
		return nil, err
	}

	ast.Nodes = nodes

	ast.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.Int("node_count", len(nodes)))

	return ast, nil
}

// parser holds the parser state.
type parser struct {
	tokens []Token
	pos    int
}

// parseBody parses nodes until the endfor closing open, or until the end of
// input if open is nil.
func (p *parser) parseBody(open *Loop) ([]Node, error) {
	nodes := make([]Node, 0)

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		if tok.Kind == TokenLiteral {
			if tok.Text != "" {
				nodes = append(nodes, &Text{Literal: tok.Text, Pos: tok.Pos})
			}

			continue
		}

		switch keyword(tok.Text) {
		case keywordEndfor:
			if tok.Text != keywordEndfor {
				return nil, ErrSyntax.At(tok.Pos).Wrapf("unexpected content after endfor").
					With(slog.String("directive", tok.Text))
			}

			if open == nil {
				return nil, ErrSyntax.At(tok.Pos).Wrapf("unmatched endfor")
			}

			return nodes, nil

		case keywordForeach:
			loop, err := parseLoopHeader(tok)
			if err != nil {
				return nil, err
			}

			loop.Body, err = p.parseBody(loop)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, loop)

		default:
			node, err := parseDirective(tok)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, node)
		}
	}

	if open != nil {
		return nil, ErrSyntax.At(open.Pos).Wrapf("unclosed foreach").
			With(slog.String("item", open.Item))
	}

	return nodes, nil
}

// parseLoopHeader parses "foreach <ident> in <expr>".
func parseLoopHeader(tok Token) (*Loop, error) {
	rest, ok := cutKeyword(tok.Text, keywordForeach)
	if !ok {
		return nil, ErrSyntax.At(tok.Pos).Wrapf("malformed foreach").
			With(slog.String("directive", tok.Text))
	}

	item, rest := splitWord(rest)
	if !isIdentifier(item) {
		return nil, ErrSyntax.At(tok.Pos).Wrapf("foreach item must be an identifier").
			With(slog.String("directive", tok.Text))
	}

	rest, ok = cutKeyword(rest, keywordIn)
	if !ok || rest == "" {
		return nil, ErrSyntax.At(tok.Pos).Wrapf("expected \"in <source>\" after foreach item").
			With(slog.String("directive", tok.Text))
	}

	source, err := parseExpr(rest, tok.Pos)
	if err != nil {
		return nil, err
	}

	return &Loop{Item: item, Source: source, Pos: tok.Pos}, nil
}

// parseDirective parses a substitution directive. Calls are only valid as
// loop sources.
func parseDirective(tok Token) (Node, error) {
	if tok.Text == "" {
		return nil, ErrSyntax.At(tok.Pos).Wrapf("empty directive")
	}

	expr, err := parseExpr(tok.Text, tok.Pos)
	if err != nil {
		return nil, err
	}

	if call, ok := expr.(*Call); ok {
		return nil, ErrSyntax.At(tok.Pos).Wrapf("function call outside foreach").
			With(slog.String("function", call.Name))
	}

	return expr, nil
}

// parseExpr parses a call or a dotted variable path.
func parseExpr(text string, pos Position) (Expr, error) {
	open := strings.IndexByte(text, '(')
	if open < 0 {
		path, ok := parsePath(text)
		if !ok {
			return nil, ErrSyntax.At(pos).Wrapf("invalid variable path").
				With(slog.String("directive", text))
		}

		return &VarRef{Path: path, Pos: pos}, nil
	}

	name := strings.TrimSpace(text[:open])
	if !isIdentifier(name) {
		return nil, ErrSyntax.At(pos).Wrapf("invalid function name").
			With(slog.String("directive", text))
	}

	if !strings.HasSuffix(text, ")") {
		return nil, ErrSyntax.At(pos).Wrapf("expected \")\" at end of call").
			With(slog.String("directive", text))
	}

	args, err := parseArgs(text[open+1:len(text)-1], pos)
	if err != nil {
		return nil, err
	}

	return &Call{Name: name, Args: args, Pos: pos}, nil
}

// parsePath splits a dotted path and validates each segment.
func parsePath(text string) ([]string, bool) {
	if text == "" {
		return nil, false
	}

	path := strings.Split(text, ".")
	for _, seg := range path {
		if !isPathSegment(seg) {
			return nil, false
		}
	}

	return path, true
}

// keyword returns the block keyword that text begins with, if any.
func keyword(text string) string {
	for _, kw := range []string{keywordForeach, keywordEndfor} {
		if _, ok := cutKeyword(text, kw); ok {
			return kw
		}
	}

	return ""
}

// cutKeyword removes kw from the front of text. The keyword must be followed
// by whitespace or the end of text. The remainder is trimmed.
func cutKeyword(text, kw string) (string, bool) {
	rest, ok := strings.CutPrefix(text, kw)
	if !ok {
		return text, false
	}

	if rest != "" {
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsSpace(r) {
			return text, false
		}
	}

	return strings.TrimSpace(rest), true
}

// splitWord returns the leading run of non-space runes and the trimmed rest.
func splitWord(text string) (string, string) {
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, ""
	}

	return text[:i], strings.TrimSpace(text[i:])
}

// isIdentifier reports whether s is a loop item or function name.
func isIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && !isIdentifierStart(r) {
			return false
		}

		if !isIdentifierContinue(r) {
			return false
		}
	}

	return s != ""
}

// isPathSegment reports whether s is one segment of a variable path.
// Unlike identifiers, segments may begin with a digit.
func isPathSegment(s string) bool {
	for _, r := range s {
		if !isIdentifierContinue(r) {
			return false
		}
	}

	return s != ""
}

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
	)
}

// trimStandalone removes the indentation and line terminator surrounding
// every foreach or endfor directive that is the only non-whitespace content
// on its line, so block directives do not leave blank lines in the output.
//
// Token text is trimmed in place. Trimmed regions never overlap: a leading
// trim ends at a newline and a trailing trim begins after one.
func trimStandalone(src string, tokens []Token) {
	for i, tok := range tokens {
		if tok.Kind != TokenDirective || keyword(tok.Text) == "" {
			continue
		}

		lineStart := strings.LastIndexByte(src[:tok.Pos.Offset], '\n') + 1
		if !isBlank(src[lineStart:tok.Pos.Offset]) {
			continue
		}

		lineEnd := len(src)
		if n := strings.IndexByte(src[tok.End:], '\n'); n >= 0 {
			lineEnd = tok.End + n + 1
		}

		if !isBlank(src[tok.End:lineEnd]) {
			continue
		}

		if n := tok.Pos.Offset - lineStart; n > 0 && i > 0 {
			prev := &tokens[i-1]
			prev.Text = prev.Text[:len(prev.Text)-n]
			prev.End -= n
		}

		if n := lineEnd - tok.End; n > 0 && i+1 < len(tokens) {
			next := &tokens[i+1]
			next.Text = next.Text[n:]
			next.Pos = Position{Offset: lineEnd, Line: tok.Pos.Line + 1, Column: 1}
		}
	}
}

// isBlank reports whether s holds only horizontal whitespace and line
// terminators.
func isBlank(s string) bool {
	return strings.TrimLeft(s, " \t\r\n") == ""
}
