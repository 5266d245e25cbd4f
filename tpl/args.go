package tpl

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/ast"
	exprparser "github.com/expr-lang/expr/parser"
)

// parseArgs parses the text between the parentheses of a call directive.
//
// Arguments are "name: value" pairs separated by commas. A value that is a
// dotted path (the same grammar as a variable directive, with an identifier
// as its first segment) references context data. Any other value is parsed
// as an expr-lang literal and must be a double-quoted string, a list of such
// strings, or a boolean.
func parseArgs(text string, pos Position) ([]Arg, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	pairs, err := splitArgs(text, pos)
	if err != nil {
		return nil, err.With(slog.String("arguments", text))
	}

	args := make([]Arg, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, ErrSyntax.At(pos).Wrapf("malformed argument list").
				With(slog.String("arguments", text))
		}

		name, value = strings.TrimSpace(name), strings.TrimSpace(value)

		if !isIdentifier(name) {
			return nil, ErrSyntax.At(pos).Wrapf("argument name must be an identifier").
				With(slog.String("argument", name))
		}

		if seen[name] {
			return nil, ErrSyntax.At(pos).Wrapf("duplicate argument").
				With(slog.String("argument", name))
		}

		seen[name] = true

		arg, err := argValue(name, value, pos)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return args, nil
}

// splitArgs splits an argument list at the commas outside strings and
// brackets. A trailing comma is allowed.
func splitArgs(text string, pos Position) ([]string, *Error) {
	var (
		parts           []string
		start, depth    int
		quoted, escaped bool
	)

	for i, r := range text {
		switch {
		case escaped:
			escaped = false

		case quoted:
			switch r {
			case '\\':
				escaped = true

			case '"':
				quoted = false
			}

		case r == '"':
			quoted = true

		case r == '\'':
			return nil, ErrSyntax.At(pos).Wrapf("strings must be double-quoted")

		case r == '[':
			depth++

		case r == ']':
			if depth--; depth < 0 {
				return nil, ErrSyntax.At(pos).Wrapf("unbalanced brackets")
			}

		case r == ',' && depth == 0:
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}

	switch {
	case quoted:
		return nil, ErrSyntax.At(pos).Wrapf("unterminated string")

	case depth != 0:
		return nil, ErrSyntax.At(pos).Wrapf("unbalanced brackets")
	}

	if last := text[start:]; len(parts) == 0 || strings.TrimSpace(last) != "" {
		parts = append(parts, last)
	}

	return parts, nil
}

func argValue(name, value string, pos Position) (Arg, error) {
	arg := Arg{Name: name}

	if path, ok := parsePath(value); ok && isIdentifier(path[0]) &&
		value != "true" && value != "false" {
		arg.Ref = &VarRef{Path: path, Pos: pos}

		return arg, nil
	}

	tree, err := exprparser.Parse(value)
	if err != nil {
		return arg, ErrSyntax.At(pos).Wrap(err).
			With(slog.String("argument", name))
	}

	switch n := tree.Node.(type) {
	case *ast.StringNode:
		arg.Literal = String(n.Value)

		return arg, nil

	case *ast.BoolNode:
		arg.Literal = Bool(n.Value)

		return arg, nil

	case *ast.ArrayNode:
		items := make([]string, len(n.Nodes))

		for i, item := range n.Nodes {
			s, ok := item.(*ast.StringNode)
			if !ok {
				return arg, ErrSyntax.At(pos).Wrapf("list arguments may only hold strings").
					With(slog.String("argument", name))
			}

			items[i] = s.Value
		}

		arg.Literal = Strings(items...)

		return arg, nil
	}

	return arg, ErrSyntax.At(pos).Wrapf("unsupported argument value").
		With(
			slog.String("argument", name),
			slog.String("value", value),
		)
}
