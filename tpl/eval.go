package tpl

import (
	"context"
	"log/slog"
	"strings"
)

// Scope is a stack of variable frames, innermost last. A scope is never
// modified in place; [Scope.Push] returns an extended copy.
type Scope []*Object

// Push returns a new scope with frame as its innermost frame.
func (s Scope) Push(frame *Object) Scope {
	return append(s[:len(s):len(s)], frame)
}

// Lookup returns the value bound to name in the innermost frame that has it.
func (s Scope) Lookup(name string) (Value, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if v, ok := s[i].Get(name); ok {
			return v, true
		}
	}

	return Value{}, false
}

// Resolve returns the value at path. The first segment is looked up with
// [Scope.Lookup]; each following segment selects a key of an Object.
func (s Scope) Resolve(path []string) (Value, error) {
	if len(path) == 0 {
		return Value{}, ErrPath.Wrapf("empty path")
	}

	v, ok := s.Lookup(path[0])
	if !ok {
		return Value{}, ErrUnresolved.Wrapf(strings.Join(path, ".")).With(
			slog.String("path", strings.Join(path, ".")),
			slog.String("segment", path[0]),
		)
	}

	for i, seg := range path[1:] {
		obj, ok := v.AsObject()
		if !ok {
			return Value{}, ErrPath.
				Wrapf(strings.Join(path, ".")+": cannot select "+seg+" from "+v.Kind().String()).
				With(
					slog.String("path", strings.Join(path, ".")),
					slog.String("segment", seg),
					slog.String("parent", strings.Join(path[:i+1], ".")),
				)
		}

		v, ok = obj.Get(seg)
		if !ok {
			return Value{}, ErrUnresolved.
				Wrapf(strings.Join(path, ".")+": no key "+seg).
				With(
					slog.String("path", strings.Join(path, ".")),
					slog.String("segment", seg),
				)
		}
	}

	return v, nil
}

// Render renders ast against data. On failure no partial output is
// returned.
func Render(ctx context.Context, ast *AST, data *Object) (string, error) {
	return ast.Render(ctx, data)
}

// Render renders the template against data. A nil data is treated as an
// empty object.
func (ast *AST) Render(ctx context.Context, data *Object) (string, error) {
	if data == nil {
		data = NewObject()
	}

	ast.logger.TraceContext(ctx, "render start",
		slog.Int("node_count", len(ast.Nodes)),
		slog.Int("data_keys", data.Len()))

	var sb strings.Builder

	err := ast.renderNodes(ctx, &sb, ast.Nodes, Scope{data})
	if err != nil {
		ast.logger.TraceContext(ctx, "render failed", slog.Any("error", err))

		return "", err
	}

	ast.logger.TraceContext(ctx, "render complete",
		slog.Int("output_length", sb.Len()))

	return sb.String(), nil
}

func (ast *AST) renderNodes(
	ctx context.Context,
	sb *strings.Builder,
	nodes []Node,
	scope Scope,
) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Text:
			sb.WriteString(n.Literal)

		case *VarRef:
			v, err := ast.eval(ctx, n, scope)
			if err != nil {
				return err
			}

			sb.WriteString(v.Text())

		case *Loop:
			err := ast.renderLoop(ctx, sb, n, scope)
			if err != nil {
				return err
			}

		case *Call:
			v, err := ast.eval(ctx, n, scope)
			if err != nil {
				return err
			}

			sb.WriteString(v.Text())
		}
	}

	return nil
}

func (ast *AST) renderLoop(
	ctx context.Context,
	sb *strings.Builder,
	loop *Loop,
	scope Scope,
) error {
	src, err := ast.eval(ctx, loop.Source, scope)
	if err != nil {
		return err
	}

	items, ok := src.AsList()
	if !ok {
		return ErrType.At(loop.Pos).Wrapf("loop source must be a list").With(
			slog.String("source", exprString(loop.Source)),
			slog.String("kind", src.Kind().String()),
		)
	}

	ast.logger.TraceContext(ctx, "loop",
		slog.String("item", loop.Item),
		slog.String("source", exprString(loop.Source)),
		slog.Int("count", len(items)))

	for _, item := range items {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		frame := NewObject().Set(loop.Item, item)

		err := ast.renderNodes(ctx, sb, loop.Body, scope.Push(frame))
		if err != nil {
			return err
		}
	}

	return nil
}

// eval evaluates a variable reference or a call.
func (ast *AST) eval(ctx context.Context, expr Expr, scope Scope) (Value, error) {
	switch n := expr.(type) {
	case *VarRef:
		v, err := scope.Resolve(n.Path)
		if err != nil {
			return Value{}, WrapError(err).At(n.Pos)
		}

		return v, nil

	case *Call:
		args := NewObject()

		for _, arg := range n.Args {
			if arg.Ref == nil {
				args.Set(arg.Name, arg.Literal)

				continue
			}

			v, err := ast.eval(ctx, arg.Ref, scope)
			if err != nil {
				return Value{}, err
			}

			args.Set(arg.Name, v)
		}

		ast.logger.TraceContext(ctx, "call",
			slog.String("function", n.Name),
			slog.Int("arg_count", args.Len()))

		reg := ast.builtins
		if reg == nil {
			reg = builtins
		}

		return reg.call(ctx, n, args)
	}

	return Value{}, ErrSyntax.Wrapf("unsupported expression")
}

func exprString(expr Expr) string {
	switch n := expr.(type) {
	case *VarRef:
		return n.String()

	case *Call:
		return n.String()
	}

	return ""
}
