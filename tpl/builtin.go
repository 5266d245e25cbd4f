package tpl

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

// Func is a built-in function. It receives its evaluated named arguments and
// returns the value substituted for the call.
type Func func(ctx context.Context, args *Object) (Value, error)

// Registry maps function names to implementations.
type Registry map[string]Func

// builtins holds the functions available to every template by default.
var builtins = Registry{
	"files": Files,
}

// DefaultRegistry returns a copy of the default function registry.
func DefaultRegistry() Registry {
	return maps.Clone(builtins)
}

// Builtins returns the sorted names of the default functions.
func Builtins() []string {
	return DefaultRegistry().Names()
}

// Names returns the sorted function names in r.
func (r Registry) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// Lookup returns the function registered under name.
func (r Registry) Lookup(name string) (Func, bool) {
	fn, ok := r[name]

	return fn, ok && fn != nil
}

// call dispatches a call node with its evaluated arguments.
func (r Registry) call(ctx context.Context, n *Call, args *Object) (Value, error) {
	fn, ok := r.Lookup(n.Name)
	if !ok {
		return Value{}, ErrUnknownFunction.At(n.Pos).Wrapf(n.Name).With(
			slog.String("function", n.Name),
			slog.Any("available", r.Names()),
		)
	}

	v, err := fn(ctx, args)
	if err != nil {
		e := WrapError(err)
		if _, ok := e.Position(); !ok {
			e = e.At(n.Pos)
		}

		return Value{}, e.With(slog.String("function", n.Name))
	}

	return v, nil
}

// argReader validates the named arguments of a built-in function.
type argReader struct {
	fn   string
	args *Object
	used map[string]bool
}

func readArgs(fn string, args *Object) *argReader {
	return &argReader{fn: fn, args: args, used: map[string]bool{}}
}

func (a *argReader) get(name string) (Value, bool) {
	a.used[name] = true

	v, ok := a.args.Get(name)
	if ok && v.IsNull() {
		return v, false
	}

	return v, ok
}

func (a *argReader) typeError(name, want string, got Value) error {
	reason := a.fn + ": argument " + name + " must be " + want

	return ErrType.Wrapf(reason).With(
		slog.String("argument", name),
		slog.String("kind", got.Kind().String()),
	)
}

// bool returns the named boolean argument, or def if absent.
func (a *argReader) bool(name string, def bool) (bool, error) {
	v, ok := a.get(name)
	if !ok {
		return def, nil
	}

	b, ok := v.AsBool()
	if !ok {
		return false, a.typeError(name, "a boolean", v)
	}

	return b, nil
}

// strings returns the named list-of-strings argument.
func (a *argReader) strings(name string) ([]string, error) {
	v, ok := a.get(name)
	if !ok {
		return nil, nil
	}

	list, ok := v.AsList()
	if !ok {
		return nil, a.typeError(name, "a list of strings", v)
	}

	out := make([]string, len(list))

	for i, item := range list {
		s, ok := item.AsString()
		if !ok {
			return nil, a.typeError(name, "a list of strings", item)
		}

		out[i] = s
	}

	return out, nil
}

// unknown fails if any argument was never read.
func (a *argReader) unknown() error {
	for name := range a.args.All() {
		if !a.used[name] {
			return ErrArgument.Wrapf(a.fn + ": unknown argument " + name).
				With(slog.String("argument", name))
		}
	}

	return nil
}
