package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/runtpl/log"
	"github.com/ardnew/runtpl/store"
	"github.com/ardnew/runtpl/tpl"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type storeKey struct{}

// WithStore returns a new context.Context containing the template store.
func WithStore(ctx context.Context, s *store.Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

func storeFrom(ctx context.Context) *store.Store {
	s, ok := ctx.Value(storeKey{}).(*store.Store)
	if !ok || s == nil {
		return store.New(store.WithLogger(log.Default()))
	}

	return s
}

type streamsKey struct{}

// Streams are the standard streams of a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context containing the given streams.
// Nil members default to the process's standard streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// loadTemplate resolves name in the store and parses the template.
func loadTemplate(ctx context.Context, name string) (*tpl.AST, string, error) {
	path, err := storeFrom(ctx).Resolve(ctx, name)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, path, ErrReadTemplate.
			With(slog.String("path", path)).
			Wrap(err)
	}
	defer f.Close()

	ast, err := tpl.ParseReader(ctx, f, tpl.WithLogger(log.Default()))
	if err != nil {
		return nil, path, tpl.WrapError(err).With(slog.String("template", path))
	}

	return ast, path, nil
}
