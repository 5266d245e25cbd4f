package data

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/runtpl/log"
	"github.com/ardnew/runtpl/tpl"
)

// Argument suffixes and separators.
const (
	stdinSuffix = "@-"
	fileSep     = "@="
	valueSep    = "="
	listSep     = ","
)

// Loader assembles context objects from command-line arguments.
type Loader struct {
	stdin     io.Reader
	stdinUsed bool
	logger    log.Logger
}

// Option configures a [Loader].
type Option func(*Loader)

// WithStdin sets the reader consumed by key@- arguments.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) { l.stdin = r }
}

// WithLogger sets the logger used to trace argument handling.
func WithLogger(logger log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader returns a Loader reading key@- arguments from [os.Stdin] unless
// configured otherwise.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{stdin: os.Stdin}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	return l
}

// Parse binds each argument into a new context object.
func Parse(ctx context.Context, args []string, opts ...Option) (*tpl.Object, error) {
	obj := tpl.NewObject()

	err := NewLoader(opts...).Into(ctx, obj, args...)
	if err != nil {
		return nil, err
	}

	return obj, nil
}

// Into binds each argument into obj, replacing existing keys.
func (l *Loader) Into(ctx context.Context, obj *tpl.Object, args ...string) error {
	for _, arg := range args {
		key, val, err := l.Argument(arg)
		if err != nil {
			return err
		}

		l.logger.TraceContext(ctx, "context argument",
			slog.String("key", key),
			slog.String("kind", val.Kind().String()),
		)

		obj.Set(key, val)
	}

	return nil
}

// Argument parses a single key=value, key@=path or key@- argument.
func (l *Loader) Argument(arg string) (key string, val tpl.Value, err error) {
	if key, ok := strings.CutSuffix(arg, stdinSuffix); ok && validKey(key) {
		val, err = l.readStdin()

		return key, val, err
	}

	if key, path, ok := strings.Cut(arg, fileSep); ok && validKey(key) {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", tpl.Value{}, tpl.ErrFileRead.
				Wrap(err).
				With(slog.String("path", path), slog.String("key", key))
		}

		return key, decodeOrString(path, Normalize(content)), nil
	}

	if key, raw, ok := strings.Cut(arg, valueSep); ok && validKey(key) {
		return key, splitValue(Normalize([]byte(raw))), nil
	}

	return "", tpl.Value{}, ErrInvalidArgument.
		Wrapf("expected key=value, key@=path or key@-: " + arg).
		With(slog.String("argument", arg))
}

func (l *Loader) readStdin() (tpl.Value, error) {
	if l.stdinUsed {
		return tpl.Value{}, ErrStdinReused
	}

	l.stdinUsed = true

	if l.stdin == nil {
		return tpl.String(""), nil
	}

	content, err := io.ReadAll(l.stdin)
	if err != nil {
		return tpl.Value{}, tpl.ErrReadInput.Wrap(err)
	}

	return decodeOrString("", Normalize(content)), nil
}

// splitValue returns raw as a string, or as a list of trimmed strings if it
// contains a comma.
func splitValue(raw string) tpl.Value {
	if !strings.Contains(raw, listSep) {
		return tpl.String(raw)
	}

	items := strings.Split(raw, listSep)
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}

	return tpl.Strings(items...)
}

func validKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, "=@")
}

// LoadFile reads a whole context document. The root must be an object.
func LoadFile(path string) (*tpl.Object, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, tpl.ErrFileRead.Wrap(err).With(slog.String("path", path))
	}

	return DecodeObject(path, Normalize(content))
}
