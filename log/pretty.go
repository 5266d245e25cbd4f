package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler is the state shared by the colorized handlers: options,
// the output writer and its lock, and the attributes and group prefix
// accumulated through WithAttrs and WithGroup.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr // pre-formatted with their group prefix as key
	prefix string      // dotted group path for subsequent attributes
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) prettyHandler {
	return prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func (h prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	flat := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(flat, h.attrs)

	for _, a := range attrs {
		flat = appendFlat(flat, h.prefix, a)
	}

	h.attrs = flat

	return h
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	if name != "" {
		h.prefix += name + "."
	}

	return h
}

// header returns the attributes that start every record: time, level,
// source and message, passed through ReplaceAttr.
func (h prettyHandler) header(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		attrs = append(attrs, slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			attrs = append(attrs,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))

	out := attrs[:0]

	for _, a := range attrs {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			out = append(out, a)
		}
	}

	return out
}

// body returns the handler and record attributes, flattened with dotted
// group keys.
func (h prettyHandler) body(r slog.Record) []slog.Attr {
	attrs := append([]slog.Attr(nil), h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = appendFlat(attrs, h.prefix, a)

		return true
	})

	return attrs
}

func (h prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// appendFlat appends a to attrs, expanding groups into dotted keys.
func appendFlat(attrs []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		sub := prefix
		if a.Key != "" {
			sub += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			attrs = appendFlat(attrs, sub, g)
		}

		return attrs
	}

	if a.Equal(slog.Attr{}) {
		return attrs
	}

	a.Key = prefix + a.Key

	return append(attrs, a)
}

// colorize writes v in the color of its kind.
func colorize(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, ""

	switch v.Kind() {
	case slog.KindString:
		text = v.String()

	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color, text = colorRed, "false"
		if v.Bool() {
			color, text = colorGreen, "true"
		}

	case slog.KindDuration:
		color, text = colorMagenta, v.Duration().String()

	case slog.KindTime:
		color, text = colorBlue, v.Time().Format(time.RFC3339)

	default:
		switch x := v.Any().(type) {
		case slog.Level:
			color, text = levelColor(x), levelName(x)

		case nil:
			color, text = colorGray, "null"

		case error:
			color, text = colorRed, x.Error()

		default:
			text = fmt.Sprint(x)
		}
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed

	case level >= slog.LevelWarn:
		return colorYellow

	case level >= slog.LevelInfo:
		return colorGreen

	case level >= slog.LevelDebug:
		return colorBlue

	default:
		return colorMagenta
	}
}

// colorizeLevel colors a level value rendered by ReplaceAttr as a string.
func colorizeLevel(buf *bytes.Buffer, a slog.Attr) bool {
	if a.Key != slog.LevelKey || a.Value.Kind() != slog.KindString {
		return false
	}

	name := a.Value.String()

	color := colorMagenta

	switch {
	case strings.HasPrefix(name, "ERROR"):
		color = colorRed

	case strings.HasPrefix(name, "WARN"):
		color = colorYellow

	case strings.HasPrefix(name, "INFO"):
		color = colorGreen

	case strings.HasPrefix(name, "DEBUG"):
		color = colorBlue
	}

	buf.WriteString(color)
	buf.WriteString(name)
	buf.WriteString(colorReset)

	return true
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{newPrettyHandler(w, opts)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range append(h.header(r), h.body(r)...) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray)
		buf.WriteString(a.Key)
		buf.WriteString(colorReset)
		buf.WriteByte('=')

		if !colorizeLevel(buf, a) {
			colorize(buf, a.Value)
		}
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented, colorized object.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyHandler(w, opts)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	for i, a := range append(h.header(r), h.body(r)...) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(colorGray)
		buf.WriteString(strconv.Quote(a.Key))
		buf.WriteString(colorReset)
		buf.WriteString(": ")

		if !colorizeLevel(buf, a) {
			colorize(buf, a.Value)
		}
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
