package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"iter"
	"log/slog"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4) // trace
	LevelDebug Level = Level(slog.LevelDebug)     // debug
	LevelInfo  Level = Level(slog.LevelInfo)      // info
	LevelWarn  Level = Level(slog.LevelWarn)      // warn
	LevelError Level = Level(slog.LevelError)     // error
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelWarn

// Levels returns an iterator over the names of all defined log levels, in
// increasing severity.
func Levels() iter.Seq[string] {
	return names(LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError)
}

// ParseLevel parses a level name such as "trace" or "warn", case
// insensitively. Names accepted by [slog.Level.UnmarshalText], including
// offsets like "INFO+2", are also valid. Unknown names yield [DefaultLevel].
func ParseLevel(s string) Level {
	l, err := parseLevel(s)
	if err != nil {
		return DefaultLevel
	}

	return l
}

func parseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)

	// slog does not know about trace.
	if strings.EqualFold(s, LevelTrace.String()) {
		return LevelTrace, nil
	}

	var l slog.Level

	err := l.UnmarshalText([]byte(s))
	if err != nil {
		return DefaultLevel, err
	}

	return Level(l), nil
}

// MarshalText implements [encoding.TextMarshaler].
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Unlike [ParseLevel],
// it rejects unknown names.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := parseLevel(string(text))
	if err != nil {
		return err
	}

	*l = parsed

	return nil
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

// Formats returns an iterator over the names of all defined log formats.
func Formats() iter.Seq[string] {
	return names(FormatText, FormatJSON)
}

// ParseFormat parses a format name, "text" or "json". Unknown names yield
// [DefaultFormat].
func ParseFormat(s string) Format {
	f, ok := parseFormat(s)
	if !ok {
		return DefaultFormat
	}

	return f
}

func parseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))

	for _, f := range []Format{FormatText, FormatJSON} {
		if s == f.String() {
			return f, true
		}
	}

	return DefaultFormat, false
}

// MarshalText implements [encoding.TextMarshaler].
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Unlike [ParseFormat],
// it rejects unknown names.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, ok := parseFormat(string(text))
	if !ok {
		return &UnknownError{Kind: "format", Name: string(text)}
	}

	*f = parsed

	return nil
}

// UnknownError reports an unrecognized level or format name.
type UnknownError struct {
	Kind string
	Name string
}

func (e *UnknownError) Error() string {
	return "unknown log " + e.Kind + " " + `"` + e.Name + `"`
}

func names[T interface{ String() string }](values ...T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range values {
			if !yield(v.String()) {
				return
			}
		}
	}
}
