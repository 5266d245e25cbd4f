package tpl

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package are derived from one of these using
// [Error.With], [Error.Wrap] or [Error.At], and remain matchable with
// [errors.Is].
var (
	ErrSyntax          = NewError("syntax error")
	ErrUnknownFunction = NewError("unknown function")
	ErrType            = NewError("type error")
	ErrPath            = NewError("path error")
	ErrUnresolved      = NewError("unresolved variable")
	ErrFileRead        = NewError("file read error")
	ErrArgument        = NewError("invalid argument")
	ErrReadInput       = NewError("failed to read input")
)

// Error represents an error with optional source position and structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	pos   *Position   // Template position, if known
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<msg> at offset N (line L, column C): <err>",
// where the position and the wrapped error are omitted if unset.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.pos != nil {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString("at ")
		sb.WriteString(e.pos.String())
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return t.msg == e.msg && t.err == nil && t.pos == nil && len(t.attrs) == 0
}

// Position returns the template position attached to the error, if any.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos != nil {
		attrs = append(attrs,
			slog.Int("offset", e.pos.Offset),
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
	}
}

// Wrapf creates a new Error wrapping a plain message.
func (e *Error) Wrapf(reason string) *Error {
	return e.Wrap(errors.New(reason))
}

// At returns a copy of the error positioned at pos.
func (e *Error) At(pos Position) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   &pos,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   e.pos,
		attrs: newAttrs,
	}
}

// Position identifies a location in template source.
// Offset is a zero-based byte offset; Line and Column are one-based, with
// Column counted in runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "offset N (line L, column C)".
func (p Position) String() string {
	return "offset " + strconv.Itoa(p.Offset) +
		" (line " + strconv.Itoa(p.Line) +
		", column " + strconv.Itoa(p.Column) + ")"
}
