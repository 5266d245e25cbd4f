package data

import "github.com/ardnew/runtpl/tpl"

// Predefined errors (sentinel values).
var (
	ErrInvalidArgument = tpl.NewError("invalid context argument")
	ErrStdinReused     = tpl.NewError("standard input may be read only once")
	ErrNotObject       = tpl.NewError("data root must be an object")
	ErrDecode          = tpl.NewError("failed to decode data")
)
