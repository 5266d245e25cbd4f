package store

import "github.com/ardnew/runtpl/tpl"

// Predefined errors (sentinel values).
var (
	ErrTemplateNotFound = tpl.NewError("template not found")
	ErrTemplateExists   = tpl.NewError("template already exists")
	ErrInvalidName      = tpl.NewError("invalid template name")
)
