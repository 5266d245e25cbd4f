package interactive

import "errors"

var (
	// ErrNoChanges is returned when the scaffold comes back from the editor
	// unchanged.
	ErrNoChanges = errors.New("no changes detected")

	// ErrCanceled is returned when the user leaves the form without
	// submitting it.
	ErrCanceled = errors.New("input canceled")
)
