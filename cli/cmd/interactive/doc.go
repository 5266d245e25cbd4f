// Package interactive collects template variables from the user.
//
// [Editor.Edit] writes the variable scaffold of a template as indented JSON
// to a temporary file and opens it in $EDITOR (vi if unset). [Form] presents
// one text input per scaffold leaf in the terminal.
package interactive
