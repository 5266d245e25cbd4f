// Package data assembles the context object a template is rendered against.
//
// Command-line arguments take one of three forms:
//
//	key=value    a string, or a list of trimmed strings if value has a comma
//	key@=path    the content of a file
//	key@-        the content of standard input (at most once)
//
// File and stdin content has any UTF-8 byte order mark removed and CRLF line
// endings converted to LF. Content is then decoded by file extension: YAML
// for .yaml and .yml, TOML for .toml, and JSON otherwise. Content that does
// not decode is kept as a plain string, so any text file can be bound to a
// variable.
//
// Later arguments replace earlier ones with the same key.
package data
