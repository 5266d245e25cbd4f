// Package tpl parses and renders runtpl templates.
//
// A template is literal text interleaved with directives enclosed in double
// braces. There are no expressions, conditionals or user-defined functions:
// a directive either substitutes a variable or opens and closes a loop.
//
// # Syntax
//
//	{{ project.title }}                    variable substitution
//	{{foreach item in items}} ... {{endfor}}
//	{{foreach f in files(source: "src", recursive: false)}}
//
// Informal EBNF of a directive:
//
//	Directive → Path | 'foreach' Ident 'in' Source | 'endfor'
//	Source    → Path | Ident '(' (Arg (',' Arg)*)? ')'
//	Arg       → Ident ':' (String | '[' (String (',' String)*)? ']' | Bool | Path)
//	Path      → Segment ('.' Segment)*
//
// Argument paths share the directive path grammar, except that the first
// segment must be an identifier. Strings are double-quoted.
//
// A foreach or endfor directive that stands alone on its line removes the
// whole line from the output, including its indentation and line
// terminator.
//
// # Rendering
//
// Variables resolve against a stack of scopes: the data object supplied to
// [Render] at the bottom and one frame per enclosing loop iteration on top.
// The innermost frame containing the first path segment wins; remaining
// segments select keys of nested objects. Strings substitute verbatim,
// numbers and booleans in canonical form, null as nothing, and lists and
// objects as compact JSON.
//
// An unresolved variable is an error ([ErrUnresolved]), as is selecting a
// key from a value that is not an object ([ErrPath]) or looping over a value
// that is not a list ([ErrType]). Rendering is all-or-nothing.
//
// # Built-in functions
//
// Functions are only valid as loop sources. The default registry holds
// [Files], which lists files with their contents.
//
// # Scaffolds
//
// [ExtractVariables] walks a template and returns the skeleton of the data
// it needs, suitable for filling in by hand.
package tpl
