package tpl

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/ardnew/runtpl/log"
)

// AST is a parsed template. It is immutable once parsed and may be rendered
// any number of times, concurrently.
type AST struct {
	Nodes    []Node
	builtins Registry   // functions available to loop sources
	logger   log.Logger // structured logger (not part of the cache key)
}

// Option configures parsing or rendering behavior.
type Option func(*AST)

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(ast *AST) {
		ast.logger = logger
	}
}

// WithBuiltins replaces the function registry consulted at render time.
func WithBuiltins(r Registry) Option {
	return func(ast *AST) {
		ast.builtins = r
	}
}

func applyDefaults(ast *AST) {
	ast.builtins = DefaultRegistry()
}

func applyOptions(ast *AST, opts ...Option) {
	for _, opt := range opts {
		opt(ast)
	}
}

// Node is an element of a template body: [*Text], [*VarRef], [*Loop] or
// [*Call].
type Node interface {
	Position() Position
	node()
}

// Expr is a loop source: [*VarRef] or [*Call].
type Expr interface {
	Node
	expr()
}

// Text is literal output.
type Text struct {
	Literal string
	Pos     Position
}

// VarRef is a dotted variable path such as project.description.
type VarRef struct {
	Path []string
	Pos  Position
}

// Loop repeats Body once per element of the list produced by Source, with
// the element bound to Item.
type Loop struct {
	Item   string
	Source Expr
	Body   []Node
	Pos    Position
}

// Call invokes a built-in function with named arguments.
type Call struct {
	Name string
	Args []Arg
	Pos  Position
}

// Arg is a named call argument: either a literal Value or, if Ref is
// non-nil, a variable reference resolved at render time.
type Arg struct {
	Name    string
	Literal Value
	Ref     *VarRef
}

func (n *Text) Position() Position   { return n.Pos }
func (n *VarRef) Position() Position { return n.Pos }
func (n *Loop) Position() Position   { return n.Pos }
func (n *Call) Position() Position   { return n.Pos }

func (*Text) node()   {}
func (*VarRef) node() {}
func (*Loop) node()   {}
func (*Call) node()   {}

func (*VarRef) expr() {}
func (*Call) expr()   {}

// String returns the dotted form of the path.
func (n *VarRef) String() string { return strings.Join(n.Path, ".") }

// String returns the call in directive syntax.
func (n *Call) String() string {
	var sb strings.Builder

	sb.WriteString(n.Name)
	sb.WriteByte('(')

	for i, arg := range n.Args {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(arg.Name)
		sb.WriteString(": ")

		if arg.Ref != nil {
			sb.WriteString(arg.Ref.String())
		} else {
			sb.WriteString(arg.Literal.Text())
		}
	}

	sb.WriteByte(')')

	return sb.String()
}

// Walk returns a depth-first iterator over every node in the AST, including
// loop sources and the references inside call arguments.
func (ast *AST) Walk() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walkNodes(ast.Nodes, yield)
	}
}

func walkNodes(nodes []Node, yield func(Node) bool) bool {
	for _, n := range nodes {
		if !yield(n) {
			return false
		}

		loop, ok := n.(*Loop)
		if !ok {
			continue
		}

		if !yield(loop.Source) {
			return false
		}

		if call, ok := loop.Source.(*Call); ok {
			for _, arg := range call.Args {
				if arg.Ref != nil && !yield(arg.Ref) {
					return false
				}
			}
		}

		if !walkNodes(loop.Body, yield) {
			return false
		}
	}

	return true
}

// Print writes an indented tree representation of the AST to w.
func (ast *AST) Print(w io.Writer) error {
	return printNodes(w, ast.Nodes, 0)
}

func printNodes(w io.Writer, nodes []Node, depth int) error {
	indent := strings.Repeat("  ", depth)

	for _, n := range nodes {
		var err error

		switch n := n.(type) {
		case *Text:
			_, err = fmt.Fprintf(w, "%sText %s\n", indent, strconv.Quote(n.Literal))

		case *VarRef:
			_, err = fmt.Fprintf(w, "%sVar %s\n", indent, n)

		case *Call:
			_, err = fmt.Fprintf(w, "%sCall %s\n", indent, n)

		case *Loop:
			_, err = fmt.Fprintf(w, "%sLoop %s in %v\n", indent, n.Item, n.Source)
			if err == nil {
				err = printNodes(w, n.Body, depth+1)
			}
		}

		if err != nil {
			return err
		}
	}

	return nil
}
