package tpl

// ExtractVariables returns a scaffold of the data a template expects: an
// object holding every free variable path of ast, with placeholder leaves.
//
// A path is free if its first segment is not bound by an enclosing loop.
// Dotted paths merge into nested objects with "" leaves. A free loop source
// becomes a list: [] if the loop item is only used as a whole, or a
// one-element list holding the skeleton of the item's referenced fields.
// When a path is used in several ways, an object placeholder wins over a
// list, and a list over a string.
func ExtractVariables(ast *AST) *Object {
	root := &shape{kind: shapeObject}

	x := &extractor{root: root}
	x.nodes(ast.Nodes, nil)

	obj, _ := root.value().AsObject()

	return obj
}

type shapeKind uint8

const (
	shapeString shapeKind = iota
	shapeList
	shapeObject
)

// shape is the inferred structure of one value in the scaffold.
type shape struct {
	kind   shapeKind
	keys   []string          // field order (objects)
	fields map[string]*shape // fields (objects)
	elem   *shape            // element shape (lists)
}

// object converts s to an object shape, keeping any existing fields.
func (s *shape) object() *shape {
	if s.kind != shapeObject {
		s.kind = shapeObject
		s.elem = nil
	}

	if s.fields == nil {
		s.fields = map[string]*shape{}
	}

	return s
}

// list converts s to a list shape unless it is already an object, and
// returns the element shape. It returns nil if s is an object.
func (s *shape) list() *shape {
	switch s.kind {
	case shapeObject:
		return nil

	case shapeString:
		s.kind = shapeList
	}

	if s.elem == nil {
		s.elem = &shape{}
	}

	return s.elem
}

// field returns the named field of object shape s, adding a string leaf if
// absent.
func (s *shape) field(name string) *shape {
	s.object()

	f, ok := s.fields[name]
	if !ok {
		f = &shape{}
		s.fields[name] = f
		s.keys = append(s.keys, name)
	}

	return f
}

func (s *shape) value() Value {
	switch s.kind {
	case shapeObject:
		obj := NewObject()
		for _, k := range s.keys {
			obj.Set(k, s.fields[k].value())
		}

		return ObjectValue(obj)

	case shapeList:
		if s.elem != nil && s.elem.kind != shapeString {
			return List(s.elem.value())
		}

		return List()
	}

	return String("")
}

// binding associates a loop item name with the shape of the elements it
// ranges over. A nil shape means the item is bound to data the scaffold
// does not describe, such as a function result.
type binding struct {
	name  string
	shape *shape
}

type extractor struct {
	root *shape
}

func (x *extractor) nodes(nodes []Node, bound []binding) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *VarRef:
			x.leaf(n.Path, bound)

		case *Call:
			x.call(n, bound)

		case *Loop:
			var elem *shape

			switch src := n.Source.(type) {
			case *VarRef:
				elem = x.list(src.Path, bound)

			case *Call:
				x.call(src, bound)
			}

			inner := append(bound[:len(bound):len(bound)],
				binding{name: n.Item, shape: elem})

			x.nodes(n.Body, inner)
		}
	}
}

func (x *extractor) call(n *Call, bound []binding) {
	for _, arg := range n.Args {
		if arg.Ref != nil {
			x.leaf(arg.Ref.Path, bound)
		}
	}
}

// target returns the shape that path selects, creating object fields on the
// way, or nil if path is rooted at an untracked loop item.
func (x *extractor) target(path []string, bound []binding) *shape {
	node := x.root

	for i := len(bound) - 1; i >= 0; i-- {
		if bound[i].name == path[0] {
			node = bound[i].shape
			path = path[1:]

			break
		}
	}

	if node == nil {
		return nil
	}

	for _, seg := range path {
		node = node.field(seg)
	}

	return node
}

func (x *extractor) leaf(path []string, bound []binding) {
	x.target(path, bound)
}

// list records path as a loop source and returns its element shape.
func (x *extractor) list(path []string, bound []binding) *shape {
	node := x.target(path, bound)
	if node == nil {
		return nil
	}

	return node.list()
}
