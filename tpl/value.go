package tpl

import (
	"iter"
	"math"
	"slices"
	"strconv"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"

	case KindBool:
		return "bool"

	case KindNumber:
		return "number"

	case KindString:
		return "string"

	case KindList:
		return "list"

	case KindObject:
		return "object"

	default:
		return "unknown"
	}
}

// Value is the data model shared by the renderer, the built-in functions and
// the context loaders. The zero Value is Null.
//
// Values are treated as immutable once handed to the engine; List and Object
// constructors take ownership of their arguments.
type Value struct {
	kind Kind
	b    bool
	n    float64
	i    string // exact decimal text of integers decoded from data
	s    string
	list []Value
	obj  *Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int returns a numeric value that keeps every digit of i, including
// integers beyond the 2^53 precision of float64.
func Int(i int64) Value {
	return Value{kind: KindNumber, n: float64(i), i: strconv.FormatInt(i, 10)}
}

// Uint returns a numeric value that keeps every digit of u.
func Uint(u uint64) Value {
	return Value{kind: KindNumber, n: float64(u), i: strconv.FormatUint(u, 10)}
}

// ParseNumber parses a JSON number literal. Integers in the int64 or uint64
// range are kept exact; anything else is stored as float64.
func ParseNumber(text string) (Value, error) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Int(i), nil
	}

	if u, err := strconv.ParseUint(text, 10, 64); err == nil {
		return Uint(u), nil
	}

	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, err
	}

	return Number(n), nil
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list value holding items in order.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}

	return Value{kind: KindList, list: items}
}

// Strings returns a list value of strings.
func Strings(items ...string) Value {
	list := make([]Value, len(items))
	for i, s := range items {
		list[i] = String(s)
	}

	return List(list...)
}

// ObjectValue wraps o as a value. A nil o yields an empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}

	return Value{kind: KindObject, obj: o}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number held by v. Integers outside the float64
// precision are rounded; [Value.Text] keeps their exact digits.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsList returns the items held by v. The slice must not be modified.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsObject returns the object held by v.
func (v Value) AsObject() (*Object, bool) { return v.obj, v.kind == KindObject }

// Text returns the substitution text of v: strings verbatim, numbers and
// booleans in canonical form, null as the empty string, and lists and
// objects as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""

	case KindBool:
		return strconv.FormatBool(v.b)

	case KindNumber:
		return v.numberText()

	case KindString:
		return v.s

	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}

		return string(b)
	}
}

// Equal reports whether v and w hold the same data. Object key order is
// significant.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true

	case KindBool:
		return v.b == w.b

	case KindNumber:
		if v.i != "" || w.i != "" {
			return v.numberText() == w.numberText()
		}

		return v.n == w.n

	case KindString:
		return v.s == w.s

	case KindList:
		return slices.EqualFunc(v.list, w.list, Value.Equal)

	case KindObject:
		return v.obj.Equal(w.obj)
	}

	return false
}

func (v Value) numberText() string {
	if v.i != "" {
		return v.i
	}

	return formatNumber(v.n)
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	return strconv.FormatFloat(n, 'g', -1, 64)
}

// Object is an insertion-ordered mapping from string keys to values.
// Keys are unique; setting an existing key replaces its value in place.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: map[string]Value{}}
}

// Len returns the number of keys in o.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.keys)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}

	v, ok := o.vals[key]

	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)

	return ok
}

// Set stores v under key and returns o.
func (o *Object) Set(key string, v Value) *Object {
	if o.vals == nil {
		o.vals = map[string]Value{}
	}

	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.vals[key] = v

	return o
}

// Delete removes key from o.
func (o *Object) Delete(key string) {
	if _, ok := o.vals[key]; !ok {
		return
	}

	delete(o.vals, key)

	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// Keys returns the keys of o in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}

	return slices.Clone(o.keys)
}

// All returns an iterator over the key/value pairs of o in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}

		for _, k := range o.keys {
			if !yield(k, o.vals[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of o.
func (o *Object) Clone() *Object {
	c := NewObject()
	for k, v := range o.All() {
		c.Set(k, v)
	}

	return c
}

// Equal reports whether o and p hold the same keys in the same order with
// equal values.
func (o *Object) Equal(p *Object) bool {
	if o.Len() != p.Len() {
		return false
	}

	for i, k := range o.Keys() {
		if p.keys[i] != k {
			return false
		}

		if !o.vals[k].Equal(p.vals[k]) {
			return false
		}
	}

	return true
}
