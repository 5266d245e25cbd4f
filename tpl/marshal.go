package tpl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"reflect"
	"slices"
	"sort"
	"strconv"

	"github.com/goccy/go-yaml"
)

// MarshalJSON implements json.Marshaler. Object keys are written in
// insertion order and HTML characters are not escaped.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	err := v.writeJSON(&buf)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) {
	return ObjectValue(o).MarshalJSON()
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")

	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))

	case KindNumber:
		buf.WriteString(v.numberText())

	case KindString:
		return writeJSONString(buf, v.s)

	case KindList:
		buf.WriteByte('[')

		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}

			err := item.writeJSON(buf)
			if err != nil {
				return err
			}
		}

		buf.WriteByte(']')

	case KindObject:
		buf.WriteByte('{')

		i := 0
		for k, item := range v.obj.All() {
			if i > 0 {
				buf.WriteByte(',')
			}

			i++

			err := writeJSONString(buf, k)
			if err != nil {
				return err
			}

			buf.WriteByte(':')

			err = item.writeJSON(buf)
			if err != nil {
				return err
			}
		}

		buf.WriteByte('}')
	}

	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(s)
	if err != nil {
		return err
	}

	// Encode always terminates with a newline.
	buf.Truncate(buf.Len() - 1)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	val, err := decodeJSON(dec)
	if err != nil {
		return err
	}

	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("invalid JSON: trailing data after value")
	}

	*v = val

	return nil
}

// UnmarshalJSON implements json.Unmarshaler. The document must be a JSON
// object.
func (o *Object) UnmarshalJSON(data []byte) error {
	var v Value

	err := v.UnmarshalJSON(data)
	if err != nil {
		return err
	}

	obj, ok := v.AsObject()
	if !ok {
		return ErrType.Wrapf("expected JSON object, got " + v.Kind().String())
	}

	*o = *obj

	return nil
}

// ParseJSON decodes a single JSON document.
func ParseJSON(data []byte) (Value, error) {
	var v Value

	err := v.UnmarshalJSON(data)

	return v, err
}

func decodeJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil

	case bool:
		return Bool(t), nil

	case json.Number:
		return ParseNumber(t.String())

	case string:
		return String(t), nil

	case json.Delim:
		switch t {
		case '[':
			items := []Value{}

			for dec.More() {
				item, err := decodeJSON(dec)
				if err != nil {
					return Value{}, err
				}

				items = append(items, item)
			}

			if _, err := dec.Token(); err != nil { // ']'
				return Value{}, err
			}

			return List(items...), nil

		case '{':
			obj := NewObject()

			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}

				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("invalid JSON object key %v", keyTok)
				}

				item, err := decodeJSON(dec)
				if err != nil {
					return Value{}, err
				}

				obj.Set(key, item)
			}

			if _, err := dec.Token(); err != nil { // '}'
				return Value{}, err
			}

			return ObjectValue(obj), nil
		}
	}

	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// MarshalYAML implements the goccy/go-yaml InterfaceMarshaler, preserving
// object key order.
func (v Value) MarshalYAML() (any, error) {
	return v.ToNative(true), nil
}

// MarshalYAML implements the goccy/go-yaml InterfaceMarshaler.
func (o *Object) MarshalYAML() (any, error) {
	return ObjectValue(o).MarshalYAML()
}

// ToNative converts v to plain Go values: nil, bool, float64, string, []any
// and map[string]any. If ordered is true, objects become [yaml.MapSlice] so
// that encoders keep insertion order.
func (v Value) ToNative(ordered bool) any {
	switch v.kind {
	case KindBool:
		return v.b

	case KindNumber:
		if i, err := strconv.ParseInt(v.i, 10, 64); err == nil {
			return i
		}

		if u, err := strconv.ParseUint(v.i, 10, 64); err == nil {
			return u
		}

		if v.n == math.Trunc(v.n) && math.Abs(v.n) < 1<<63 {
			return int64(v.n)
		}

		return v.n

	case KindString:
		return v.s

	case KindList:
		items := make([]any, len(v.list))
		for i, item := range v.list {
			items[i] = item.ToNative(ordered)
		}

		return items

	case KindObject:
		if ordered {
			ms := make(yaml.MapSlice, 0, v.obj.Len())
			for k, item := range v.obj.All() {
				ms = append(ms, yaml.MapItem{Key: k, Value: item.ToNative(ordered)})
			}

			return ms
		}

		m := make(map[string]any, v.obj.Len())
		for k, item := range v.obj.All() {
			m[k] = item.ToNative(ordered)
		}

		return m
	}

	return nil
}

// ParseYAML decodes a single YAML document, preserving mapping key order.
func ParseYAML(data []byte) (Value, error) {
	var native any

	err := yaml.UnmarshalWithOptions(data, &native, yaml.UseOrderedMap())
	if err != nil {
		return Value{}, err
	}

	return FromNative(native)
}

// FromNative converts plain Go data (as produced by encoding/json,
// goccy/go-yaml or BurntSushi/toml decoders) into a Value.
// Maps with string keys are sorted by key; [yaml.MapSlice] keeps its order.
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil

	case Value:
		return t, nil

	case *Object:
		return ObjectValue(t), nil

	case bool:
		return Bool(t), nil

	case string:
		return String(t), nil

	case json.Number:
		v, err := ParseNumber(t.String())
		if err != nil {
			return Value{}, ErrType.Wrap(err)
		}

		return v, nil

	case []any:
		items := make([]Value, len(t))

		for i, item := range t {
			v, err := FromNative(item)
			if err != nil {
				return Value{}, err
			}

			items[i] = v
		}

		return List(items...), nil

	case []string:
		return Strings(t...), nil

	case yaml.MapSlice:
		obj := NewObject()

		for _, item := range t {
			v, err := FromNative(item.Value)
			if err != nil {
				return Value{}, err
			}

			obj.Set(fmt.Sprint(item.Key), v)
		}

		return ObjectValue(obj), nil

	case map[string]any:
		obj := NewObject()

		for _, k := range slices.Sorted(maps.Keys(t)) {
			v, err := FromNative(t[k])
			if err != nil {
				return Value{}, err
			}

			obj.Set(k, v)
		}

		return ObjectValue(obj), nil
	}

	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil

	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())

		for i := range rv.Len() {
			v, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}

			items[i] = v
		}

		return List(items...), nil

	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())

		for _, k := range rv.MapKeys() {
			s := fmt.Sprint(k.Interface())
			keys = append(keys, s)
			byKey[s] = rv.MapIndex(k)
		}

		sort.Strings(keys)

		obj := NewObject()

		for _, k := range keys {
			v, err := FromNative(byKey[k].Interface())
			if err != nil {
				return Value{}, err
			}

			obj.Set(k, v)
		}

		return ObjectValue(obj), nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}

		return FromNative(rv.Elem().Interface())

	case reflect.Struct:
		if s, ok := rv.Interface().(fmt.Stringer); ok {
			return String(s.String()), nil
		}
	}

	return Value{}, ErrType.
		Wrapf("unsupported data type").
		With(slog.String("type", typeName(rv)))
}

func typeName(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}

	return rv.Type().String()
}
