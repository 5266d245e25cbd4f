package data

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ardnew/runtpl/tpl"
)

var bom = []byte("\ufeff")

// Normalize removes a leading UTF-8 byte order mark and converts CRLF line
// endings to LF.
func Normalize(content []byte) string {
	content = bytes.TrimPrefix(content, bom)

	return strings.ReplaceAll(string(content), "\r\n", "\n")
}

// Decode decodes content in the format implied by the extension of path.
func Decode(path, content string) (tpl.Value, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return tpl.ParseYAML([]byte(content))

	case ".toml":
		return parseTOML(content)

	default:
		return tpl.ParseJSON([]byte(content))
	}
}

// decodeOrString decodes content, keeping it as a string if it does not
// decode.
func decodeOrString(path, content string) tpl.Value {
	v, err := Decode(path, content)
	if err != nil {
		return tpl.String(content)
	}

	return v
}

// DecodeObject decodes content that must hold an object at its root.
func DecodeObject(path, content string) (*tpl.Object, error) {
	v, err := Decode(path, content)
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("path", path))
	}

	obj, ok := v.AsObject()
	if !ok {
		return nil, ErrNotObject.
			Wrapf("got " + v.Kind().String()).
			With(slog.String("path", path))
	}

	return obj, nil
}

// parseTOML decodes a TOML document, keeping keys in document order.
func parseTOML(content string) (tpl.Value, error) {
	var native map[string]any

	md, err := toml.Decode(content, &native)
	if err != nil {
		return tpl.Value{}, err
	}

	root := tpl.NewObject()

	for _, key := range md.Keys() {
		err := insertTOML(root, native, key)
		if err != nil {
			return tpl.Value{}, err
		}
	}

	return tpl.ObjectValue(root), nil
}

// insertTOML inserts the value at key into obj, creating tables along the
// way. Keys below arrays are covered by the array itself.
func insertTOML(obj *tpl.Object, table map[string]any, key toml.Key) error {
	for i, seg := range key {
		x, ok := table[seg]
		if !ok {
			return nil
		}

		sub, isTable := x.(map[string]any)
		if !isTable {
			if i < len(key)-1 || obj.Has(seg) {
				return nil
			}

			v, err := tpl.FromNative(x)
			if err != nil {
				return err
			}

			obj.Set(seg, v)

			return nil
		}

		child, _ := obj.Get(seg)

		next, ok := child.AsObject()
		if !ok {
			next = tpl.NewObject()
			obj.Set(seg, tpl.ObjectValue(next))
		}

		obj, table = next, sub
	}

	return nil
}
