package wiremodel

import (
	"bytes"
	"maps"
	"slices"
	"time"

	json "github.com/goccy/go-json"

	"github.com/reoring/wiremodel/codec"
)

// Serialize converts an Instance to its wire form: set fields only, in
// declaration order, under their wire names. Explicit nulls are emitted as nil
// and keys retained under UnknownPassthrough are re-emitted unless a declared
// field already uses them.
func (m *Mapper) Serialize(x *Instance) (map[string]any, error) {
	if x == nil {
		return nil, &TypeMismatchError{Expected: AnyType, Got: "null"}
	}
	v, err := m.serializeObject(x, "", false)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// SerializeValue converts a canonical value of type t to its wire form.
func (m *Mapper) SerializeValue(v any, t TypeRef) (any, error) {
	return m.serialize(v, t, "", false)
}

// Marshal encodes an Instance as JSON with keys in declaration order.
func (m *Mapper) Marshal(x *Instance) ([]byte, error) {
	if x == nil {
		return []byte("null"), nil
	}
	v, err := m.serializeObject(x, "", true)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// MarshalIndent is Marshal with indentation.
func (m *Mapper) MarshalIndent(x *Instance, prefix, indent string) ([]byte, error) {
	b, err := m.Marshal(x)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ordered selects orderedObject instead of map[string]any for objects.
func (m *Mapper) serialize(v any, t TypeRef, path string, ordered bool) (any, error) {
	if v == nil {
		return nil, nil
	}
	mismatch := func() error { return &TypeMismatchError{Path: path, Expected: t, Got: describe(v)} }
	switch t.Kind {
	case KindObject:
		x, ok := v.(*Instance)
		if !ok || x == nil || !x.schema.IsA(t.Name) {
			return nil, mismatch()
		}
		return m.serializeObject(x, path, ordered)
	case KindArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, mismatch()
		}
		out := make([]any, 0, len(arr))
		for i, e := range arr {
			if e == nil {
				continue
			}
			se, err := m.serialize(e, *t.Elem, indexPointer(path, i), ordered)
			if err != nil {
				return nil, err
			}
			out = append(out, se)
		}
		return out, nil
	case KindMap:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, mismatch()
		}
		out := make(map[string]any, len(obj))
		for k, e := range obj {
			se, err := m.serialize(e, *t.Elem, joinPointer(path, k), ordered)
			if err != nil {
				return nil, err
			}
			out[k] = se
		}
		return out, nil
	case KindDateTime:
		ts, ok := v.(time.Time)
		if !ok {
			return nil, mismatch()
		}
		return codec.FormatRFC3339(ts), nil
	case KindAny:
		return v, nil
	default:
		pv, err := coercePrimitive(t.Kind, v, path)
		if err != nil {
			return nil, err
		}
		return pv, nil
	}
}

func (m *Mapper) serializeObject(x *Instance, path string, ordered bool) (any, error) {
	var (
		flat map[string]any
		seq  orderedObject
	)
	if !ordered {
		flat = make(map[string]any, len(x.values)+len(x.extra))
	}
	put := func(k string, v any) {
		if ordered {
			seq = append(seq, member{key: k, value: v})
		} else {
			flat[k] = v
		}
	}

	emitted := make(map[string]struct{}, len(x.values))
	for i, f := range x.schema.Fields {
		if x.presence[i] == 0 {
			continue
		}
		sv, err := m.serialize(x.values[i], f.Type, joinPointer(path, f.WireName), ordered)
		if err != nil {
			return nil, err
		}
		put(f.WireName, sv)
		emitted[f.WireName] = struct{}{}
	}
	for _, k := range slices.Sorted(maps.Keys(x.extra)) {
		if _, taken := emitted[k]; taken {
			continue
		}
		if _, declared := x.schema.byKey[k]; declared {
			continue
		}
		put(k, cloneValue(x.extra[k]))
	}
	if ordered {
		if seq == nil {
			seq = orderedObject{}
		}
		return seq, nil
	}
	return flat, nil
}

type member struct {
	key   string
	value any
}

// orderedObject is a JSON object that keeps its member order when encoded.
type orderedObject []member

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, mb := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(mb.key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(mb.value)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
