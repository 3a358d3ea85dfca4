package wiremodel

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"time"

	"github.com/reoring/wiremodel/codec"
)

// wireKind names the JSON kind of v for error messages.
func wireKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case map[string]any, *Instance:
		return "object"
	case []any:
		return "array"
	case time.Time:
		return "datetime"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// coercePrimitive converts a non-nil wire value to the canonical Go value of
// a primitive kind.
func coercePrimitive(k Kind, v any, path string) (any, error) {
	switch k {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindInteger:
		if n, ok := toInt64(v); ok {
			return n, nil
		}
	case KindFloat:
		if f, ok := toFloat64(v); ok {
			return f, nil
		}
	case KindBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindDateTime:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			ts, err := codec.ParseRFC3339(t)
			if err != nil {
				return nil, &MalformedTimestampError{Path: path, Text: t, Err: err}
			}
			return ts, nil
		}
	case KindAny:
		return v, nil
	}
	return nil, &TypeMismatchError{Path: path, Expected: TypeRef{Kind: k}, Got: wireKind(v)}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint64:
		return int64(n), n <= math.MaxInt64
	case uint32:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint8:
		return int64(n), true
	case float64:
		return floatToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt64(f)
		}
	}
	return 0, false
}

func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

// normalizeValue converts an application-supplied value to the canonical
// in-memory form of t. Unlike wire coercion it accepts *Instance for object
// types, time.Time for date-times and a few typed Go collections.
func normalizeValue(t TypeRef, v any, path string) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t.Kind {
	case KindObject:
		x, ok := v.(*Instance)
		if !ok || x == nil || !x.schema.IsA(t.Name) {
			return nil, &TypeMismatchError{Path: path, Expected: t, Got: describe(v)}
		}
		return x, nil
	case KindArray:
		elems, ok := asAnySlice(v)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: t, Got: wireKind(v)}
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			ne, err := normalizeValue(*t.Elem, e, indexPointer(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	case KindMap:
		entries, ok := asAnyMap(v)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: t, Got: wireKind(v)}
		}
		out := make(map[string]any, len(entries))
		for _, k := range slices.Sorted(maps.Keys(entries)) {
			ne, err := normalizeValue(*t.Elem, entries[k], joinPointer(path, k))
			if err != nil {
				return nil, err
			}
			out[k] = ne
		}
		return out, nil
	default:
		return coercePrimitive(t.Kind, v, path)
	}
}

func describe(v any) string {
	if x, ok := v.(*Instance); ok && x != nil {
		return x.TypeName()
	}
	return wireKind(v)
}

func asAnySlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		return toAny(s), true
	case []*Instance:
		return toAny(s), true
	case []int64:
		return toAny(s), true
	case []int:
		return toAny(s), true
	case []float64:
		return toAny(s), true
	case []bool:
		return toAny(s), true
	case []time.Time:
		return toAny(s), true
	}
	return nil, false
}

func toAny[E any](s []E) []any {
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = e
	}
	return out
}

func asAnyMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = e
		}
		return out, true
	}
	return nil, false
}

// guardLeaves applies an enum constraint to every string leaf of a
// normalized value.
func guardLeaves(t TypeRef, v any, c *EnumConstraint, mode EnumMode, at guardSite, d Diagnostics) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t.Kind {
	case KindArray:
		in := v.([]any)
		out := make([]any, len(in))
		for i, e := range in {
			site := at
			site.path = indexPointer(at.path, i)
			ge, err := guardLeaves(*t.Elem, e, c, mode, site, d)
			if err != nil {
				return nil, err
			}
			out[i] = ge
		}
		return out, nil
	case KindMap:
		in := v.(map[string]any)
		out := make(map[string]any, len(in))
		for _, k := range slices.Sorted(maps.Keys(in)) {
			site := at
			site.path = joinPointer(at.path, k)
			ge, err := guardLeaves(*t.Elem, in[k], c, mode, site, d)
			if err != nil {
				return nil, err
			}
			out[k] = ge
		}
		return out, nil
	case KindString:
		return c.check(at, v, mode, d)
	default:
		return v, nil
	}
}

// cloneValue deep-copies the mutable containers of a canonical value.
func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case *Instance:
		return t.Clone()
	default:
		return v
	}
}

// valuesEqual compares canonical values field-wise; instances recurse
// through Instance.Equal and times compare by instant.
func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case string, bool, int64, float64:
		return a == b
	case json.Number:
		bv, ok := b.(json.Number)
		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, e := range av {
			f, present := bv[k]
			if !present || !valuesEqual(e, f) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}
