package wiremodel

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/reoring/wiremodel/codec"
)

// Instance is a model object: one slot per declared field plus its Presence.
// A field whose Presence is zero is unset and never serialized; a set field
// holding nil is an explicit null.
type Instance struct {
	schema   *Schema
	values   []any
	presence []Presence
	extra    map[string]any
	diag     Diagnostics
	enumMode EnumMode // mapper-wide override, EnumInherit when none
}

func newInstance(s *Schema, d Diagnostics, mode EnumMode) *Instance {
	return &Instance{
		schema:   s,
		values:   make([]any, len(s.Fields)),
		presence: make([]Presence, len(s.Fields)),
		diag:     d,
		enumMode: mode,
	}
}

// Schema returns the concrete schema of the instance.
func (x *Instance) Schema() *Schema { return x.schema }

// TypeName returns the concrete type name.
func (x *Instance) TypeName() string { return x.schema.Name }

func (x *Instance) slot(name string) (int, error) {
	i, ok := x.schema.fieldIndex(name)
	if !ok {
		return 0, &UnknownFieldError{Schema: x.schema.Name, Field: name}
	}
	return i, nil
}

// Set assigns v to the named field (underscore name or wire name) and marks it
// set. nil assigns an explicit null. The value is normalized to the field type
// and enum fields are guarded: a strict field rejects out-of-set values, a
// lenient one stores the sentinel.
func (x *Instance) Set(name string, v any) error {
	i, err := x.slot(name)
	if err != nil {
		return err
	}
	f := x.schema.Fields[i]
	path := joinPointer("", f.WireName)
	nv, err := normalizeValue(f.Type, v, path)
	if err != nil {
		return err
	}
	if f.Enum != nil && nv != nil {
		at := guardSite{schema: x.schema.Name, field: f.Name, path: path}
		if nv, err = guardLeaves(f.Type, nv, f.Enum, resolveEnumMode(x.enumMode, x.schema, f), at, x.diag); err != nil {
			return err
		}
	}
	x.values[i] = nv
	x.presence[i] = PresenceSeen
	if nv == nil {
		x.presence[i] |= PresenceWasNull
	}
	return nil
}

// MustSet is Set for values known to be valid.
func (x *Instance) MustSet(name string, v any) *Instance {
	if err := x.Set(name, v); err != nil {
		panic(err)
	}
	return x
}

// Get returns the value of the named field and whether it is set. An unset
// field and an explicit null both return nil; the boolean tells them apart.
func (x *Instance) Get(name string) (any, bool) {
	i, ok := x.schema.fieldIndex(name)
	if !ok || x.presence[i] == 0 {
		return nil, false
	}
	return x.values[i], true
}

// IsSet reports whether the named field is set (possibly to null).
func (x *Instance) IsSet(name string) bool {
	_, set := x.Get(name)
	return set
}

// IsNull reports whether the named field is set to an explicit null.
func (x *Instance) IsNull(name string) bool {
	v, set := x.Get(name)
	return set && v == nil
}

// Unset clears the named field back to the never-assigned state.
func (x *Instance) Unset(name string) error {
	i, err := x.slot(name)
	if err != nil {
		return err
	}
	x.values[i] = nil
	x.presence[i] = 0
	return nil
}

// Presence returns the flags of the named field (zero for unknown names).
func (x *Instance) Presence(name string) Presence {
	i, ok := x.schema.fieldIndex(name)
	if !ok {
		return 0
	}
	return x.presence[i]
}

// Extra returns a copy of the unknown wire keys retained under
// UnknownPassthrough.
func (x *Instance) Extra() map[string]any { return maps.Clone(x.extra) }

// Range calls fn for every set field in declaration order until fn returns false.
func (x *Instance) Range(fn func(f Field, v any) bool) {
	for i, f := range x.schema.Fields {
		if x.presence[i] == 0 {
			continue
		}
		if !fn(f, x.values[i]) {
			return
		}
	}
}

// Equal reports field-wise equality: same concrete type, same set-ness per
// field and equal values. Presence provenance (default or assigned) and
// passthrough keys are not compared.
func (x *Instance) Equal(o *Instance) bool {
	if x == nil || o == nil {
		return x == o
	}
	if x.schema != o.schema {
		return false
	}
	for i := range x.values {
		set := x.presence[i] != 0
		if set != (o.presence[i] != 0) {
			return false
		}
		if set && !valuesEqual(x.values[i], o.values[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy sharing only the schema and diagnostics sink.
func (x *Instance) Clone() *Instance {
	if x == nil {
		return nil
	}
	c := &Instance{
		schema:   x.schema,
		values:   make([]any, len(x.values)),
		presence: slices.Clone(x.presence),
		diag:     x.diag,
		enumMode: x.enumMode,
	}
	for i, v := range x.values {
		c.values[i] = cloneValue(v)
	}
	if x.extra != nil {
		c.extra = cloneValue(x.extra).(map[string]any)
	}
	return c
}

// String renders the set fields for debugging, e.g.
// Subnet{displayName:"a" ipv6CidrBlock:null}.
func (x *Instance) String() string {
	if x == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(x.schema.Name)
	b.WriteByte('{')
	first := true
	x.Range(func(f Field, v any) bool {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(f.WireName)
		b.WriteByte(':')
		writeDebugValue(&b, v)
		return true
	})
	b.WriteByte('}')
	return b.String()
}

func writeDebugValue(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case string:
		fmt.Fprintf(b, "%q", t)
	case time.Time:
		b.WriteString(codec.FormatRFC3339(t))
	case *Instance:
		b.WriteString(t.String())
	case []any:
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeDebugValue(b, e)
		}
		b.WriteByte(']')
	case map[string]any:
		b.WriteString("map[")
		for i, k := range slices.Sorted(maps.Keys(t)) {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "%s:", k)
			writeDebugValue(b, t[k])
		}
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "%v", t)
	}
}
