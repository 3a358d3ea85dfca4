package wiremodel

import (
	"maps"
	"slices"
)

// Decode maps a generic wire value (as produced by ReadWire or encoding/json
// with UseNumber) to an Instance of typeName. Polymorphic schemas are resolved
// through their discriminator first. Errors carry the JSON Pointer of the
// offending value and no partial Instance is returned.
func (m *Mapper) Decode(wire any, typeName string) (*Instance, error) {
	s, err := m.reg.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	return m.decodeObject(s, wire, "")
}

// Coerce converts a wire value to the canonical Go form of t:
//
//	string   -> string      integer -> int64     float -> float64
//	boolean  -> bool        datetime -> time.Time
//	array<T> -> []any       map<T>   -> map[string]any
//	object   -> *Instance   any      -> unchanged
//
// nil stays nil for every type.
func (m *Mapper) Coerce(wire any, t TypeRef) (any, error) {
	if err := checkTypeRef(t); err != nil {
		return nil, &InvalidSchemaError{Reason: err.Error()}
	}
	return m.coerce(wire, t, "", nil)
}

// leafGuard carries an enum constraint down to the string leaves of a field.
type leafGuard struct {
	enum *EnumConstraint
	mode EnumMode
	site guardSite
}

func (m *Mapper) coerce(v any, t TypeRef, path string, g *leafGuard) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t.Kind {
	case KindObject:
		s, err := m.reg.Lookup(t.Name)
		if err != nil {
			return nil, err
		}
		x, err := m.decodeObject(s, v, path)
		if err != nil {
			return nil, err
		}
		return x, nil
	case KindArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: t, Got: wireKind(v)}
		}
		out := make([]any, len(arr))
		for i, e := range arr {
			ce, err := m.coerce(e, *t.Elem, indexPointer(path, i), g)
			if err != nil {
				return nil, err
			}
			out[i] = ce
		}
		return out, nil
	case KindMap:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: t, Got: wireKind(v)}
		}
		out := make(map[string]any, len(obj))
		for _, k := range slices.Sorted(maps.Keys(obj)) {
			ce, err := m.coerce(obj[k], *t.Elem, joinPointer(path, k), g)
			if err != nil {
				return nil, err
			}
			out[k] = ce
		}
		return out, nil
	default:
		pv, err := coercePrimitive(t.Kind, v, path)
		if err != nil {
			return nil, err
		}
		if g != nil && t.Kind == KindString {
			at := g.site
			at.path = path
			return g.enum.check(at, pv, g.mode, m.diag)
		}
		return pv, nil
	}
}

func (m *Mapper) decodeObject(base *Schema, v any, path string) (*Instance, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeMismatchError{Path: path, Expected: ObjectType(base.Name), Got: wireKind(v)}
	}
	s := m.resolve(base, obj, path)
	x := newInstance(s, m.diag, m.enumMode)

	for i, f := range s.Fields {
		key := f.WireName
		wv, present := obj[key]
		if alt := f.AltName(); alt != "" {
			if av, altPresent := obj[alt]; altPresent {
				if present {
					return nil, &ConflictingAliasError{
						Path:     pointerOrRoot(path),
						Schema:   s.Name,
						Field:    f.Name,
						WireName: f.WireName,
						AltName:  alt,
					}
				}
				key, wv, present = alt, av, true
			}
		}
		if !present {
			if f.HasDefault {
				x.values[i] = cloneValue(f.Default)
				x.presence[i] = PresenceDefaultApplied
			}
			continue
		}
		x.presence[i] = PresenceSeen
		if wv == nil {
			x.presence[i] |= PresenceWasNull
			continue
		}
		var g *leafGuard
		if f.Enum != nil {
			g = &leafGuard{enum: f.Enum, mode: m.modeFor(s, f), site: guardSite{schema: s.Name, field: f.Name}}
		}
		cv, err := m.coerce(wv, f.Type, joinPointer(path, key), g)
		if err != nil {
			return nil, err
		}
		x.values[i] = cv
	}

	if m.unknown == UnknownStrip {
		return x, nil
	}
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		if _, known := s.byKey[k]; known {
			continue
		}
		if m.unknown == UnknownStrict {
			return nil, &UnknownKeyError{Path: joinPointer(path, k), Schema: s.Name, Key: k}
		}
		if x.extra == nil {
			x.extra = make(map[string]any)
		}
		x.extra[k] = cloneValue(obj[k])
	}
	return x, nil
}
