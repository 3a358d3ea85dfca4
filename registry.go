package wiremodel

import (
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/zeebo/blake3"
)

// Registry holds schemas by type name. It is populated single-threaded at
// start-up, sealed, and read-only afterwards; a sealed Registry is safe for
// concurrent readers without locking.
type Registry struct {
	schemas map[string]*Schema
	order   []string
	sealed  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register adds a copy of s. Bases must be registered before the schemas
// extending them; field type references may point anywhere and are checked
// by Seal.
func (r *Registry) Register(s *Schema) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if s == nil || !validTypeName(s.Name) {
		name := ""
		if s != nil {
			name = s.Name
		}
		return &InvalidSchemaError{Schema: name, Reason: "invalid schema name"}
	}
	if _, dup := r.schemas[s.Name]; dup {
		return &DuplicateSchemaError{Name: s.Name}
	}

	cp := &Schema{
		Name:          s.Name,
		Role:          s.Role,
		Extends:       s.Extends,
		Tag:           s.Tag,
		Discriminator: s.Discriminator,
		Subtypes:      maps.Clone(s.Subtypes),
	}
	if s.Extends != "" {
		base, ok := r.schemas[s.Extends]
		if !ok {
			return &UnknownSchemaError{Name: s.Extends, Referrer: s.Name}
		}
		cp.parent = base
		cp.Fields = slices.Clone(base.Fields)
	}
	for _, f := range s.Fields {
		if f.WireName == "" {
			f.WireName = LowerCamel(f.Name)
		}
		if i := slices.IndexFunc(cp.Fields, func(g Field) bool { return g.Name == f.Name }); i >= 0 {
			cp.Fields[i] = f
			continue
		}
		cp.Fields = append(cp.Fields, f)
	}
	if err := cp.index(); err != nil {
		return err
	}
	r.schemas[cp.Name] = cp
	r.order = append(r.order, cp.Name)
	return nil
}

// MustRegister panics on registration errors. Intended for static declarations.
func (r *Registry) MustRegister(s *Schema) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// index validates the flattened field list and builds the lookup tables.
func (s *Schema) index() error {
	s.byName = make(map[string]int, len(s.Fields))
	s.byKey = make(map[string]int, 2*len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		bad := func(reason string) error { return &InvalidSchemaError{Schema: s.Name, Field: f.Name, Reason: reason} }
		if f.Name == "" || f.WireName == "" {
			return bad("field without a name")
		}
		if _, dup := s.byName[f.Name]; dup {
			return bad("duplicate field name")
		}
		s.byName[f.Name] = i
		for _, k := range []string{f.WireName, f.AltName()} {
			if k == "" {
				continue
			}
			if j, taken := s.byKey[k]; taken && j != i {
				return bad(fmt.Sprintf("key %q also names field %q", k, s.Fields[j].Name))
			}
			s.byKey[k] = i
		}
		if err := checkTypeRef(f.Type); err != nil {
			return bad(err.Error())
		}
		if f.Enum != nil && f.Type.Leaf().Kind != KindString {
			return bad("enum constraint on a non-string type")
		}
		if f.HasDefault {
			if f.Type.Leaf().Kind == KindObject {
				return bad("defaults are limited to primitive and collection-of-primitive types")
			}
			dv, err := normalizeValue(f.Type, f.Default, "")
			if err != nil {
				return bad("default: " + err.Error())
			}
			if f.Enum != nil {
				if _, err := guardLeaves(f.Type, dv, f.Enum, EnumStrict, guardSite{schema: s.Name, field: f.Name}, nil); err != nil {
					return bad("default: " + err.Error())
				}
			}
			f.Default = dv
		}
	}
	if s.Discriminator != "" {
		i, ok := s.byKey[s.Discriminator]
		if !ok || s.Fields[i].WireName != s.Discriminator {
			return &InvalidSchemaError{Schema: s.Name, Reason: fmt.Sprintf("discriminator %q is not a declared wire name", s.Discriminator)}
		}
		if s.Fields[i].Type.Kind != KindString {
			return &InvalidSchemaError{Schema: s.Name, Field: s.Fields[i].Name, Reason: "discriminator must be a string field"}
		}
	} else if len(s.Subtypes) > 0 {
		return &InvalidSchemaError{Schema: s.Name, Reason: "subtypes declared without a discriminator"}
	}
	return nil
}

func checkTypeRef(t TypeRef) error {
	switch t.Kind {
	case KindString, KindInteger, KindBoolean, KindFloat, KindDateTime, KindAny:
		return nil
	case KindObject:
		if !validTypeName(t.Name) {
			return fmt.Errorf("invalid schema reference %q", t.Name)
		}
		return nil
	case KindArray, KindMap:
		if t.Elem == nil {
			return fmt.Errorf("%s without an element type", t.Kind)
		}
		return checkTypeRef(*t.Elem)
	default:
		return fmt.Errorf("invalid type kind %d", int(t.Kind))
	}
}

// Seal checks every cross-schema reference and makes the registry
// read-only. Sealing twice is a no-op.
func (r *Registry) Seal() error {
	if r.sealed {
		return nil
	}
	for _, name := range r.order {
		s := r.schemas[name]
		for _, f := range s.Fields {
			if leaf := f.Type.Leaf(); leaf.Kind == KindObject {
				if _, ok := r.schemas[leaf.Name]; !ok {
					return &UnknownSchemaError{Name: leaf.Name, Referrer: s.Name + "." + f.Name}
				}
			}
		}
		for _, tag := range slices.Sorted(maps.Keys(s.Subtypes)) {
			target, ok := r.schemas[s.Subtypes[tag]]
			if !ok {
				return &UnknownSchemaError{Name: s.Subtypes[tag], Referrer: s.Name + " subtype " + tag}
			}
			if target == s || !target.IsA(s.Name) {
				return &InvalidSchemaError{Schema: target.Name, Reason: fmt.Sprintf("subtype of %s must extend it", s.Name)}
			}
			if target.Tag == "" {
				target.Tag = tag
			}
		}
	}
	r.sealed = true
	return nil
}

// Sealed reports whether Seal has completed.
func (r *Registry) Sealed() bool { return r.sealed }

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, &UnknownSchemaError{Name: name}
	}
	return s, nil
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.schemas))
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int { return len(r.schemas) }

// Fingerprint digests the canonical listing of every schema with BLAKE3.
// Two registries declaring the same types, fields, constraints and subtype
// maps share a fingerprint regardless of registration order.
func (r *Registry) Fingerprint() string {
	var b strings.Builder
	for _, name := range r.Names() {
		s := r.schemas[name]
		fmt.Fprintf(&b, "schema %s role=%s extends=%s tag=%s disc=%s\n", s.Name, s.Role, s.Extends, s.Tag, s.Discriminator)
		for _, tag := range slices.Sorted(maps.Keys(s.Subtypes)) {
			fmt.Fprintf(&b, "  subtype %s=%s\n", tag, s.Subtypes[tag])
		}
		for _, f := range s.Fields {
			fmt.Fprintf(&b, "  field %s wire=%s type=%s mode=%s", f.Name, f.WireName, f.Type, f.Mode)
			if f.Enum != nil {
				fmt.Fprintf(&b, " enum=%s[%s|%s]", f.Enum.Name(), strings.Join(f.Enum.Values(), ","), f.Enum.Unknown())
			}
			if f.HasDefault {
				fmt.Fprintf(&b, " default=%v", f.Default)
			}
			b.WriteByte('\n')
		}
	}
	sum := blake3.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
