package wiremodel

import (
	"strings"
	"unicode"
)

// Field declares one attribute of a Schema.
type Field struct {
	// Name is the underscore-style name (e.g. "compartment_id"). Wire objects
	// may use it as an alternate spelling of WireName.
	Name string
	// WireName is the JSON key (e.g. "compartmentId"). Empty means
	// LowerCamel(Name).
	WireName string
	Type     TypeRef
	// Enum constrains string values (the leaf strings of arrays and maps
	// included).
	Enum *EnumConstraint
	Mode EnumMode
	// Default is assigned when a wire object carries neither spelling of the
	// field, and by Mapper.New. It never replaces an explicit null.
	Default    any
	HasDefault bool
}

// AltName returns the underscore-style spelling accepted as an alias, or ""
// when it coincides with the wire name.
func (f Field) AltName() string {
	if f.Name == f.WireName {
		return ""
	}
	return f.Name
}

// EffectiveMode resolves EnumInherit against the role of the owning schema.
func (f Field) EffectiveMode(r Role) EnumMode {
	if f.Mode != EnumInherit {
		return f.Mode
	}
	return r.enumMode()
}

// Schema describes one model type. Schemas are registered once and must not
// be modified afterwards.
type Schema struct {
	Name string
	Role Role
	// Extends names the base schema whose fields are inherited (placed ahead
	// of the schema's own fields).
	Extends string
	// Tag is the discriminator value selecting this schema under its base.
	// Seal fills it from the base's Subtypes when left empty.
	Tag string
	// Discriminator is the wire name of the field whose value selects a
	// subtype among Subtypes (discriminator value -> schema name).
	Discriminator string
	Subtypes      map[string]string
	Fields        []Field

	parent *Schema
	byName map[string]int
	byKey  map[string]int // wire names and alternate names
}

// Field returns the field called name (underscore-style) or with that wire name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.fieldIndex(name)
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

func (s *Schema) fieldIndex(name string) (int, bool) {
	if i, ok := s.byName[name]; ok {
		return i, true
	}
	i, ok := s.byKey[name]
	return i, ok
}

// IsPolymorphic reports whether decoding this schema consults a discriminator.
func (s *Schema) IsPolymorphic() bool { return s.Discriminator != "" && len(s.Subtypes) > 0 }

// Base returns the schema this one extends, or nil.
func (s *Schema) Base() *Schema { return s.parent }

// IsA reports whether s is name or extends it, directly or transitively.
func (s *Schema) IsA(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.Name == name {
			return true
		}
	}
	return false
}

// LowerCamel converts an underscore-style name to its wire spelling:
// "compartment_id" -> "compartmentId", "is_ipv6_enabled" -> "isIpv6Enabled".
func LowerCamel(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	b.Grow(len(name))
	first := true
	for _, p := range parts {
		if p == "" {
			continue
		}
		if first {
			b.WriteString(p)
			first = false
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}
