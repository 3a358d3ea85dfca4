package wiremodel

import (
	"maps"
	"slices"

	js "github.com/reoring/wiremodel/jsonschema"
)

// JSONSchema projects the schema registered as name, and every schema it
// reaches through fields or subtypes, into one JSON Schema document. Named
// types live under $defs and are referenced with $ref, so recursive types are
// expressed without expansion. Polymorphic bases list their subtypes in oneOf
// with a discriminator annotation.
func JSONSchema(reg *Registry, name string) (*js.Schema, error) {
	if _, err := reg.Lookup(name); err != nil {
		return nil, err
	}
	defs := make(map[string]*js.Schema)
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, done := defs[cur]; done {
			continue
		}
		s, err := reg.Lookup(cur)
		if err != nil {
			return nil, err
		}
		def, refs, err := objectSchema(s)
		if err != nil {
			return nil, err
		}
		defs[cur] = def
		queue = append(queue, refs...)
	}
	return &js.Schema{Dialect: js.Draft, Ref: js.DefRef(name), Defs: defs}, nil
}

func objectSchema(s *Schema) (*js.Schema, []string, error) {
	out := &js.Schema{
		Title:                s.Name,
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(s.Fields)),
		AdditionalProperties: true,
	}
	var refs []string
	var exporter Mapper
	for _, f := range s.Fields {
		var allowed []string
		if f.Enum != nil {
			allowed = f.Enum.Values()
			if f.EffectiveMode(s.Role) != EnumStrict {
				allowed = append(allowed, f.Enum.Unknown())
			}
		}
		p := typeSchema(f.Type, allowed)
		if f.HasDefault {
			dv, err := exporter.serialize(f.Default, f.Type, "", false)
			if err != nil {
				return nil, nil, err
			}
			p.Default = dv
		}
		if s.Tag != "" && s.parent != nil && f.WireName == s.parent.Discriminator {
			p.Const = s.Tag
		}
		out.Properties[f.WireName] = p
		if leaf := f.Type.Leaf(); leaf.Kind == KindObject {
			refs = append(refs, leaf.Name)
		}
	}
	if s.IsPolymorphic() {
		out.Discriminator = &js.Discriminator{PropertyName: s.Discriminator, Mapping: make(map[string]string, len(s.Subtypes))}
		for _, tag := range slices.Sorted(maps.Keys(s.Subtypes)) {
			target := s.Subtypes[tag]
			out.Discriminator.Mapping[tag] = js.DefRef(target)
			out.OneOf = append(out.OneOf, &js.Schema{Ref: js.DefRef(target)})
			refs = append(refs, target)
		}
	}
	return out, refs, nil
}

// typeSchema maps a type expression; allowed lists the enum values of string
// leaves (lenient fields include the sentinel they may hold).
func typeSchema(t TypeRef, allowed []string) *js.Schema {
	switch t.Kind {
	case KindString:
		return &js.Schema{Type: "string", Enum: allowed}
	case KindInteger:
		return &js.Schema{Type: "integer", Format: "int64"}
	case KindFloat:
		return &js.Schema{Type: "number", Format: "double"}
	case KindBoolean:
		return &js.Schema{Type: "boolean"}
	case KindDateTime:
		return &js.Schema{Type: "string", Format: "date-time"}
	case KindObject:
		return &js.Schema{Ref: js.DefRef(t.Name)}
	case KindArray:
		return &js.Schema{Type: "array", Items: typeSchema(*t.Elem, allowed)}
	case KindMap:
		return &js.Schema{Type: "object", AdditionalProperties: typeSchema(*t.Elem, allowed)}
	default:
		return &js.Schema{}
	}
}
