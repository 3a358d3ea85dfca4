package wiremodel

import "fmt"

// Resolve picks the concrete schema for a wire object declared as base. The
// discriminator is read under its wire name, then its underscore spelling.
// When it is missing, not a string, or maps to no subtype, base is returned
// and an EventDiscriminatorFallback is reported. Non-polymorphic schemas are
// returned unchanged without a diagnostic.
func (m *Mapper) Resolve(base *Schema, obj map[string]any) *Schema {
	return m.resolve(base, obj, "")
}

func (m *Mapper) resolve(base *Schema, obj map[string]any, path string) *Schema {
	if !base.IsPolymorphic() {
		return base
	}
	f, _ := base.Field(base.Discriminator)
	raw, present := obj[f.WireName]
	if !present && f.AltName() != "" {
		raw, present = obj[f.AltName()]
	}
	if tag, ok := raw.(string); ok {
		if name, hit := base.Subtypes[tag]; hit {
			if s, err := m.reg.Lookup(name); err == nil {
				return s
			}
		}
	}

	var msg string
	switch {
	case !present:
		msg = fmt.Sprintf("discriminator %q missing, decoding as %s", f.WireName, base.Name)
	case raw == nil:
		msg = fmt.Sprintf("discriminator %q is null, decoding as %s", f.WireName, base.Name)
	default:
		msg = fmt.Sprintf("unrecognized discriminator %v for %q, decoding as %s", raw, f.WireName, base.Name)
	}
	m.diag.Report(Event{
		Kind:    EventDiscriminatorFallback,
		Schema:  base.Name,
		Field:   f.Name,
		Path:    joinPointer(path, f.WireName),
		Value:   raw,
		Message: msg,
	})
	return base
}
