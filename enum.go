package wiremodel

import (
	"fmt"
	"slices"
)

// DefaultUnknown is the conventional sentinel of generated SDK enums.
const DefaultUnknown = "UNKNOWN_ENUM_VALUE"

// EnumConstraint is a named set of allowed string values plus the sentinel
// substituted for out-of-set values in lenient mode. It is immutable.
type EnumConstraint struct {
	name    string
	values  []string
	set     map[string]struct{}
	unknown string
}

// NewEnumConstraint builds a constraint. An empty unknown selects
// DefaultUnknown. The allowed set must be non-empty and must not contain the
// sentinel.
func NewEnumConstraint(name, unknown string, values ...string) (*EnumConstraint, error) {
	if unknown == "" {
		unknown = DefaultUnknown
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("wiremodel: enum %q: no allowed values", name)
	}
	c := &EnumConstraint{
		name:    name,
		values:  make([]string, 0, len(values)),
		set:     make(map[string]struct{}, len(values)),
		unknown: unknown,
	}
	for _, v := range values {
		if v == unknown {
			return nil, fmt.Errorf("wiremodel: enum %q: sentinel %q listed as an allowed value", name, unknown)
		}
		if _, dup := c.set[v]; dup {
			continue
		}
		c.set[v] = struct{}{}
		c.values = append(c.values, v)
	}
	return c, nil
}

// MustEnum is NewEnumConstraint for static declarations.
func MustEnum(name, unknown string, values ...string) *EnumConstraint {
	c, err := NewEnumConstraint(name, unknown, values...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *EnumConstraint) Name() string     { return c.name }
func (c *EnumConstraint) Unknown() string  { return c.unknown }
func (c *EnumConstraint) Values() []string { return slices.Clone(c.values) }

// Contains reports whether v is an allowed value. The sentinel is not.
func (c *EnumConstraint) Contains(v string) bool {
	_, ok := c.set[v]
	return ok
}

// Check validates v against the constraint. nil passes through in both
// modes. Under EnumStrict an out-of-set string fails with
// InvalidEnumValueError; under EnumLenient (and EnumInherit) it is replaced by
// the sentinel and one diagnostic is reported to d.
func (c *EnumConstraint) Check(field string, v any, mode EnumMode, d Diagnostics) (any, error) {
	return c.check(guardSite{field: field}, v, mode, d)
}

// guardSite locates a guarded value for errors and diagnostics.
type guardSite struct {
	schema string
	field  string
	path   string
}

func (c *EnumConstraint) check(at guardSite, v any, mode EnumMode, d Diagnostics) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &TypeMismatchError{Path: at.path, Expected: StringType, Got: wireKind(v)}
	}
	if c.Contains(s) {
		return s, nil
	}
	if mode == EnumStrict {
		return nil, &InvalidEnumValueError{Path: at.path, Schema: at.schema, Field: at.field, Value: s, Allowed: c.Values()}
	}
	if d != nil {
		d.Report(Event{
			Kind:    EventEnumSubstituted,
			Schema:  at.schema,
			Field:   at.field,
			Path:    pointerOrRoot(at.path),
			Value:   s,
			Message: fmt.Sprintf("unknown value %q for enum %s, substituting %s", s, c.name, c.unknown),
		})
	}
	return c.unknown, nil
}
