package wiremodel

import (
	"fmt"
	"strings"
)

// Kind classifies a declared type.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInteger
	KindBoolean
	KindFloat
	KindDateTime
	KindAny    // raw wire value, passed through untouched
	KindObject // a named schema
	KindArray
	KindMap
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindString:   "string",
	KindInteger:  "integer",
	KindBoolean:  "boolean",
	KindFloat:    "float",
	KindDateTime: "datetime",
	KindAny:      "any",
	KindObject:   "object",
	KindArray:    "array",
	KindMap:      "map",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// IsPrimitive reports whether k converts directly without recursion.
func (k Kind) IsPrimitive() bool { return k >= KindString && k <= KindAny }

// TypeRef is a declared field type: a primitive, a named schema, or a
// sequence/map of another TypeRef.
type TypeRef struct {
	Kind Kind
	Name string   // schema name, KindObject only
	Elem *TypeRef // element type, KindArray and KindMap only
}

var (
	StringType   = TypeRef{Kind: KindString}
	IntegerType  = TypeRef{Kind: KindInteger}
	BooleanType  = TypeRef{Kind: KindBoolean}
	FloatType    = TypeRef{Kind: KindFloat}
	DateTimeType = TypeRef{Kind: KindDateTime}
	AnyType      = TypeRef{Kind: KindAny}
)

// ObjectType refers to the registered schema called name.
func ObjectType(name string) TypeRef { return TypeRef{Kind: KindObject, Name: name} }

// ArrayOf is an ordered sequence of elem.
func ArrayOf(elem TypeRef) TypeRef { return TypeRef{Kind: KindArray, Elem: &elem} }

// MapOf is a string-keyed map of elem.
func MapOf(elem TypeRef) TypeRef { return TypeRef{Kind: KindMap, Elem: &elem} }

// Leaf returns the innermost element type, unwrapping arrays and maps.
func (t TypeRef) Leaf() TypeRef {
	for (t.Kind == KindArray || t.Kind == KindMap) && t.Elem != nil {
		t = *t.Elem
	}
	return t
}

// String renders the canonical type expression accepted by ParseType.
func (t TypeRef) String() string {
	switch t.Kind {
	case KindObject:
		return t.Name
	case KindArray, KindMap:
		if t.Elem == nil {
			return t.Kind.String() + "<?>"
		}
		return t.Kind.String() + "<" + t.Elem.String() + ">"
	default:
		return t.Kind.String()
	}
}

// Equal compares two type expressions structurally.
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Kind != o.Kind || t.Name != o.Name {
		return false
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == o.Elem
	}
	return t.Elem.Equal(*o.Elem)
}

var primitiveNames = map[string]Kind{
	"string":    KindString,
	"integer":   KindInteger,
	"int":       KindInteger,
	"boolean":   KindBoolean,
	"bool":      KindBoolean,
	"float":     KindFloat,
	"number":    KindFloat,
	"datetime":  KindDateTime,
	"date-time": KindDateTime,
	"any":       KindAny,
	"object":    KindAny,
}

// ParseType parses a type expression:
//
//	string | integer | boolean | float | datetime | any
//	array<T> | map<T> | map<string, T> | SchemaName
//
// Primitive and container keywords are case-insensitive, so the generated
// SDK spellings "Array<String>" and "Hash<String, Connection>" also parse
// ("hash" is accepted as a synonym of "map").
func ParseType(expr string) (TypeRef, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return TypeRef{}, fmt.Errorf("wiremodel: empty type expression")
	}
	if open := strings.IndexByte(s, '<'); open >= 0 {
		if !strings.HasSuffix(s, ">") {
			return TypeRef{}, fmt.Errorf("wiremodel: type %q: missing '>'", expr)
		}
		head := strings.ToLower(strings.TrimSpace(s[:open]))
		args := splitTopLevel(s[open+1 : len(s)-1])
		switch head {
		case "array", "list":
			if len(args) != 1 {
				return TypeRef{}, fmt.Errorf("wiremodel: type %q: array takes one argument", expr)
			}
			elem, err := ParseType(args[0])
			if err != nil {
				return TypeRef{}, err
			}
			return ArrayOf(elem), nil
		case "map", "hash":
			switch len(args) {
			case 1:
			case 2:
				if !strings.EqualFold(strings.TrimSpace(args[0]), "string") {
					return TypeRef{}, fmt.Errorf("wiremodel: type %q: map keys must be string", expr)
				}
				args = args[1:]
			default:
				return TypeRef{}, fmt.Errorf("wiremodel: type %q: map takes one or two arguments", expr)
			}
			elem, err := ParseType(args[0])
			if err != nil {
				return TypeRef{}, err
			}
			return MapOf(elem), nil
		default:
			return TypeRef{}, fmt.Errorf("wiremodel: type %q: unknown container %q", expr, head)
		}
	}
	if k, ok := primitiveNames[strings.ToLower(s)]; ok {
		return TypeRef{Kind: k}, nil
	}
	if !validTypeName(s) {
		return TypeRef{}, fmt.Errorf("wiremodel: type %q: invalid schema name", expr)
	}
	return ObjectType(s), nil
}

// MustParseType is ParseType for static declarations.
func MustParseType(expr string) TypeRef {
	t, err := ParseType(expr)
	if err != nil {
		panic(err)
	}
	return t
}

// splitTopLevel splits on commas that are not nested inside <>.
func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

func validTypeName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case (r >= '0' && r <= '9') || r == '.':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
