// Package declare loads schema declarations written as data (YAML or JSONC)
// into a wiremodel.Registry.
//
// A declaration document has two sections:
//
//	enums:
//	  LifecycleState:
//	    values: [ACTIVE, DELETED]
//	    unknown: UNKNOWN_ENUM_VALUE   # optional
//	schemas:
//	  - name: Connection
//	    role: response                # or request
//	    discriminator: connectionType
//	    subtypes: {MYSQL: MysqlConnection}
//	    fields:
//	      - {name: lifecycle_state, type: string, enum: LifecycleState}
//	      - {name: vendor, type: string, default: ORACLE}
//
// Field wire names default to the lowerCamel form of the underscore name.
// Schemas may appear in any order; bases are registered before the schemas
// extending them.
package declare

import (
	"bytes"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"

	wiremodel "github.com/reoring/wiremodel"
	"github.com/reoring/wiremodel/source/gojson"
)

// Format selects the declaration syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatJSONC
)

func (f Format) String() string {
	if f == FormatJSONC {
		return "jsonc"
	}
	return "yaml"
}

// FormatOf picks the format from a file extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	default:
		return 0, fmt.Errorf("declare: %s: unknown declaration format", name)
	}
}

// Document is one parsed declaration file.
type Document struct {
	Enums   map[string]EnumDecl `json:"enums,omitempty"`
	Schemas []SchemaDecl        `json:"schemas,omitempty"`
}

type EnumDecl struct {
	Values  []string `json:"values"`
	Unknown string   `json:"unknown,omitempty"`
}

type SchemaDecl struct {
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Role          string            `json:"role,omitempty"`
	Extends       string            `json:"extends,omitempty"`
	Tag           string            `json:"tag,omitempty"`
	Discriminator string            `json:"discriminator,omitempty"`
	Subtypes      map[string]string `json:"subtypes,omitempty"`
	Fields        []FieldDecl       `json:"fields,omitempty"`
}

type FieldDecl struct {
	Name        string `json:"name"`
	Wire        string `json:"wire,omitempty"`
	Type        string `json:"type"`
	Enum        string `json:"enum,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Parse reads a declaration document. YAML streams may hold several
// documents; they are merged.
func Parse(data []byte, f Format) (*Document, error) {
	var raws []any
	switch f {
	case FormatYAML:
		docs, err := readYAML(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("declare: %w", err)
		}
		raws = docs
	case FormatJSONC:
		v, err := wiremodel.ReadWire(gojson.NewBytes(jsonc.ToJSON(data)), wiremodel.ReadOpt{
			Strictness: wiremodel.Strictness{OnDuplicateKey: wiremodel.Error},
		})
		if err != nil {
			return nil, fmt.Errorf("declare: %w", err)
		}
		raws = []any{v}
	default:
		return nil, fmt.Errorf("declare: unknown format %d", int(f))
	}

	doc := &Document{}
	for _, raw := range raws {
		part, err := fromGeneric(raw)
		if err != nil {
			return nil, err
		}
		if err := doc.Merge(part); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// fromGeneric maps a JSON-like value onto Document, rejecting unknown keys.
func fromGeneric(raw any) (*Document, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("declare: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("declare: %w", err)
	}
	return &doc, nil
}

// Merge adds the enums and schemas of o. Enum names must not collide.
func (d *Document) Merge(o *Document) error {
	for name, e := range o.Enums {
		if _, dup := d.Enums[name]; dup {
			return fmt.Errorf("declare: enum %s declared twice", name)
		}
		if d.Enums == nil {
			d.Enums = make(map[string]EnumDecl)
		}
		d.Enums[name] = e
	}
	d.Schemas = append(d.Schemas, o.Schemas...)
	return nil
}

// Register adds every schema of d to reg, bases first.
func (d *Document) Register(reg *wiremodel.Registry) error {
	enums := make(map[string]*wiremodel.EnumConstraint, len(d.Enums))
	for _, name := range slices.Sorted(maps.Keys(d.Enums)) {
		e := d.Enums[name]
		c, err := wiremodel.NewEnumConstraint(name, e.Unknown, e.Values...)
		if err != nil {
			return err
		}
		enums[name] = c
	}
	ordered, err := basesFirst(d.Schemas)
	if err != nil {
		return err
	}
	for _, sd := range ordered {
		s, err := sd.schema(enums)
		if err != nil {
			return err
		}
		if err := reg.Register(s); err != nil {
			return fmt.Errorf("declare: %w", err)
		}
	}
	return nil
}

func (sd SchemaDecl) schema(enums map[string]*wiremodel.EnumConstraint) (*wiremodel.Schema, error) {
	s := &wiremodel.Schema{
		Name:          sd.Name,
		Extends:       sd.Extends,
		Tag:           sd.Tag,
		Discriminator: sd.Discriminator,
		Subtypes:      sd.Subtypes,
	}
	switch strings.ToLower(sd.Role) {
	case "", "response":
		s.Role = wiremodel.RoleResponse
	case "request":
		s.Role = wiremodel.RoleRequest
	default:
		return nil, fmt.Errorf("declare: schema %s: unknown role %q", sd.Name, sd.Role)
	}
	for _, fd := range sd.Fields {
		f, err := fd.field(enums)
		if err != nil {
			return nil, fmt.Errorf("declare: schema %s: field %s: %w", sd.Name, fd.Name, err)
		}
		s.Fields = append(s.Fields, f)
	}
	return s, nil
}

func (fd FieldDecl) field(enums map[string]*wiremodel.EnumConstraint) (wiremodel.Field, error) {
	t, err := wiremodel.ParseType(fd.Type)
	if err != nil {
		return wiremodel.Field{}, err
	}
	f := wiremodel.Field{Name: fd.Name, WireName: fd.Wire, Type: t}
	if fd.Enum != "" {
		c, ok := enums[fd.Enum]
		if !ok {
			return wiremodel.Field{}, fmt.Errorf("unknown enum %q", fd.Enum)
		}
		f.Enum = c
	}
	switch strings.ToLower(fd.Mode) {
	case "":
	case "strict":
		f.Mode = wiremodel.EnumStrict
	case "lenient":
		f.Mode = wiremodel.EnumLenient
	default:
		return wiremodel.Field{}, fmt.Errorf("unknown enum mode %q", fd.Mode)
	}
	if fd.Default != nil {
		f.Default, f.HasDefault = fd.Default, true
	}
	return f, nil
}

// basesFirst orders declarations so that every schema follows the schema it
// extends when both are declared together.
func basesFirst(decls []SchemaDecl) ([]SchemaDecl, error) {
	byName := make(map[string]int, len(decls))
	for i, sd := range decls {
		if _, dup := byName[sd.Name]; dup {
			return nil, fmt.Errorf("declare: %w", &wiremodel.DuplicateSchemaError{Name: sd.Name})
		}
		byName[sd.Name] = i
	}
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(decls))
	out := make([]SchemaDecl, 0, len(decls))
	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("declare: schema %s extends itself", decls[i].Name)
		}
		state[i] = visiting
		if j, ok := byName[decls[i].Extends]; ok {
			if err := visit(j); err != nil {
				return err
			}
		}
		state[i] = done
		out = append(out, decls[i])
		return nil
	}
	for i := range decls {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Load parses data and registers its schemas in reg.
func Load(reg *wiremodel.Registry, data []byte, f Format) error {
	doc, err := Parse(data, f)
	if err != nil {
		return err
	}
	return doc.Register(reg)
}

// LoadFile loads one declaration file; the format follows its extension.
func LoadFile(reg *wiremodel.Registry, name string) error {
	f, err := FormatOf(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("declare: %w", err)
	}
	if err := Load(reg, data, f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// LoadFS loads every file of fsys matching pattern as one merged document,
// so schemas may extend or reference schemas declared in other files.
func LoadFS(reg *wiremodel.Registry, fsys fs.FS, pattern string) error {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return fmt.Errorf("declare: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("declare: no declaration files match %q", pattern)
	}
	slices.Sort(names)
	merged := &Document{}
	for _, name := range names {
		f, err := FormatOf(name)
		if err != nil {
			return err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("declare: %w", err)
		}
		doc, err := Parse(data, f)
		if err != nil {
			return fmt.Errorf("%s: %w", path.Base(name), err)
		}
		if err := merged.Merge(doc); err != nil {
			return fmt.Errorf("%s: %w", path.Base(name), err)
		}
	}
	return merged.Register(reg)
}
