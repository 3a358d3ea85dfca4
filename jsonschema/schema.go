package jsonschema

// Draft is the dialect declared by exported root documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
// Only the keywords the wire models need are present.
type Schema struct {
	// Core
	Dialect string             `json:"$schema,omitempty"`
	Ref     string             `json:"$ref,omitempty"`
	Defs    map[string]*Schema `json:"$defs,omitempty"`
	Title   string             `json:"title,omitempty"`
	Type    string             `json:"type,omitempty"`
	Format  string             `json:"format,omitempty"`
	Default any                `json:"default,omitempty"`
	Enum    []string           `json:"enum,omitempty"`
	Const   string             `json:"const,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Union
	OneOf         []*Schema      `json:"oneOf,omitempty"`
	Discriminator *Discriminator `json:"discriminator,omitempty"`
}

// Discriminator is the OpenAPI-style annotation naming the property whose
// value selects a oneOf branch.
type Discriminator struct {
	PropertyName string            `json:"propertyName"`
	Mapping      map[string]string `json:"mapping,omitempty"`
}

// DefRef returns the local reference to a definition under $defs.
func DefRef(name string) string { return "#/$defs/" + name }
