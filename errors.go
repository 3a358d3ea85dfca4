package wiremodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/wiremodel/i18n"
	eng "github.com/reoring/wiremodel/internal/engine"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeTypeMismatch     = "type_mismatch"
	CodeInvalidFormat    = "invalid_format"
	CodeInvalidEnum      = "invalid_enum"
	CodeUnknownSchema    = "unknown_schema"
	CodeDuplicateSchema  = "duplicate_schema"
	CodeInvalidSchema    = "invalid_schema"
	CodeConflictingAlias = "conflicting_alias"
	CodeUnknownField     = "unknown_field"
	CodeUnknownKey       = "unknown_key"
	// Decode-stage codes produced while reading wire bytes.
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrTypeMismatch       = errors.New("wiremodel: type mismatch")
	ErrMalformedTimestamp = errors.New("wiremodel: malformed timestamp")
	ErrInvalidEnumValue   = errors.New("wiremodel: invalid enum value")
	ErrUnknownSchema      = errors.New("wiremodel: unknown schema")
	ErrDuplicateSchema    = errors.New("wiremodel: duplicate schema")
	ErrInvalidSchema      = errors.New("wiremodel: invalid schema")
	ErrConflictingAlias   = errors.New("wiremodel: conflicting alias")
	ErrUnknownField       = errors.New("wiremodel: unknown field")
	ErrUnknownKey         = errors.New("wiremodel: unknown key")
	ErrRegistrySealed     = errors.New("wiremodel: registry is sealed")
)

// TypeMismatchError reports a wire value whose JSON kind disagrees with the
// declared type.
type TypeMismatchError struct {
	Path     string
	Expected TypeRef
	Got      string // JSON kind of the offending value
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("wiremodel: %s: expected %s, got %s", pointerOrRoot(e.Path), e.Expected, e.Got)
}
func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
func (e *TypeMismatchError) Issue() Issue {
	return newIssue(e.Path, CodeTypeMismatch, nil, map[string]any{"expected": e.Expected.String(), "got": e.Got})
}

// MalformedTimestampError reports date-time text that is not RFC 3339.
type MalformedTimestampError struct {
	Path string
	Text string
	Err  error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("wiremodel: %s: malformed timestamp %q", pointerOrRoot(e.Path), e.Text)
}
func (e *MalformedTimestampError) Unwrap() []error { return []error{ErrMalformedTimestamp, e.Err} }
func (e *MalformedTimestampError) Issue() Issue {
	is := newIssue(e.Path, CodeInvalidFormat, nil, map[string]any{"got": e.Text})
	is.Hint = "RFC 3339"
	is.Cause = e.Err
	return is
}

// InvalidEnumValueError reports a strict-mode enum violation.
type InvalidEnumValueError struct {
	Path    string
	Schema  string
	Field   string
	Value   string
	Allowed []string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("wiremodel: %s: invalid value %q for %s, allowed values are: %s",
		pointerOrRoot(e.Path), e.Value, qualified(e.Schema, e.Field), strings.Join(e.Allowed, ", "))
}
func (e *InvalidEnumValueError) Unwrap() error { return ErrInvalidEnumValue }
func (e *InvalidEnumValueError) Issue() Issue {
	return newIssue(e.Path, CodeInvalidEnum, map[string]string{"field": e.Field},
		map[string]any{"got": e.Value, "allowed": append([]string(nil), e.Allowed...)})
}

// UnknownSchemaError reports a lookup of a type name that is not registered.
// Referrer names the schema and field that referenced it, when known.
type UnknownSchemaError struct {
	Name     string
	Referrer string
}

func (e *UnknownSchemaError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("wiremodel: unknown schema %q referenced by %s", e.Name, e.Referrer)
	}
	return fmt.Sprintf("wiremodel: unknown schema %q", e.Name)
}
func (e *UnknownSchemaError) Unwrap() error { return ErrUnknownSchema }
func (e *UnknownSchemaError) Issue() Issue {
	return newIssue("", CodeUnknownSchema, nil, map[string]any{"schema": e.Name})
}

// DuplicateSchemaError reports a second registration under the same name.
type DuplicateSchemaError struct{ Name string }

func (e *DuplicateSchemaError) Error() string {
	return fmt.Sprintf("wiremodel: schema %q already registered", e.Name)
}
func (e *DuplicateSchemaError) Unwrap() error { return ErrDuplicateSchema }
func (e *DuplicateSchemaError) Issue() Issue {
	return newIssue("", CodeDuplicateSchema, nil, map[string]any{"schema": e.Name})
}

// InvalidSchemaError reports a malformed schema declaration.
type InvalidSchemaError struct {
	Schema string
	Field  string
	Reason string
}

func (e *InvalidSchemaError) Error() string {
	return fmt.Sprintf("wiremodel: invalid schema %s: %s", qualified(e.Schema, e.Field), e.Reason)
}
func (e *InvalidSchemaError) Unwrap() error { return ErrInvalidSchema }
func (e *InvalidSchemaError) Issue() Issue {
	is := newIssue("", CodeInvalidSchema, map[string]string{"field": e.Field}, map[string]any{"schema": e.Schema})
	is.Hint = e.Reason
	return is
}

// ConflictingAliasError reports a wire object that spells one field both
// ways, e.g. "compartmentId" and "compartment_id".
type ConflictingAliasError struct {
	Path     string
	Schema   string
	Field    string
	WireName string
	AltName  string
}

func (e *ConflictingAliasError) Error() string {
	return fmt.Sprintf("wiremodel: %s: cannot provide both %q and %q for %s",
		pointerOrRoot(e.Path), e.WireName, e.AltName, qualified(e.Schema, e.Field))
}
func (e *ConflictingAliasError) Unwrap() error { return ErrConflictingAlias }
func (e *ConflictingAliasError) Issue() Issue {
	return newIssue(e.Path, CodeConflictingAlias, map[string]string{"field": e.Field},
		map[string]any{"wire": e.WireName, "alt": e.AltName})
}

// UnknownFieldError reports an assignment to a field the schema does not declare.
type UnknownFieldError struct {
	Schema string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("wiremodel: %s has no field %q", e.Schema, e.Field)
}
func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }
func (e *UnknownFieldError) Issue() Issue {
	return newIssue("/"+escapePointer(e.Field), CodeUnknownField, map[string]string{"field": e.Field}, nil)
}

// UnknownKeyError reports a wire key rejected under UnknownStrict.
type UnknownKeyError struct {
	Path   string
	Schema string
	Key    string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("wiremodel: %s: unknown key for %s", pointerOrRoot(e.Path), e.Schema)
}
func (e *UnknownKeyError) Unwrap() error { return ErrUnknownKey }
func (e *UnknownKeyError) Issue() Issue {
	return newIssue(e.Path, CodeUnknownKey, nil, map[string]any{"schema": e.Schema})
}

// Issue represents a single error entry in the projection used by API layers.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/lifecycleState).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"got": "LEGACY"}) for i18n
	// and observability.
	Params map[string]any
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// issuer is implemented by every typed error of this package.
type issuer interface{ Issue() Issue }

// ToIssues projects any error returned by this module into Issues.
func ToIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	var it issuer
	if errors.As(err, &it) {
		return Issues{it.Issue()}
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{newIssue(ie.Path, ie.Code, nil, nil)}
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
}

func newIssue(path, code string, data map[string]string, params map[string]any) Issue {
	return Issue{Path: pointerOrRoot(path), Code: code, Message: i18n.T(code, data), Params: params}
}

func qualified(schema, field string) string {
	switch {
	case schema == "":
		return field
	case field == "":
		return schema
	}
	return schema + "." + field
}
