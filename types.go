package wiremodel

// UnknownPolicy controls how wire keys that match no declared field are handled.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys (forward compatible default).
	UnknownStrict                           // Reject unknown keys with an error.
	UnknownPassthrough                      // Keep unknown keys on the instance and re-emit them.
)

// EnumMode selects how the enum guard treats values outside the allowed set.
type EnumMode int

const (
	EnumInherit EnumMode = iota // Use the mode implied by the schema Role.
	EnumStrict                  // Reject with InvalidEnumValueError.
	EnumLenient                 // Substitute the sentinel and report a diagnostic.
)

func (m EnumMode) String() string {
	switch m {
	case EnumStrict:
		return "strict"
	case EnumLenient:
		return "lenient"
	default:
		return "inherit"
	}
}

// Role is the wire role of a model: data read back from the service, or a
// request payload sent to it.
type Role int

const (
	RoleResponse Role = iota
	RoleRequest
)

func (r Role) String() string {
	if r == RoleRequest {
		return "request"
	}
	return "response"
}

// enumMode is the mode a role implies for its enum fields.
func (r Role) enumMode() EnumMode {
	if r == RoleRequest {
		return EnumStrict
	}
	return EnumLenient
}

// Severity expresses the severity level for decode-stage issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement while reading wire bytes.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// ReadOpt bundles options for turning wire bytes into a wire value.
type ReadOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	// OnIssue receives non-fatal decode issues, such as duplicate keys under
	// Warn.
	OnIssue func(Issue)
}
