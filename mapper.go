package wiremodel

// Mapper turns wire values into Instances and back against a sealed Registry.
// A Mapper is immutable after construction and safe for concurrent use as
// long as its Diagnostics sink is.
type Mapper struct {
	reg      *Registry
	diag     Diagnostics
	unknown  UnknownPolicy
	enumMode EnumMode
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithDiagnostics routes enum substitutions and discriminator fallbacks to d.
// The default logs them through slog.Default(). nil selects Discard.
func WithDiagnostics(d Diagnostics) Option {
	return func(m *Mapper) {
		if d == nil {
			d = Discard
		}
		m.diag = d
	}
}

// WithUnknownPolicy selects how wire keys matching no field are handled.
func WithUnknownPolicy(p UnknownPolicy) Option {
	return func(m *Mapper) { m.unknown = p }
}

// WithDefaultEnumMode forces one enum mode on every field. EnumInherit (the
// default) keeps per-field modes and the schema role.
func WithDefaultEnumMode(mode EnumMode) Option {
	return func(m *Mapper) { m.enumMode = mode }
}

// NewMapper seals reg (if not sealed yet) and returns a Mapper over it.
func NewMapper(reg *Registry, opts ...Option) (*Mapper, error) {
	if err := reg.Seal(); err != nil {
		return nil, err
	}
	m := &Mapper{reg: reg, diag: SlogDiagnostics(nil)}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// MustMapper is NewMapper for registries known to be valid.
func MustMapper(reg *Registry, opts ...Option) *Mapper {
	m, err := NewMapper(reg, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Registry returns the registry the mapper reads.
func (m *Mapper) Registry() *Registry { return m.reg }

// New returns an Instance of typeName holding only what construction implies:
// fields with a default carry it (flagged PresenceDefaultApplied), and when
// the schema is a subtype selected by a discriminator, the discriminator field
// is preset to its tag so the instance serializes as the same subtype.
func (m *Mapper) New(typeName string) (*Instance, error) {
	s, err := m.reg.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	x := newInstance(s, m.diag, m.enumMode)
	for i, f := range s.Fields {
		if f.HasDefault {
			x.values[i] = cloneValue(f.Default)
			x.presence[i] = PresenceDefaultApplied
		}
	}
	if s.Tag != "" && s.parent != nil && s.parent.Discriminator != "" {
		if i, ok := s.byKey[s.parent.Discriminator]; ok {
			x.values[i] = s.Tag
			x.presence[i] = PresenceSeen
		}
	}
	return x, nil
}

// MustNew is New for type names known to be registered.
func (m *Mapper) MustNew(typeName string) *Instance {
	x, err := m.New(typeName)
	if err != nil {
		panic(err)
	}
	return x
}

func (m *Mapper) modeFor(s *Schema, f Field) EnumMode {
	return resolveEnumMode(m.enumMode, s, f)
}

// resolveEnumMode applies a mapper-wide override before the field mode and
// the schema role. Decode and Instance.Set both go through it.
func resolveEnumMode(override EnumMode, s *Schema, f Field) EnumMode {
	if override != EnumInherit {
		return override
	}
	return f.EffectiveMode(s.Role)
}
