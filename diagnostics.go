package wiremodel

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// EventKind classifies a recoverable condition met while mapping.
type EventKind int

const (
	// EventEnumSubstituted: a lenient enum field received an out-of-set value
	// and now holds the sentinel.
	EventEnumSubstituted EventKind = iota + 1
	// EventDiscriminatorFallback: a polymorphic object carried no usable
	// discriminator and was decoded as its base type.
	EventDiscriminatorFallback
)

func (k EventKind) String() string {
	switch k {
	case EventEnumSubstituted:
		return "enum_substituted"
	case EventDiscriminatorFallback:
		return "discriminator_fallback"
	default:
		return "unknown"
	}
}

// Event is a non-fatal diagnostic.
type Event struct {
	Kind    EventKind
	Schema  string
	Field   string
	Path    string // JSON Pointer into the wire value
	Value   any    // rejected enum value or discriminator value (nil when absent)
	Message string
}

// Diagnostics receives non-fatal events. Implementations must be safe for
// concurrent use when the Mapper is shared between goroutines.
type Diagnostics interface {
	Report(Event)
}

// DiagnosticsFunc adapts a function to Diagnostics.
type DiagnosticsFunc func(Event)

func (f DiagnosticsFunc) Report(e Event) { f(e) }

// Discard drops every event.
var Discard Diagnostics = DiagnosticsFunc(func(Event) {})

// Collector records events in arrival order.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) Report(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

// Len returns the number of recorded events.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Reset drops the recorded events.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.events = nil
	c.mu.Unlock()
}

// SlogDiagnostics reports events as warn-level records on l. A nil l uses
// slog.Default() at report time.
func SlogDiagnostics(l *slog.Logger) Diagnostics { return slogDiagnostics{l: l} }

type slogDiagnostics struct{ l *slog.Logger }

func (s slogDiagnostics) Report(e Event) {
	l := s.l
	if l == nil {
		l = slog.Default()
	}
	l.LogAttrs(context.Background(), slog.LevelWarn, e.Message,
		slog.String("event", e.Kind.String()),
		slog.String("schema", e.Schema),
		slog.String("field", e.Field),
		slog.String("path", e.Path),
		slog.Any("value", e.Value),
	)
}
