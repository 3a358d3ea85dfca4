package wiremodel

import (
	"strings"
)

// Presence is the per-field bit set recorded on an Instance.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field was assigned (from the wire or by the application).
	PresenceWasNull                             // The assigned value was null.
	PresenceDefaultApplied                      // The declared default filled a wholly absent field.
)

// IsSet reports whether the field holds a value the serializer emits.
func (p Presence) IsSet() bool { return p != 0 }

// PresenceMap maps JSON Pointers (by wire name) to Presence flags.
type PresenceMap map[string]Presence

// PresenceMap collects presence for the whole object tree. The root "/" is
// always marked seen; set fields, array elements and map entries below it are
// keyed by their JSON Pointer.
func (x *Instance) PresenceMap() PresenceMap {
	pm := PresenceMap{"/": PresenceSeen}
	x.collectPresence("", pm)
	return pm
}

func (x *Instance) collectPresence(base string, pm PresenceMap) {
	for i, f := range x.schema.Fields {
		if x.presence[i] == 0 {
			continue
		}
		p := joinPointer(base, f.WireName)
		pm[p] |= x.presence[i]
		collectValuePresence(x.values[i], p, pm)
	}
	for k := range x.extra {
		pm[joinPointer(base, k)] |= PresenceSeen
	}
}

func collectValuePresence(v any, cur string, pm PresenceMap) {
	switch t := v.(type) {
	case *Instance:
		t.collectPresence(cur, pm)
	case []any:
		for i, e := range t {
			p := indexPointer(cur, i)
			pm[p] |= PresenceSeen
			if e == nil {
				pm[p] |= PresenceWasNull
			}
			collectValuePresence(e, p, pm)
		}
	case map[string]any:
		for k, e := range t {
			p := joinPointer(cur, k)
			pm[p] |= PresenceSeen
			if e == nil {
				pm[p] |= PresenceWasNull
			}
			collectValuePresence(e, p, pm)
		}
	}
}

// Filter keeps the entries under any of the include prefixes (all entries
// when include is empty) and drops those under an exclude prefix.
func (pm PresenceMap) Filter(include, exclude []string) PresenceMap {
	if pm == nil {
		return nil
	}
	out := make(PresenceMap, len(pm))
	for k, v := range pm {
		if len(include) > 0 && !hasAnyPrefix(k, include) {
			continue
		}
		if hasAnyPrefix(k, exclude) {
			continue
		}
		out[k] = v
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
