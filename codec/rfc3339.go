// Package codec holds the wire conversions for primitive kinds that are not
// native JSON types.
package codec

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyTimestamp is returned for empty date-time text.
var ErrEmptyTimestamp = errors.New("codec: empty timestamp")

// ParseRFC3339 parses date-time wire text. RFC 3339 with optional fractional
// seconds is accepted; a lowercase 't' or 'z' is tolerated as RFC 3339 allows.
func ParseRFC3339(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrEmptyTimestamp
	}
	norm := s
	if strings.ContainsAny(norm, "tz") {
		norm = strings.ToUpper(norm)
	}
	t, err := time.Parse(time.RFC3339Nano, norm)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, norm); err2 == nil {
			return t2, nil
		}
		return time.Time{}, fmt.Errorf("codec: invalid RFC3339 time %q: %w", s, err)
	}
	return t, nil
}

// FormatRFC3339 renders t in UTC using RFC3339Nano, which trims trailing
// zeros from the fraction.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
