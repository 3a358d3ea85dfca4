package codec

import (
	"errors"
	"testing"
	"time"
)

func TestParseRFC3339_Basic(t *testing.T) {
	in := "2025-01-01T00:00:00Z"
	got, err := ParseRFC3339(in)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}
	if out := FormatRFC3339(got); out != in {
		t.Fatalf("roundtrip mismatch: %s != %s", out, in)
	}
}

func TestParseRFC3339_FractionAndOffset(t *testing.T) {
	got, err := ParseRFC3339("2024-06-30T23:59:59.120+02:00")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	// trailing zeros of the fraction go, the instant does not change
	if out := FormatRFC3339(got); out != "2024-06-30T21:59:59.12Z" {
		t.Fatalf("unexpected format: %s", out)
	}
}

func TestParseRFC3339_LowercaseSeparators(t *testing.T) {
	got, err := ParseRFC3339("2025-03-04t05:06:07z")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got.Hour() != 5 {
		t.Fatalf("unexpected hour: %d", got.Hour())
	}
}

func TestParseRFC3339_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2025-13-01T00:00:00Z", "2025-01-01"} {
		if _, err := ParseRFC3339(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
	if _, err := ParseRFC3339(""); !errors.Is(err, ErrEmptyTimestamp) {
		t.Fatalf("expected ErrEmptyTimestamp, got %v", err)
	}
}
