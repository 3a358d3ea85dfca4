// Package stream cuts token sources into per-value views.
package stream

import (
	"io"

	eng "github.com/reoring/wiremodel/internal/engine"
)

// Subtree exposes exactly one value of inner, starting with a token the
// caller already consumed (typically the first token of an array element).
// After the value's closing token it reports io.EOF without touching inner,
// so the caller can keep reading siblings from inner.
type Subtree struct {
	inner eng.TokenSource
	first *eng.Token
	depth int
	done  bool
}

// NewSubtree returns the view of the value that begins with first.
func NewSubtree(inner eng.TokenSource, first eng.Token) *Subtree {
	return &Subtree{inner: inner, first: &first}
}

func (s *Subtree) NextToken() (eng.Token, error) {
	if s.done {
		return eng.Token{}, io.EOF
	}
	var tok eng.Token
	if s.first != nil {
		tok, s.first = *s.first, nil
	} else {
		t, err := s.inner.NextToken()
		if err != nil {
			return eng.Token{}, err
		}
		tok = t
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		s.depth++
	case eng.KindEndObject, eng.KindEndArray:
		s.depth--
	}
	// A scalar first token is a whole value.
	if s.depth <= 0 && tok.Kind != eng.KindKey {
		s.done = true
	}
	return tok, nil
}

func (s *Subtree) Location() int64 { return s.inner.Location() }
