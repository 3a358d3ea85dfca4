// Package gojson provides a JSON driver backed by goccy/go-json.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	wiremodel "github.com/reoring/wiremodel"
	eng "github.com/reoring/wiremodel/internal/engine"
)

// Driver returns a wiremodel.JSONDriver backed by goccy/go-json.
func Driver() wiremodel.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) wiremodel.Source { return NewReader(r) }
func (driverGoJSON) NewBytes(b []byte) wiremodel.Source     { return NewBytes(b) }
func (driverGoJSON) Name() string                           { return "go-json" }

type source struct {
	dec    *j.Decoder
	frames eng.Framer
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	out := eng.Token{Offset: -1}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.frames.Open(true)
			out.Kind = eng.KindBeginObject
		case '[':
			s.frames.Open(false)
			out.Kind = eng.KindBeginArray
		case '}':
			s.frames.Close()
			out.Kind = eng.KindEndObject
		case ']':
			s.frames.Close()
			out.Kind = eng.KindEndArray
		}
	case string:
		out.Kind = eng.KindString
		if s.frames.IsKey() {
			out.Kind = eng.KindKey
		}
		out.String = v
	case bool:
		s.frames.Scalar()
		out.Kind, out.Bool = eng.KindBool, v
	case j.Number:
		s.frames.Scalar()
		out.Kind, out.Number = eng.KindNumber, string(v)
	case float64:
		s.frames.Scalar()
		out.Kind, out.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		s.frames.Scalar()
		out.Kind = eng.KindNull
	}
	return out, nil
}

// go-json does not expose the decoder offset.
func (s *source) Location() int64 { return -1 }
