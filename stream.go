package wiremodel

import (
	"context"
	"errors"
	"io"

	eng "github.com/reoring/wiremodel/internal/engine"
	"github.com/reoring/wiremodel/internal/stream"
)

// DecodeEach reads a JSON array from src and decodes its elements as
// typeName one at a time, so a large list response is never held as a
// single wire value. fn receives each element with its index; null elements
// are skipped. A non-nil error from fn stops the scan and is returned as is.
//
// Read failures are Issues whose paths include the element index; mapping
// failures are the typed errors of Decode with the same paths.
func (m *Mapper) DecodeEach(ctx context.Context, src Source, typeName string, opt ReadOpt, fn func(int, *Instance) error) error {
	s, err := m.reg.Lookup(typeName)
	if err != nil {
		return err
	}
	in := enforce(src, opt)
	tok, err := in.NextToken()
	if err != nil {
		return readIssues(err)
	}
	if tok.Kind != eng.KindBeginArray {
		return &TypeMismatchError{Path: "/", Expected: ArrayOf(ObjectType(typeName)), Got: tokenKind(tok.Kind)}
	}
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := in.NextToken()
		if err != nil {
			return readIssues(err)
		}
		if tok.Kind == eng.KindEndArray {
			break
		}
		wire, err := eng.DecodeAny(stream.NewSubtree(in, tok))
		if err != nil {
			return readIssues(err)
		}
		if wire == nil {
			continue
		}
		x, err := m.decodeObject(s, wire, indexPointer("", i))
		if err != nil {
			return err
		}
		if err := fn(i, x); err != nil {
			return err
		}
	}
	if _, err := in.NextToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = eng.ErrTrailingData
		}
		return readIssues(err)
	}
	return nil
}

func tokenKind(k eng.Kind) string {
	switch k {
	case eng.KindBeginObject:
		return "object"
	case eng.KindString:
		return "string"
	case eng.KindNumber:
		return "number"
	case eng.KindBool:
		return "boolean"
	case eng.KindNull:
		return "null"
	default:
		return "invalid"
	}
}
