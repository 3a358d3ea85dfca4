package engine

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource replays a fixed token list.
type sliceSource struct {
	toks []Token
	pos  int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.pos >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.pos) }

func obj(kv ...Token) []Token {
	out := []Token{{Kind: KindBeginObject}}
	out = append(out, kv...)
	return append(out, Token{Kind: KindEndObject})
}

func key(k string) Token { return Token{Kind: KindKey, String: k} }
func str(s string) Token { return Token{Kind: KindString, String: s} }
func num(n string) Token { return Token{Kind: KindNumber, Number: n} }

func TestDecodeAny_NestedValues(t *testing.T) {
	toks := obj(
		key("id"), str("ocid1"),
		key("count"), num("12"),
		key("tags"), Token{Kind: KindBeginArray}, str("a"), Token{Kind: KindNull}, Token{Kind: KindEndArray},
		key("ok"), Token{Kind: KindBool, Bool: true},
	)
	v, err := DecodeAny(&sliceSource{toks: toks})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":    "ocid1",
		"count": json.Number("12"),
		"tags":  []any{"a", nil},
		"ok":    true,
	}, v)
}

func TestDecodeAny_TrailingData(t *testing.T) {
	toks := append(obj(), str("extra"))
	_, err := DecodeAny(&sliceSource{toks: toks})
	assert.ErrorIs(t, err, ErrTrailingData)
}

func TestDecodeAny_Truncated(t *testing.T) {
	toks := []Token{{Kind: KindBeginObject}, key("a")}
	_, err := DecodeAny(&sliceSource{toks: toks})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestEnforce_DuplicateKeyError(t *testing.T) {
	// {"a": {"b": 1, "b": 2}}
	inner := obj(key("b"), num("1"), key("b"), num("2"))
	toks := obj(append([]Token{key("a")}, inner...)...)
	_, err := DecodeAny(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{OnDuplicate: DupError}))
	var ie IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "duplicate_key", ie.Code)
	assert.Equal(t, "/a/b", ie.Path)
}

func TestEnforce_DuplicateKeyWarnReportsAndContinues(t *testing.T) {
	var got []SimpleIssue
	src := WrapWithEnforcement(&sliceSource{toks: obj(key("x"), num("1"), key("x"), num("2"))}, EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink:   func(si SimpleIssue) { got = append(got, si) },
	})
	v, err := DecodeAny(src)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": json.Number("2")}, v)
	require.Len(t, got, 1)
	assert.Equal(t, "/x", got[0].Path)
}

func TestEnforce_MaxDepth(t *testing.T) {
	toks := []Token{
		{Kind: KindBeginArray}, {Kind: KindBeginArray}, {Kind: KindBeginArray},
		{Kind: KindEndArray}, {Kind: KindEndArray}, {Kind: KindEndArray},
	}
	_, err := DecodeAny(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxDepth: 2}))
	var ie IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "/0/0", ie.Path)
}

func TestFramer_KeysAndValues(t *testing.T) {
	var f Framer
	f.Open(true)
	assert.True(t, f.IsKey())
	assert.False(t, f.IsKey()) // value
	assert.True(t, f.IsKey())
	f.Open(false)
	assert.False(t, f.IsKey())
	f.Close()
	assert.True(t, f.IsKey())
}
