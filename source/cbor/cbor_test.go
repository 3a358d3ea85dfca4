package cbor_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wiremodel "github.com/reoring/wiremodel"
	wirecbor "github.com/reoring/wiremodel/source/cbor"
)

func testMapper(t *testing.T) *wiremodel.Mapper {
	t.Helper()
	reg := wiremodel.NewRegistry()
	require.NoError(t, reg.Register(&wiremodel.Schema{Name: "Record", Fields: []wiremodel.Field{
		{Name: "domain", Type: wiremodel.StringType},
		{Name: "ttl", Type: wiremodel.IntegerType},
		{Name: "weight", Type: wiremodel.FloatType},
		{Name: "time_created", Type: wiremodel.DateTimeType},
		{Name: "rdata", Type: wiremodel.ArrayOf(wiremodel.StringType)},
		{Name: "extra", Type: wiremodel.AnyType},
	}}))
	m, err := wiremodel.NewMapper(reg, wiremodel.WithDiagnostics(wiremodel.Discard))
	require.NoError(t, err)
	return m
}

func TestDecode_GenericShape(t *testing.T) {
	data, err := cbor.Marshal(map[string]any{
		"n":     uint64(7),
		"neg":   int64(-3),
		"f":     1.5,
		"bytes": []byte{1, 2, 3},
		"list":  []any{"a", true, nil},
		"obj":   map[string]any{"k": "v"},
	})
	require.NoError(t, err)

	v, err := wirecbor.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"n":     json.Number("7"),
		"neg":   json.Number("-3"),
		"f":     json.Number("1.5"),
		"bytes": "AQID",
		"list":  []any{"a", true, nil},
		"obj":   map[string]any{"k": "v"},
	}, v)
}

func TestDecode_RejectsNonFinite(t *testing.T) {
	data, err := cbor.Marshal(map[string]any{"f": math.Inf(1)})
	require.NoError(t, err)
	_, err = wirecbor.Decode(data)
	assert.ErrorIs(t, err, wirecbor.ErrNonFinite)
	assert.Contains(t, err.Error(), "/f")
}

func TestDecode_Malformed(t *testing.T) {
	_, err := wirecbor.Decode([]byte{0xa1})
	assert.Error(t, err)
}

func TestEncode_IsDeterministic(t *testing.T) {
	a, err := wirecbor.Encode(map[string]any{"b": json.Number("2"), "a": json.Number("0.5"), "c": []any{json.Number("18446744073709551615")}})
	require.NoError(t, err)
	b, err := wirecbor.Encode(map[string]any{"c": []any{uint64(math.MaxUint64)}, "a": 0.5, "b": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRoundTripThroughMapper(t *testing.T) {
	m := testMapper(t)
	x := m.MustNew("Record").
		MustSet("domain", "example.com").
		MustSet("ttl", 300).
		MustSet("weight", 0.25).
		MustSet("time_created", "2024-02-03T04:05:06.789Z").
		MustSet("rdata", []string{"192.0.2.1"}).
		MustSet("extra", map[string]any{"n": json.Number("1")})

	data, err := wirecbor.Marshal(m, x)
	require.NoError(t, err)
	back, err := wirecbor.Unmarshal(m, data, "Record")
	require.NoError(t, err)
	assert.True(t, x.Equal(back), "%s != %s", x, back)

	_, err = wirecbor.Unmarshal(m, data, "Missing")
	assert.ErrorIs(t, err, wiremodel.ErrUnknownSchema)
}
